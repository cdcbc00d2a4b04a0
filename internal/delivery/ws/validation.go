package ws

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// maxStarNameRunes bounds star names after sanitizing
const maxStarNameRunes = 80

var (
	galaxyNameRegex  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	controlCharRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// IsValidGalaxyName reports whether name can be used as a galaxy (and storage key suffix)
func IsValidGalaxyName(name string) bool {
	return galaxyNameRegex.MatchString(name)
}

// SanitizeStarName strips markup and control characters and bounds the length.
// An empty result means the name is missing.
func SanitizeStarName(name string) string {
	name = htmlTagRegex.ReplaceAllString(name, "")
	name = controlCharRegex.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxStarNameRunes {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxStarNameRunes]))
	}
	return name
}

// ValidationError is a rejected create request, surfaced as a transient cue on the form
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// PrepareCreateRequest sanitizes req in place and checks it
func PrepareCreateRequest(req *domain.CreateStarRequest) error {
	req.Name = SanitizeStarName(req.Name)
	req.Domain = strings.TrimSpace(req.Domain)
	if req.Name == "" {
		return &ValidationError{Field: "name", Message: "Name required!"}
	}

	if err := requestValidator().Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
		}
		return &ValidationError{Field: "payload", Message: err.Error()}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gte":
		return "must not be negative"
	case "max":
		return "too long"
	}
	return "invalid"
}

// asValidationError maps store errors onto the field they concern
func asValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return &ValidationError{Field: "name", Message: "Name required!"}
	case errors.Is(err, domain.ErrUnknownDomain):
		return &ValidationError{Field: "domain", Message: "unknown domain"}
	case errors.Is(err, domain.ErrNegativeDuration):
		return &ValidationError{Field: "seconds", Message: "must not be negative"}
	}
	return err
}
