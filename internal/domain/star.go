package domain

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyName is returned when a star is created without a name
	ErrEmptyName = errors.New("name required")

	// ErrUnknownDomain is returned for domains missing from the domain table
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrNegativeDuration is returned when a countdown field is negative
	ErrNegativeDuration = errors.New("countdown fields must not be negative")
)

// PriorityHigh places a star at the near depth
const PriorityHigh = "high"

// StarStatus tracks a star through its exit animation
type StarStatus string

const (
	StatusActive   StarStatus = "active"
	StatusExpiring StarStatus = "expiring"
	StatusRemoved  StarStatus = "removed"
)

// ExitReason explains why a star is leaving the galaxy
type ExitReason string

const (
	ExitNone      ExitReason = ""
	ExitSupernova ExitReason = "supernova" // countdown reached zero
	ExitDismissed ExitReason = "dismissed" // clicked away by a viewer
)

// Vec3 is a point in galaxy space. Z is depth; closer to zero is closer to the camera.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Viewport is the size of a viewer's drawing surface in pixels
type Viewport struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// OrDefault returns vp, or DefaultViewport when vp has no area
func (vp Viewport) OrDefault() Viewport {
	if vp.Width <= 0 || vp.Height <= 0 {
		return DefaultViewport
	}
	return vp
}

// Star is a task placed in the galaxy
type Star struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Domain    string     `json:"domain"`
	Position  Vec3       `json:"position"`
	Color     string     `json:"color"`
	Remaining *int       `json:"remainingSeconds,omitempty"`
	Urgent    bool       `json:"urgent,omitempty"`
	Status    StarStatus `json:"status"`
	Exit      ExitReason `json:"exit,omitempty"`
}

// HasTimer reports whether the star carries a countdown
func (s *Star) HasTimer() bool {
	return s.Remaining != nil
}

// Snapshot returns the durable fields of the star
func (s *Star) Snapshot() StarSnapshot {
	snap := StarSnapshot{
		ID:     s.ID,
		Name:   s.Name,
		Domain: s.Domain,
		X:      s.Position.X,
		Y:      s.Position.Y,
		Z:      s.Position.Z,
		Color:  s.Color,
		Urgent: s.Urgent,
	}
	if s.Remaining != nil {
		r := *s.Remaining
		snap.Remaining = &r
	}
	return snap
}

// Clone returns a deep copy safe to hand outside the owning hub
func (s *Star) Clone() Star {
	c := *s
	if s.Remaining != nil {
		r := *s.Remaining
		c.Remaining = &r
	}
	return c
}

// StarSnapshot is the persisted form of a star
type StarSnapshot struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Domain    string  `json:"domain"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Color     string  `json:"color"`
	Remaining *int    `json:"remainingSeconds,omitempty"`
	Urgent    bool    `json:"urgent,omitempty"`
}

// CreateStarRequest is what the input surface submits to birth a star
type CreateStarRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	Domain   string   `json:"domain" validate:"required"`
	Priority string   `json:"priority"`
	Hours    int      `json:"hours" validate:"gte=0"`
	Minutes  int      `json:"minutes" validate:"gte=0"`
	Seconds  int      `json:"seconds" validate:"gte=0"`
	Viewport Viewport `json:"viewport"`
}

// Lifetime returns the countdown in seconds, or nil when no timer was requested
func (r CreateStarRequest) Lifetime() *int {
	total := r.Hours*3600 + r.Minutes*60 + r.Seconds
	if total <= 0 {
		return nil
	}
	return &total
}

// IsHighPriority reports whether the request asks for the near depth
func (r CreateStarRequest) IsHighPriority() bool {
	return strings.EqualFold(strings.TrimSpace(r.Priority), PriorityHigh)
}
