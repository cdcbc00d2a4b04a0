package galaxy

import (
	"fmt"
	"strings"
)

// DepthPolicy decides what happens to a star pushed past the depth range
type DepthPolicy string

const (
	// DepthWrap teleports a star that leaves one end of the range to the other end
	DepthWrap DepthPolicy = "wrap"
	// DepthClamp pins a star at the bound it crossed
	DepthClamp DepthPolicy = "clamp"
)

// ParseDepthPolicy accepts "wrap" or "clamp" in any case
func ParseDepthPolicy(s string) (DepthPolicy, error) {
	switch p := DepthPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DepthWrap, DepthClamp:
		return p, nil
	}
	return "", fmt.Errorf("unknown depth policy %q", s)
}

// DepthRange bounds z during camera movement
type DepthRange struct {
	Min    float64
	Max    float64
	Policy DepthPolicy
}

// Apply brings z back inside the range
func (r DepthRange) Apply(z float64) float64 {
	switch {
	case z > r.Max:
		if r.Policy == DepthClamp {
			return r.Max
		}
		return r.Min
	case z < r.Min:
		if r.Policy == DepthClamp {
			return r.Min
		}
		return r.Max
	}
	return z
}

// Validate checks that the range is usable
func (r DepthRange) Validate() error {
	if r.Min >= r.Max {
		return fmt.Errorf("depth range min %v must be below max %v", r.Min, r.Max)
	}
	if _, err := ParseDepthPolicy(string(r.Policy)); err != nil {
		return err
	}
	return nil
}
