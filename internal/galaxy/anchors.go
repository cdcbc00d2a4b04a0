package galaxy

import (
	"fmt"
	"strings"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// AnchorProvider computes where a domain's cluster forms
type AnchorProvider interface {
	Anchor(d domain.TaskDomain, vp domain.Viewport) (x, y float64)
}

// FixedAnchors uses the table's galaxy coordinates regardless of viewport
type FixedAnchors struct{}

func (FixedAnchors) Anchor(d domain.TaskDomain, _ domain.Viewport) (float64, float64) {
	return d.AnchorX, d.AnchorY
}

// ViewportAnchors scales the table's fractions by the creating viewer's viewport
type ViewportAnchors struct{}

func (ViewportAnchors) Anchor(d domain.TaskDomain, vp domain.Viewport) (float64, float64) {
	vp = vp.OrDefault()
	return d.FracX * vp.Width, d.FracY * vp.Height
}

// AnchorsFor returns the provider for mode "fixed" or "viewport"
func AnchorsFor(mode string) (AnchorProvider, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "fixed":
		return FixedAnchors{}, nil
	case "viewport":
		return ViewportAnchors{}, nil
	}
	return nil, fmt.Errorf("unknown anchor mode %q", mode)
}
