package galaxy

import (
	"fmt"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// RenderOptions are the knobs of a render pass
type RenderOptions struct {
	FocalLength    float64
	LabelThreshold float64
}

// DefaultRenderOptions returns the stock focal length and label threshold
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		FocalLength:    domain.FocalLength,
		LabelThreshold: domain.LabelThreshold,
	}
}

// Render projects stars onto vp and links each one to the previous star of its domain.
// Stars must be in creation order; they are not modified.
func Render(stars []domain.Star, vp domain.Viewport, opts RenderOptions) domain.Frame {
	vp = vp.OrDefault()
	frame := domain.Frame{
		Viewport: vp,
		Stars:    make([]domain.StarView, 0, len(stars)),
		Links:    make([]domain.Link, 0, len(stars)),
	}

	// last projected star per domain, filled in creation order
	last := make(map[string]int, 4)

	for i := range stars {
		star := &stars[i]
		p := Project(star.Position, opts.FocalLength, vp)

		view := domain.StarView{
			ID:        star.ID,
			Name:      star.Name,
			Label:     Label(star),
			Domain:    star.Domain,
			Color:     star.Color,
			X:         p.X,
			Y:         p.Y,
			Scale:     p.Scale,
			Opacity:   p.Scale,
			ShowLabel: p.Scale > opts.LabelThreshold,
			Urgent:    star.Urgent,
			Critical:  star.Remaining != nil && *star.Remaining <= domain.CriticalSeconds,
			Exit:      star.Exit,
		}
		if star.Status != domain.StatusActive {
			view.Opacity = 0
		}

		if prev, ok := last[star.Domain]; ok {
			pv := frame.Stars[prev]
			frame.Links = append(frame.Links, domain.Link{
				FromID:  star.ID,
				ToID:    pv.ID,
				X1:      p.X,
				Y1:      p.Y,
				X2:      pv.X,
				Y2:      pv.Y,
				Color:   star.Color,
				Width:   2 * p.Scale,
				Opacity: 0.4 * p.Scale,
			})
		}
		last[star.Domain] = len(frame.Stars)
		frame.Stars = append(frame.Stars, view)
	}
	return frame
}

// Label is the text drawn next to a star: its name, plus the countdown if it has one
func Label(star *domain.Star) string {
	if star.Remaining == nil {
		return star.Name
	}
	return star.Name + " · " + FormatCountdown(*star.Remaining)
}

// FormatCountdown renders seconds as "1h 2m 3s"
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
