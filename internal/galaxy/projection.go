// Package galaxy holds the star store and the perspective renderer. Nothing here is safe for
// concurrent use; a galaxy hub owns one Store and calls into it from its own loop.
package galaxy

import (
	"math"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// Projection is a galaxy point mapped onto a viewport
type Projection struct {
	X     float64
	Y     float64
	Scale float64
}

// Scale returns focal / (focal + |z|). It is 1 at z = 0 and falls toward 0 with depth.
func Scale(z, focal float64) float64 {
	return focal / (focal + math.Abs(z))
}

// Project maps p onto vp with a perspective divide around the viewport center
func Project(p domain.Vec3, focal float64, vp domain.Viewport) Projection {
	s := Scale(p.Z, focal)
	return Projection{
		X:     p.X*s + vp.Width/2,
		Y:     p.Y*s + vp.Height/2,
		Scale: s,
	}
}
