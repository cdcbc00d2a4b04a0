package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

func TestScale_RangeAndMonotonic(t *testing.T) {
	depths := []float64{0, 1, 50, 300, 800, 1500, 2500, 1e6}
	prev := 2.0
	for _, z := range depths {
		s := Scale(z, domain.FocalLength)
		assert.Greater(t, s, 0.0, "z=%v", z)
		assert.LessOrEqual(t, s, 1.0, "z=%v", z)
		assert.Less(t, s, prev, "scale must shrink as |z| grows (z=%v)", z)
		prev = s

		assert.Equal(t, s, Scale(-z, domain.FocalLength), "scale depends on |z| only")
	}
	assert.Equal(t, 1.0, Scale(0, domain.FocalLength))
	assert.InDelta(t, 0.5, Scale(-800, 800), 1e-12)
}

func TestProject_OriginMapsToCenter(t *testing.T) {
	vp := domain.Viewport{Width: 1024, Height: 768}
	for _, z := range []float64{-2500, -300, 0, 200, 500} {
		p := Project(domain.Vec3{Z: z}, domain.FocalLength, vp)
		assert.Equal(t, 512.0, p.X)
		assert.Equal(t, 384.0, p.Y)
	}
}

func TestProject_PerspectiveDivide(t *testing.T) {
	vp := domain.Viewport{Width: 1000, Height: 600}
	p := Project(domain.Vec3{X: -500, Y: 400, Z: -800}, 800, vp)

	require.InDelta(t, 0.5, p.Scale, 1e-12)
	assert.InDelta(t, -250+500, p.X, 1e-9)
	assert.InDelta(t, 200+300, p.Y, 1e-9)
}

func TestDepthRange_Apply(t *testing.T) {
	wrap := DepthRange{Min: -2500, Max: 500, Policy: DepthWrap}
	clamp := DepthRange{Min: -2500, Max: 500, Policy: DepthClamp}

	tests := []struct {
		name  string
		r     DepthRange
		z     float64
		wantZ float64
	}{
		{"wrap inside", wrap, -1000, -1000},
		{"wrap at max stays", wrap, 500, 500},
		{"wrap past max", wrap, 500.1, -2500},
		{"wrap past min", wrap, -2600, 500},
		{"clamp inside", clamp, 0, 0},
		{"clamp past max", clamp, 900, 500},
		{"clamp past min", clamp, -9000, -2500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantZ, tc.r.Apply(tc.z))
		})
	}
}

func TestDepthRange_Validate(t *testing.T) {
	assert.NoError(t, DepthRange{Min: -1, Max: 1, Policy: DepthClamp}.Validate())
	assert.Error(t, DepthRange{Min: 1, Max: 1, Policy: DepthClamp}.Validate())
	assert.Error(t, DepthRange{Min: -1, Max: 1, Policy: "bounce"}.Validate())
}

func TestParseDepthPolicy(t *testing.T) {
	p, err := ParseDepthPolicy(" Clamp ")
	require.NoError(t, err)
	assert.Equal(t, DepthClamp, p)

	_, err = ParseDepthPolicy("teleport")
	assert.Error(t, err)
}

func TestAnchorsFor(t *testing.T) {
	work, _ := domain.DefaultDomains().Lookup("Work")

	fixed, err := AnchorsFor("fixed")
	require.NoError(t, err)
	x, y := fixed.Anchor(work, domain.Viewport{Width: 10, Height: 10})
	assert.Equal(t, -500.0, x)
	assert.Equal(t, -500.0, y)

	responsive, err := AnchorsFor("viewport")
	require.NoError(t, err)
	x, y = responsive.Anchor(work, domain.Viewport{Width: 2000, Height: 1000})
	assert.Equal(t, -500.0, x)
	assert.Equal(t, -250.0, y)

	_, err = AnchorsFor("spiral")
	assert.Error(t, err)
}
