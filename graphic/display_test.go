package graphic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
)

func TestRasterizeCentered(t *testing.T) {
	d := NewDisplay(DisplayConfig{
		Scene: &Scene{Mesh: NewIcosphere(SphereRadius, 3), camera: mgl32.Vec3{0, 0, 14}},
	})

	const w, h = 80, 40

	d.rasterize(w, h)

	lit := 0
	for _, v := range d.hits {
		if v > 0 {
			lit++
		}
	}

	assert.Greater(t, lit, 100)

	middle := 0.0
	for x := 0; x < w; x++ {
		middle += d.hits[(h/2)*w+x]
	}
	assert.Greater(t, middle, 0.0)

	// nothing reaches the corners
	assert.Zero(t, d.hits[0])
	assert.Zero(t, d.hits[w*h-1])
}

func TestRasterizeEmpty(t *testing.T) {
	d := NewDisplay(DisplayConfig{Scene: &Scene{Mesh: NewIcosphere(1, 0)}})

	assert.NotPanics(t, func() { d.rasterize(0, 0) })
	assert.Empty(t, d.hits)
}

func TestLineClipped(t *testing.T) {
	d := &Display{}
	d.width, d.height = 4, 4
	d.hits = make([]float64, 16)

	d.line(-5, 1, 10, 1)

	for x := 0; x < 4; x++ {
		assert.InDelta(t, Alpha, d.hits[4+x], 1e-12)
	}
	assert.Zero(t, d.hits[0])
}

func TestShade(t *testing.T) {
	g, level := shade(Alpha, 1)
	assert.NotEqual(t, Glyphs[0], g)
	assert.Greater(t, level, 0.0)

	g, level = shade(1000, 3)
	assert.Equal(t, Glyphs[len(Glyphs)-1], g)
	assert.InDelta(t, 1, level, 1e-9)

	_, dim := shade(4, 1)
	_, bright := shade(4, 3)
	assert.Greater(t, bright, dim)
}

func TestColor256(t *testing.T) {
	assert.Equal(t, termbox.Attribute(17), color256([3]float64{}, 1))
	assert.Equal(t, termbox.Attribute(232), color256([3]float64{1, 1, 1}, 1))
	assert.Equal(t, termbox.Attribute(232), color256([3]float64{4, 4, 4}, 0))
}
