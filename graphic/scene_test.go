package graphic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSceneIntensity(t *testing.T) {
	s := &Scene{Mesh: NewIcosphere(SphereRadius, 1), camera: CameraStart}

	s.SetIntensity(0.5)
	assert.Equal(t, 0.5, s.Intensity())
	assert.Equal(t, 2.0, s.Brightness())

	for _, bad := range []float64{math.NaN(), math.Inf(1), -1} {
		s.SetIntensity(bad)
		assert.Zero(t, s.Intensity())
	}
}

func TestSceneColor(t *testing.T) {
	s := &Scene{}

	assert.Equal(t, ColorLow, s.Color(0))
	assert.Equal(t, ColorHigh, s.Color(1))

	s.SetIntensity(1)
	c := s.Color(1)
	assert.InDelta(t, ColorHigh[2]*3, c[2], 1e-12)
}

func TestSceneCameraEasing(t *testing.T) {
	s := &Scene{camera: CameraStart}

	s.SetCursor(1, 0)
	s.Advance(16 * time.Millisecond)

	cam := s.Camera()
	assert.InDelta(t, CursorRange*EaseX, cam[0], 1e-6)
	assert.InDelta(t, -2*(1-EaseY), cam[1], 1e-6)
	assert.Equal(t, CameraStart[2], cam[2])

	for i := 0; i < 500; i++ {
		s.Advance(0)
	}

	cam = s.Camera()
	assert.InDelta(t, CursorRange, cam[0], 1e-3)
	assert.InDelta(t, 0, cam[1], 1e-6)

	assert.InDelta(t, 0.016, s.Time(), 1e-12)
}

func TestSceneDisplace(t *testing.T) {
	s := &Scene{Mesh: NewIcosphere(SphereRadius, 2), camera: CameraStart}

	quiet := s.Displace(nil)
	for idx, v := range quiet {
		assert.Equal(t, s.Mesh.Vertices[idx], v)
	}

	s.SetIntensity(1)
	s.Advance(1500 * time.Millisecond)

	moved := 0
	for _, v := range s.Displace(quiet) {
		if math.Abs(float64(v.Len())-SphereRadius) > 1e-3 {
			moved++
		}
	}

	assert.Greater(t, moved, len(quiet)/2)
}
