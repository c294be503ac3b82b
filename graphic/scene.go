// Package graphic draws the loudness as a noise-displaced wireframe sphere.
package graphic

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera and look constants.
const (
	FieldOfView = 45.0
	NearPlane   = 0.9
	FarPlane    = 1000.0

	// CursorRange is how far the camera follows the cursor at the edge of the
	// view, in world units.
	CursorRange = 2.0
	// EaseX and EaseY are the per-frame fractions the camera moves towards
	// the cursor.
	EaseX = 0.05
	EaseY = 0.5

	// Alpha is the opacity of every wireframe line.
	Alpha = 0.8
)

var (
	// CameraStart is where the camera sits before the cursor moves.
	CameraStart = mgl32.Vec3{0, -2, 14}

	// ColorLow is the line color at the bottom of the view.
	ColorLow = [3]float64{0.2, 0.3, 0.2}
	// ColorHigh is the line color at the top of the view.
	ColorHigh = [3]float64{0.0, 0.5, 0.9}
)

// Scene is the state shared by the renderers: the mesh, the current
// loudness, the animation clock and the camera.
type Scene struct {
	Mesh *Mesh

	intensity float64
	elapsed   time.Duration

	camera  mgl32.Vec3
	cursorX float64
	cursorY float64
}

func NewScene() *Scene {
	return &Scene{
		Mesh:   NewIcosphere(SphereRadius, SphereDetail),
		camera: CameraStart,
	}
}

// SetIntensity stores the loudness for the next frame. Values that are not
// finite or below zero are drawn as zero.
func (s *Scene) SetIntensity(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	s.intensity = v
}

func (s *Scene) Intensity() float64 {
	return s.intensity
}

// Time is the animation clock in seconds.
func (s *Scene) Time() float64 {
	return s.elapsed.Seconds()
}

// SetCursor takes the cursor position relative to the center of the view,
// with -1 and 1 at the edges.
func (s *Scene) SetCursor(x, y float64) {
	s.cursorX = x * CursorRange
	s.cursorY = y * CursorRange
}

// Advance moves the clock forward and eases the camera towards the cursor.
func (s *Scene) Advance(dt time.Duration) {
	if dt > 0 {
		s.elapsed += dt
	}

	s.camera[0] += float32(s.cursorX-float64(s.camera[0])) * EaseX
	s.camera[1] += float32(-s.cursorY-float64(s.camera[1])) * EaseY
}

func (s *Scene) Camera() mgl32.Vec3 {
	return s.camera
}

// View looks from the camera at the origin.
func (s *Scene) View() mgl32.Mat4 {
	return mgl32.LookAtV(s.camera, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection is the perspective for a view of the given aspect ratio.
func (s *Scene) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, NearPlane, FarPlane)
}

// Brightness is the color multiplier for the current loudness.
func (s *Scene) Brightness() float64 {
	return 1.0 + s.intensity*2.0
}

// Color is the line color at yRel, where 0 is the bottom of the view and 1
// the top, already scaled by the brightness.
func (s *Scene) Color(yRel float64) [3]float64 {
	t := math.Max(0, math.Min(1, yRel*1.8-0.3))
	b := s.Brightness()

	var c [3]float64
	for i := range c {
		c[i] = mix(ColorLow[i], ColorHigh[i], t) * b
	}

	return c
}

// Displace writes the displaced mesh vertices into dst and returns it.
func (s *Scene) Displace(dst []mgl32.Vec3) []mgl32.Vec3 {
	if cap(dst) < len(s.Mesh.Vertices) {
		dst = make([]mgl32.Vec3, len(s.Mesh.Vertices))
	}
	dst = dst[:len(s.Mesh.Vertices)]

	t := s.Time()

	for idx, p := range s.Mesh.Vertices {
		d := Displacement(float64(p[0]), float64(p[1]), float64(p[2]), s.intensity, t)
		dst[idx] = p.Add(s.Mesh.Normals[idx].Mul(float32(d)))
	}

	return dst
}
