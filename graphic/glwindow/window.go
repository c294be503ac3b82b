// Package glwindow draws the scene in an OpenGL window.
//
// Everything here must run on the main OS thread. The window doubles as the
// frame scheduler, so the animation loop runs on that thread as well.
package glwindow

import (
	"context"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/noriah/hum/graphic"
	"github.com/noriah/hum/processor"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 400
	DefaultTitle  = "hum"
)

type Config struct {
	Width  int            // window width in screen coordinates
	Height int            // window height in screen coordinates
	Title  string         // window title
	Bloom  bool           // run the bloom pass
	Scene  *graphic.Scene // what to draw, a new scene if nil
	Toggle func() error   // called when space is pressed
	Logger *zap.Logger    // toggle failures go here
}

// Window is an output and a scheduler.
type Window struct {
	win    *glfw.Window
	scene  *graphic.Scene
	toggle func() error
	log    *zap.Logger

	program  uint32
	vao, vbo uint32
	ebo      uint32
	indices  int32

	uProjection int32
	uModelView  int32
	uTime       int32
	uFrequency  int32
	uPeriod     int32
	uColor      int32
	uColor2     int32
	uYLen       int32
	uAlpha      int32

	bloom *bloom

	fbWidth, fbHeight int32
}

var (
	_ processor.Output    = (*Window)(nil)
	_ processor.Scheduler = (*Window)(nil)
)

// New opens the window and uploads the mesh.
func New(cfg Config) (*Window, error) {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}

	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	if cfg.Scene == nil {
		cfg.Scene = graphic.NewScene()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	win, err := initWindow(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to initialize gl")
	}

	w := &Window{
		win:    win,
		scene:  cfg.Scene,
		toggle: cfg.Toggle,
		log:    cfg.Logger,
	}

	fbw, fbh := win.GetFramebufferSize()
	w.fbWidth, w.fbHeight = int32(fbw), int32(fbh)

	if err := w.setup(cfg.Bloom); err != nil {
		w.Close()
		return nil, err
	}

	win.SetKeyCallback(w.onKey)
	win.SetCursorPosCallback(w.onCursor)

	cfg.Logger.Debug("gl window ready",
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int32("width", w.fbWidth),
		zap.Int32("height", w.fbHeight),
		zap.Bool("bloom", cfg.Bloom))

	return w, nil
}

func initWindow(width, height int, title string) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize glfw")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create window")
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

func (w *Window) setup(withBloom bool) error {
	var err error

	if w.program, err = linkProgram(meshVertexShader, meshFragmentShader); err != nil {
		return errors.Wrap(err, "failed to build mesh shader")
	}

	mesh := w.scene.Mesh

	// position and normal, interleaved
	verts := make([]float32, 0, len(mesh.Vertices)*6)
	for idx, v := range mesh.Vertices {
		n := mesh.Normals[idx]
		verts = append(verts, v[0], v[1], v[2], n[0], n[1], n[2])
	}

	indices := make([]uint32, 0, len(mesh.Edges)*2)
	for _, e := range mesh.Edges {
		indices = append(indices, e[0], e[1])
	}
	w.indices = int32(len(indices))

	gl.GenVertexArrays(1, &w.vao)
	gl.GenBuffers(1, &w.vbo)
	gl.GenBuffers(1, &w.ebo)

	gl.BindVertexArray(w.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, w.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	// position (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	// normal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)

	gl.UseProgram(w.program)
	w.uProjection = uniform(w.program, "projectionMatrix")
	w.uModelView = uniform(w.program, "modelViewMatrix")
	w.uTime = uniform(w.program, "u_time")
	w.uFrequency = uniform(w.program, "u_frequency")
	w.uPeriod = uniform(w.program, "u_period")
	w.uColor = uniform(w.program, "u_color")
	w.uColor2 = uniform(w.program, "u_color2")
	w.uYLen = uniform(w.program, "y_len")
	w.uAlpha = uniform(w.program, "u_alpha")

	gl.Uniform1f(w.uPeriod, graphic.NoisePeriod)
	gl.Uniform3f(w.uColor,
		float32(graphic.ColorLow[0]), float32(graphic.ColorLow[1]), float32(graphic.ColorLow[2]))
	gl.Uniform3f(w.uColor2,
		float32(graphic.ColorHigh[0]), float32(graphic.ColorHigh[1]), float32(graphic.ColorHigh[2]))
	gl.Uniform1f(w.uAlpha, graphic.Alpha)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0, 0, 0, 0)

	if withBloom {
		if w.bloom, err = newBloom(w.fbWidth, w.fbHeight); err != nil {
			return errors.Wrap(err, "failed to set up bloom")
		}
	}

	return nil
}

// SetIntensity takes the loudness for the next Tick.
func (w *Window) SetIntensity(v float64) {
	w.scene.SetIntensity(v)
}

// Tick advances the scene and draws one frame. The frame shows on the next
// Wait.
func (w *Window) Tick(dt time.Duration) {
	w.scene.Advance(dt)

	if w.bloom != nil {
		w.bloom.begin()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, w.fbWidth, w.fbHeight)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)

	projection := w.scene.Projection(float32(w.fbWidth) / float32(w.fbHeight))
	modelView := w.scene.View()

	gl.UseProgram(w.program)
	gl.UniformMatrix4fv(w.uProjection, 1, false, &projection[0])
	gl.UniformMatrix4fv(w.uModelView, 1, false, &modelView[0])
	gl.Uniform1f(w.uTime, float32(w.scene.Time()))
	gl.Uniform1f(w.uFrequency, float32(w.scene.Intensity()))
	gl.Uniform1f(w.uYLen, float32(w.fbHeight))

	gl.BindVertexArray(w.vao)
	gl.DrawElements(gl.LINES, w.indices, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if w.bloom != nil {
		w.bloom.end(w.fbWidth, w.fbHeight)
	}
}

// Wait shows the last drawn frame, blocks for vsync and handles window
// events. It fails with processor.ErrClosed once the window is closed.
func (w *Window) Wait(ctx context.Context) (time.Time, error) {
	w.win.SwapBuffers()
	glfw.PollEvents()

	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	if w.win.ShouldClose() {
		return time.Time{}, processor.ErrClosed
	}

	return time.Now(), nil
}

// Close releases everything and closes the window.
func (w *Window) Close() error {
	if w.bloom != nil {
		w.bloom.delete()
		w.bloom = nil
	}

	if w.program != 0 {
		gl.DeleteProgram(w.program)
		w.program = 0
	}

	gl.DeleteBuffers(1, &w.ebo)
	gl.DeleteBuffers(1, &w.vbo)
	gl.DeleteVertexArrays(1, &w.vao)

	w.win.Destroy()
	glfw.Terminate()

	return nil
}

func (w *Window) onKey(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape, glfw.KeyQ:
		win.SetShouldClose(true)

	case glfw.KeySpace:
		if w.toggle == nil {
			return
		}
		if err := w.toggle(); err != nil {
			w.log.Error("failed to toggle playback", zap.Error(err))
		}
	}
}

func (w *Window) onCursor(win *glfw.Window, x, y float64) {
	width, height := win.GetSize()
	w.scene.SetCursor(cursorOffset(x, y, width, height))
}

// cursorOffset maps a cursor position in window coordinates to [-1, 1] on
// each axis, centered on the window.
func cursorOffset(x, y float64, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	hw, hh := float64(width)/2, float64(height)/2

	return (x - hw) / hw, (y - hh) / hh
}
