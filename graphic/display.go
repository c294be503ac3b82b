package graphic

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// CellAspect is how much taller a terminal cell is than it is wide.
	CellAspect = 2.0

	// hitScale sets how many overlapping lines it takes to reach the
	// densest glyph.
	hitScale = 6.0
)

// Glyphs is the density ramp, from empty to fully lit.
var Glyphs = []rune(" .:-=+*#%@")

type DisplayConfig struct {
	Scene      *Scene            // what to draw, a new scene if nil
	Toggle     func() error      // called when space is pressed
	Logger     *zap.Logger       // toggle failures go here
	Background termbox.Attribute // cell background
}

// Display draws the scene on the termbox screen.
type Display struct {
	scene  *Scene
	toggle func() error
	log    *zap.Logger
	back   termbox.Attribute

	mu sync.Mutex

	verts  []mgl32.Vec3
	points []screenPoint
	hits   []float64
	width  int
	height int

	restore func()
	running bool
	wg      sync.WaitGroup
}

type screenPoint struct {
	x, y    float64
	visible bool
}

func NewDisplay(cfg DisplayConfig) *Display {
	if cfg.Scene == nil {
		cfg.Scene = NewScene()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Display{
		scene:  cfg.Scene,
		toggle: cfg.Toggle,
		log:    cfg.Logger,
		back:   cfg.Background,
	}
}

// Init sets up the terminal. Close undoes it.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}

	if err := termbox.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to initialize termbox")
	}

	d.restore = restore

	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)
	termbox.HideCursor()

	return nil
}

// Start listens for keys and the mouse. The returned context is cancelled
// when the user asks to quit.
func (d *Display) Start(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	d.running = true
	d.wg.Add(1)
	go d.eventPoller(cancel)

	return ctx
}

// eventPoller only returns on an interrupt, so Stop can always reach it.
func (d *Display) eventPoller(cancel context.CancelFunc) {
	defer d.wg.Done()
	defer cancel()

	for {
		ev := termbox.PollEvent()

		switch ev.Type {
		case termbox.EventInterrupt:
			return

		case termbox.EventError:
			d.log.Error("terminal event error", zap.Error(ev.Err))
			cancel()

		case termbox.EventKey:
			switch {
			case ev.Ch == 'q', ev.Ch == 'Q', ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
				cancel()

			case ev.Key == termbox.KeySpace, ev.Ch == ' ':
				if d.toggle == nil {
					continue
				}
				if err := d.toggle(); err != nil {
					d.log.Error("failed to toggle playback", zap.Error(err))
				}
			}

		case termbox.EventMouse:
			w, h := termbox.Size()
			if w == 0 || h == 0 {
				continue
			}

			d.mu.Lock()
			d.scene.SetCursor(
				(float64(ev.MouseX)-float64(w)/2)/(float64(w)/2),
				(float64(ev.MouseY)-float64(h)/2)/(float64(h)/2))
			d.mu.Unlock()
		}
	}
}

// Stop ends event polling.
func (d *Display) Stop() error {
	if !d.running {
		return nil
	}

	termbox.Interrupt()
	d.wg.Wait()
	d.running = false

	return nil
}

// Close gives the terminal back.
func (d *Display) Close() error {
	termbox.Close()

	if d.restore != nil {
		d.restore()
		d.restore = nil
	}

	return nil
}

// SetIntensity takes the loudness for the next Tick.
func (d *Display) SetIntensity(v float64) {
	d.mu.Lock()
	d.scene.SetIntensity(v)
	d.mu.Unlock()
}

// Tick advances the scene and draws one frame.
func (d *Display) Tick(dt time.Duration) {
	w, h := termbox.Size()

	termbox.Clear(termbox.ColorDefault, d.back)

	d.mu.Lock()
	d.scene.Advance(dt)
	d.rasterize(w, h)
	brightness := d.scene.Brightness()

	for y := 0; y < h; y++ {
		color := d.scene.Color(1 - float64(y)/float64(h))

		for x := 0; x < w; x++ {
			hits := d.hits[y*w+x]
			if hits == 0 {
				continue
			}

			glyph, level := shade(hits, brightness)
			termbox.SetCell(x, y, glyph, color256(color, level), d.back)
		}
	}
	d.mu.Unlock()

	termbox.Flush()
}

// rasterize projects the displaced wireframe onto a w by h cell grid and
// counts how many lines cross each cell. Must be called with d.mu held.
func (d *Display) rasterize(w, h int) {
	d.width, d.height = w, h

	if cap(d.hits) < w*h {
		d.hits = make([]float64, w*h)
	}
	d.hits = d.hits[:w*h]
	for i := range d.hits {
		d.hits[i] = 0
	}

	if w <= 0 || h <= 0 {
		return
	}

	d.verts = d.scene.Displace(d.verts)

	aspect := float32(w) / (float32(h) * CellAspect)
	mvp := d.scene.Projection(aspect).Mul4(d.scene.View())

	if cap(d.points) < len(d.verts) {
		d.points = make([]screenPoint, len(d.verts))
	}
	d.points = d.points[:len(d.verts)]

	for idx, v := range d.verts {
		clip := mvp.Mul4x1(v.Vec4(1))
		if clip[3] <= 0 {
			d.points[idx] = screenPoint{}
			continue
		}

		ndc := clip.Vec3().Mul(1 / clip[3])
		d.points[idx] = screenPoint{
			x:       (float64(ndc[0]) + 1) / 2 * float64(w),
			y:       (1 - float64(ndc[1])) / 2 * float64(h),
			visible: ndc[2] >= -1 && ndc[2] <= 1,
		}
	}

	for _, e := range d.scene.Mesh.Edges {
		a, b := d.points[e[0]], d.points[e[1]]
		if !a.visible || !b.visible {
			continue
		}

		d.line(int(a.x), int(a.y), int(b.x), int(b.y))
	}
}

// line adds one hit to every cell between two points, lit additively.
func (d *Display) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy

	for {
		if x0 >= 0 && x0 < d.width && y0 >= 0 && y0 < d.height {
			d.hits[y0*d.width+x0] += Alpha
		}

		if x0 == x1 && y0 == y1 {
			return
		}

		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// shade picks the glyph for a cell and returns how lit it is, in [0, 1].
func shade(hits, brightness float64) (rune, float64) {
	level := 1 - math.Exp(-hits*brightness/hitScale)

	idx := int(math.Round(level * float64(len(Glyphs)-1)))
	if idx < 1 {
		idx = 1
	}
	if idx >= len(Glyphs) {
		idx = len(Glyphs) - 1
	}

	return Glyphs[idx], level
}

// color256 maps a color scaled by level onto the 6x6x6 cube of the 256
// color palette.
func color256(c [3]float64, level float64) termbox.Attribute {
	var rgb [3]int
	for i := range c {
		v := math.Max(0, math.Min(1, c[i]*(0.5+level/2)))
		rgb[i] = int(math.Round(v * 5))
	}

	return termbox.Attribute(16+36*rgb[0]+6*rgb[1]+rgb[2]) + 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
