// Package processor runs the per-frame loop that turns what is playing into
// a loudness value for the renderer.
package processor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/hum/dsp"
	"github.com/noriah/hum/playback"
	"github.com/noriah/hum/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultStatsWindow is the number of frames frame timing is averaged over.
const DefaultStatsWindow = 120

// ErrClosed is returned by a Scheduler whose display went away.
var ErrClosed = errors.New("display closed")

// Output consumes one loudness value per frame.
type Output interface {
	SetIntensity(float64)
	Tick(time.Duration)
}

// Source reports the transport state of the audio.
type Source interface {
	State() playback.State
}

// Analyzer hands out byte frequency snapshots of the audio.
type Analyzer interface {
	BinCount() int
	ByteFrequencyData([]byte)
}

// Scheduler blocks until the next display refresh.
type Scheduler interface {
	Wait(ctx context.Context) (time.Time, error)
}

type Config struct {
	Source      Source      // transport state
	Analyzer    Analyzer    // frequency snapshots, read only while playing
	Filter      *dsp.Filter // loudness state, a fresh filter if nil
	Output      Output      // loudness consumer
	Logger      *zap.Logger // frame timing goes here at debug level
	StatsWindow int         // frames of timing history
}

// frameState is everything carried from one frame to the next.
type frameState struct {
	filter   *dsp.Filter
	playback playback.State
	last     time.Time
}

// Driver is the animation loop.
type Driver struct {
	src  Source
	anlz Analyzer
	out  Output
	log  *zap.Logger

	bins   []byte
	st     frameState
	frames *util.MovingWindow
	count  uint64

	alive atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(cfg Config) *Driver {
	if cfg.Filter == nil {
		cfg.Filter = dsp.NewFilter()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = DefaultStatsWindow
	}

	return &Driver{
		src:    cfg.Source,
		anlz:   cfg.Analyzer,
		out:    cfg.Output,
		log:    cfg.Logger,
		bins:   make([]byte, cfg.Analyzer.BinCount()),
		st:     frameState{filter: cfg.Filter},
		frames: util.NewMovingWindow(cfg.StatsWindow),
	}
}

// Start mounts the driver. The returned context is cancelled by Stop.
func (d *Driver) Start(ctx context.Context) context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, d.cancel = context.WithCancel(ctx)
	d.alive.Store(true)

	return ctx
}

// Stop tears the driver down. No frame publishes after Stop returns.
func (d *Driver) Stop() {
	d.alive.Store(false)

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
}

// Alive reports whether the driver is mounted.
func (d *Driver) Alive() bool {
	return d.alive.Load()
}

// Loudness is the value published by the last frame.
func (d *Driver) Loudness() float64 {
	return d.st.filter.Value()
}

// Stats returns the mean and standard deviation of recent frame intervals.
func (d *Driver) Stats() (time.Duration, time.Duration) {
	mean, dev := d.frames.Stats()
	return time.Duration(mean * float64(time.Second)), time.Duration(dev * float64(time.Second))
}

// Frame runs one iteration of the loop. It returns false once the driver is
// no longer mounted.
func (d *Driver) Frame(now time.Time) bool {
	if !d.alive.Load() {
		return false
	}

	state := d.src.State()

	// the clip ended, start the next run from the floor
	if state == playback.Stopped && d.st.playback != playback.Stopped {
		d.st.filter.Reset()
	}
	d.st.playback = state

	playing := state == playback.Playing

	sample := 0.0
	if playing {
		d.anlz.ByteFrequencyData(d.bins)
		sample = dsp.Extract(d.bins)
	}

	loudness := d.st.filter.Step(playing, sample)

	var dt time.Duration
	if !d.st.last.IsZero() {
		dt = now.Sub(d.st.last)
		d.frames.Update(dt.Seconds())
	}
	d.st.last = now

	if !d.alive.Load() {
		return false
	}

	d.out.SetIntensity(loudness)
	d.out.Tick(dt)

	d.count++
	if d.count%uint64(d.frames.Cap()) == 0 {
		mean, dev := d.Stats()
		d.log.Debug("frame timing",
			zap.Duration("mean", mean),
			zap.Duration("stddev", dev),
			zap.Float64("loudness", loudness),
			zap.Stringer("state", state))
	}

	return true
}

// Run calls Frame once right away and then once per display refresh until
// ctx is done, the scheduler's display closes or Stop is called. ctx should
// be the context returned by Start so Stop wakes a waiting scheduler.
func (d *Driver) Run(ctx context.Context, sched Scheduler) error {
	if !d.Frame(time.Now()) {
		return nil
	}

	for {
		now, err := sched.Wait(ctx)
		if err != nil {
			d.Stop()

			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return nil
			}

			return errors.Wrap(err, "frame scheduler failed")
		}

		if !d.Frame(now) {
			return nil
		}
	}
}
