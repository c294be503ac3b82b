// Package playback plays the demo clip and reports its transport state.
package playback

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/noriah/hum/asset"
	"github.com/pkg/errors"
)

const (
	// DefaultLatency is the speaker buffer length.
	DefaultLatency = 100 * time.Millisecond
	// DefaultTapSize is the number of played samples kept for analysis.
	DefaultTapSize = 8192
	// resampleQuality is passed to beep.Resample.
	resampleQuality = 4
	// eventBuffer is how many events may queue before new ones are dropped.
	eventBuffer = 16
)

// ErrNoClip is returned by Play when the player has nothing to play.
var ErrNoClip = errors.New("no clip loaded")

type Config struct {
	Clip       *asset.Clip   // what to play
	Sink       Sink          // where to play it, the speaker if nil
	SampleRate int           // output rate, the clip rate if 0
	Latency    time.Duration // output buffer length
	TapSize    int           // samples kept for analysis
}

// Player plays a clip through a sink. It is safe for concurrent use.
type Player struct {
	clip    *asset.Clip
	sink    Sink
	sr      beep.SampleRate
	latency time.Duration

	mu     sync.Mutex
	state  State
	inited bool
	gen    int
	ctrl   *beep.Ctrl
	tap    *Tap
	events chan Event

	// the clip streamer of the current run
	source *clipStreamer
}

func New(cfg Config) *Player {
	if cfg.Sink == nil {
		cfg.Sink = Speaker()
	}

	if cfg.Latency <= 0 {
		cfg.Latency = DefaultLatency
	}

	if cfg.TapSize <= 0 {
		cfg.TapSize = DefaultTapSize
	}

	if cfg.SampleRate <= 0 && cfg.Clip != nil {
		cfg.SampleRate = cfg.Clip.SampleRate
	}

	return &Player{
		clip:    cfg.Clip,
		sink:    cfg.Sink,
		sr:      beep.SampleRate(cfg.SampleRate),
		latency: cfg.Latency,
		tap:     NewTap(silence{}, cfg.TapSize),
		events:  make(chan Event, eventBuffer),
	}
}

// Events is the stream of transport changes. Events are dropped if nobody
// keeps up with them.
func (p *Player) Events() <-chan Event {
	return p.events
}

// State is the current transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Samples fills dst with the newest played samples. See Tap.Samples.
func (p *Player) Samples(dst []float64) int {
	p.mu.Lock()
	tap := p.tap
	p.mu.Unlock()

	return tap.Samples(dst)
}

// Play starts the clip from the beginning, or resumes it when paused.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case Playing:
		return nil

	case Paused:
		p.setPaused(false)
		return nil
	}

	if p.clip == nil || p.clip.Len() == 0 {
		return ErrNoClip
	}

	if !p.inited {
		if err := p.sink.Init(p.sr, p.sr.N(p.latency)); err != nil {
			return errors.Wrap(err, "failed to initialize audio output")
		}
		p.inited = true
	}

	p.source = &clipStreamer{clip: p.clip}

	var stream beep.Streamer = p.source
	if clipRate := beep.SampleRate(p.clip.SampleRate); clipRate != p.sr {
		stream = beep.Resample(resampleQuality, clipRate, p.sr, stream)
	}

	p.tap = NewTap(stream, len(p.tap.buf))
	p.ctrl = &beep.Ctrl{Streamer: p.tap}

	p.gen++
	gen := p.gen

	p.sink.Clear()
	p.sink.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// runs on the speaker goroutine with the speaker locked, so it must
		// not wait on p.mu
		go p.ended(gen)
	})))

	p.state = Playing
	p.emit(EventPlay)

	return nil
}

// Pause holds the clip at its current position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Playing {
		p.setPaused(true)
	}
}

// Resume continues a paused clip.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Paused {
		p.setPaused(false)
	}
}

// Toggle pauses a playing clip and resumes a paused one.
func (p *Player) Toggle() error {
	switch p.State() {
	case Playing:
		p.Pause()
		return nil
	}

	return p.Play()
}

// Stop drops the clip and rewinds. No ended event is sent.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Stopped {
		return
	}

	p.gen++
	p.sink.Clear()
	p.tap.Reset()
	p.state = Stopped
}

// Position is the play head in the clip.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source == nil || p.clip.SampleRate <= 0 {
		return 0
	}

	p.sink.Lock()
	pos := p.source.Position()
	p.sink.Unlock()

	return time.Duration(pos) * time.Second / time.Duration(p.clip.SampleRate)
}

// setPaused must be called with p.mu held.
func (p *Player) setPaused(paused bool) {
	p.sink.Lock()
	p.ctrl.Paused = paused
	p.sink.Unlock()

	if paused {
		p.state = Paused
		p.emit(EventPause)
		return
	}

	p.state = Playing
	p.emit(EventPlay)
}

func (p *Player) ended(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// a restart or stop got here first
	if gen != p.gen || p.state == Stopped {
		return
	}

	p.tap.Reset()
	p.state = Stopped
	p.emit(EventEnded)
}

// emit must be called with p.mu held.
func (p *Player) emit(kind EventKind) {
	select {
	case p.events <- Event{Kind: kind, At: time.Now()}:
	default:
	}
}

// silence is the tap source before anything was played.
type silence struct{}

func (silence) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (silence) Err() error {
	return nil
}
