package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noriah/hum/dsp"
	"github.com/noriah/hum/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const BinSize = 128

type testSource struct {
	mu    sync.Mutex
	state playback.State
}

func (ts *testSource) State() playback.State {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.state
}

func (ts *testSource) set(s playback.State) {
	ts.mu.Lock()
	ts.state = s
	ts.mu.Unlock()
}

type testAnalyzer struct {
	value byte
	reads int
}

func (ta *testAnalyzer) BinCount() int {
	return BinSize
}

func (ta *testAnalyzer) ByteFrequencyData(dst []byte) {
	ta.reads++
	for i := range dst {
		dst[i] = ta.value
	}
}

type testOutput struct {
	mu     sync.Mutex
	values []float64
	ticks  []time.Duration
}

func (to *testOutput) SetIntensity(v float64) {
	to.mu.Lock()
	to.values = append(to.values, v)
	to.mu.Unlock()
}

func (to *testOutput) Tick(dt time.Duration) {
	to.mu.Lock()
	to.ticks = append(to.ticks, dt)
	to.mu.Unlock()
}

func (to *testOutput) published() []float64 {
	to.mu.Lock()
	defer to.mu.Unlock()
	return append([]float64(nil), to.values...)
}

// manualScheduler hands out a frame every time the test asks for one.
type manualScheduler struct {
	frames chan time.Time
}

func (ms *manualScheduler) Wait(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now, ok := <-ms.frames:
		if !ok {
			return time.Time{}, ErrClosed
		}
		return now, nil
	}
}

func newDriver(src *testSource, anlz *testAnalyzer, out *testOutput) *Driver {
	return New(Config{
		Source:   src,
		Analyzer: anlz,
		Output:   out,
	})
}

func TestFrameLoudAudio(t *testing.T) {
	src := &testSource{state: playback.Playing}
	anlz := &testAnalyzer{value: 255}
	out := &testOutput{}

	d := newDriver(src, anlz, out)
	d.Start(context.Background())
	defer d.Stop()

	require.True(t, d.Frame(time.Now()))

	assert.Equal(t, []float64{1.0}, out.published())
	assert.Equal(t, 1, anlz.reads)
	assert.Equal(t, 1.0, d.Loudness())
}

func TestFrameIdleSkipsAnalyzer(t *testing.T) {
	src := &testSource{state: playback.Paused}
	anlz := &testAnalyzer{value: 255}
	out := &testOutput{}

	d := New(Config{
		Source:   src,
		Analyzer: anlz,
		Output:   out,
		Filter:   &dsp.Filter{},
	})
	d.Start(context.Background())
	defer d.Stop()

	d.Frame(time.Now())

	assert.Equal(t, 0, anlz.reads)
	assert.Equal(t, []float64{dsp.Floor}, out.published())
}

func TestFramePauseDecay(t *testing.T) {
	src := &testSource{state: playback.Playing}
	anlz := &testAnalyzer{value: 204} // 0.8
	out := &testOutput{}

	d := newDriver(src, anlz, out)
	d.Start(context.Background())
	defer d.Stop()

	now := time.Now()
	d.Frame(now)

	src.set(playback.Paused)
	d.Frame(now.Add(16 * time.Millisecond))

	values := out.published()
	require.Len(t, values, 2)
	assert.InDelta(t, 0.8, values[0], 1e-12)
	assert.InDelta(t, 0.784, values[1], 1e-12)

	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond}, out.ticks)
}

func TestFrameEndedResetsToFloor(t *testing.T) {
	src := &testSource{state: playback.Playing}
	anlz := &testAnalyzer{value: 255}
	out := &testOutput{}

	d := newDriver(src, anlz, out)
	d.Start(context.Background())
	defer d.Stop()

	d.Frame(time.Now())

	src.set(playback.Stopped)
	d.Frame(time.Now())

	assert.Equal(t, []float64{1.0, dsp.Floor}, out.published())
}

func TestFrameNeverBelowFloor(t *testing.T) {
	src := &testSource{}
	anlz := &testAnalyzer{}
	out := &testOutput{}

	d := newDriver(src, anlz, out)
	d.Start(context.Background())
	defer d.Stop()

	states := []playback.State{playback.Playing, playback.Paused, playback.Stopped}
	for i := 0; i < 3000; i++ {
		src.set(states[i%len(states)])
		anlz.value = byte(i * 37)
		d.Frame(time.Now())
	}

	for _, v := range out.published() {
		require.GreaterOrEqual(t, v, dsp.Floor)
	}
}

func TestFrameBeforeStart(t *testing.T) {
	out := &testOutput{}
	d := newDriver(&testSource{}, &testAnalyzer{}, out)

	assert.False(t, d.Frame(time.Now()))
	assert.Empty(t, out.published())
}

func TestNoPublishAfterStop(t *testing.T) {
	src := &testSource{state: playback.Playing}
	out := &testOutput{}

	d := newDriver(src, &testAnalyzer{value: 128}, out)
	d.Start(context.Background())

	d.Frame(time.Now())
	before := out.published()

	d.Stop()
	assert.False(t, d.Alive())

	for i := 0; i < 100; i++ {
		assert.False(t, d.Frame(time.Now()))
	}

	assert.Equal(t, before, out.published())
}

func TestRunStopsOnStop(t *testing.T) {
	src := &testSource{state: playback.Playing}
	out := &testOutput{}
	sched := &manualScheduler{frames: make(chan time.Time)}

	d := newDriver(src, &testAnalyzer{value: 255}, out)
	ctx := d.Start(context.Background())

	done := make(chan error)
	go func() {
		done <- d.Run(ctx, sched)
	}()

	now := time.Now()
	for i := 1; i <= 5; i++ {
		sched.frames <- now.Add(time.Duration(i) * 16 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(out.published()) == 6
	}, time.Second, time.Millisecond)

	d.Stop()
	require.NoError(t, <-done)

	// the first frame runs before any refresh
	published := out.published()
	assert.Len(t, published, 6)

	for i := 0; i < 10; i++ {
		assert.False(t, d.Frame(time.Now()))
	}
	assert.Equal(t, published, out.published())

	mean, _ := d.Stats()
	assert.Greater(t, mean, time.Duration(0))
}

func TestRunStopsOnContext(t *testing.T) {
	out := &testOutput{}
	d := newDriver(&testSource{}, &testAnalyzer{}, out)

	ctx, cancel := context.WithCancel(context.Background())
	ctx = d.Start(ctx)

	ticker := NewTicker(200)
	defer ticker.Stop()

	done := make(chan error)
	go func() {
		done <- d.Run(ctx, ticker)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.False(t, d.Alive())
	assert.NotEmpty(t, out.published())
}

func TestRunStopsOnClosedDisplay(t *testing.T) {
	sched := &manualScheduler{frames: make(chan time.Time)}
	close(sched.frames)

	d := newDriver(&testSource{}, &testAnalyzer{}, &testOutput{})
	ctx := d.Start(context.Background())

	assert.NoError(t, d.Run(ctx, sched))
	assert.False(t, d.Alive())
}

func BenchmarkFrame(b *testing.B) {
	d := newDriver(&testSource{state: playback.Playing}, &testAnalyzer{value: 100}, &testOutput{})
	d.Start(context.Background())
	defer d.Stop()

	now := time.Now()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Frame(now)
	}
}
