package playback

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap is a streamer wrapper that copies a mono mix of everything passing
// through it into a ring buffer, so the analyzer sees what the speaker plays.
type Tap struct {
	s beep.Streamer

	mu     sync.Mutex
	buf    []float64
	pos    int
	filled int
}

// NewTap wraps a streamer with a ring buffer of the given size.
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{
		s:   s,
		buf: make([]float64, size),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)

	t.mu.Lock()
	for _, frame := range samples[:n] {
		t.buf[t.pos] = (frame[0] + frame[1]) / 2
		t.pos = (t.pos + 1) % len(t.buf)
	}

	t.filled += n
	if t.filled > len(t.buf) {
		t.filled = len(t.buf)
	}
	t.mu.Unlock()

	return n, ok
}

func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples fills dst with the newest samples, oldest first. When fewer than
// len(dst) samples have been played the front of dst is zeroed.
func (t *Tap) Samples(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(dst)
	if n > t.filled {
		n = t.filled
	}

	pad := len(dst) - n
	for i := range dst[:pad] {
		dst[i] = 0
	}

	start := (t.pos - n + len(t.buf)) % len(t.buf)
	for i := 0; i < n; i++ {
		dst[pad+i] = t.buf[(start+i)%len(t.buf)]
	}

	return n
}

// Reset forgets everything played so far.
func (t *Tap) Reset() {
	t.mu.Lock()
	t.pos = 0
	t.filled = 0
	t.mu.Unlock()
}
