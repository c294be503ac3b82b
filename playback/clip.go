package playback

import (
	"github.com/noriah/hum/asset"
	"github.com/pkg/errors"
)

// clipStreamer streams a decoded clip from memory.
type clipStreamer struct {
	clip *asset.Clip
	pos  int
}

func (cs *clipStreamer) Stream(samples [][2]float64) (int, bool) {
	if cs.pos >= len(cs.clip.Frames) {
		return 0, false
	}

	n := copy(samples, cs.clip.Frames[cs.pos:])
	cs.pos += n

	return n, true
}

func (cs *clipStreamer) Err() error {
	return nil
}

func (cs *clipStreamer) Len() int {
	return len(cs.clip.Frames)
}

func (cs *clipStreamer) Position() int {
	return cs.pos
}

func (cs *clipStreamer) Seek(p int) error {
	if p < 0 || p > len(cs.clip.Frames) {
		return errors.Errorf("seek position %d out of range [0, %d]", p, len(cs.clip.Frames))
	}
	cs.pos = p
	return nil
}
