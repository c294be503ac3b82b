package playback

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Sink is where the player sends audio. The speaker package is the only real
// implementation; it mixes on its own goroutine, guarded by Lock and Unlock.
type Sink interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerSink struct{}

// Speaker is the system audio output.
func Speaker() Sink {
	return speakerSink{}
}

func (speakerSink) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerSink) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

func (speakerSink) Clear() {
	speaker.Clear()
}

func (speakerSink) Lock() {
	speaker.Lock()
}

func (speakerSink) Unlock() {
	speaker.Unlock()
}
