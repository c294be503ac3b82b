package hum

import (
	"context"
	"time"

	"github.com/noriah/hum/asset"
	"github.com/noriah/hum/dsp"
	"github.com/noriah/hum/playback"
	"github.com/noriah/hum/processor"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// SetupFunc is called with the player before anything starts.
	SetupFunc func(*playback.Player) error
	// StartFunc is called right before the first frame.
	StartFunc func(context.Context) (context.Context, error)
	// CleanupFunc is called once the loop is done.
	CleanupFunc func() error
)

type Config struct {
	// The decoded demo clip
	Clip *asset.Clip
	// Where the audio goes, the system speaker if nil
	Sink playback.Sink
	// Audio output latency
	Latency time.Duration
	// Settings for the frequency analysis
	Analyzer dsp.AnalyzerConfig
	// The number of frames per second when no Scheduler is given
	FrameRate int
	// Start the clip as soon as the loop runs
	Autoplay bool
	// Where logs go, nowhere if nil
	Logger *zap.Logger

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
	// Where to send the loudness
	Output processor.Output
	// What paces the frames, a ticker at FrameRate if nil
	Scheduler processor.Scheduler
}

func NewZeroConfig() Config {
	return Config{
		Latency:   playback.DefaultLatency,
		Analyzer:  dsp.DefaultAnalyzerConfig(),
		FrameRate: processor.DefaultFrameRate,
	}
}

func (cfg *Config) Validate() error {
	if cfg.Clip == nil || cfg.Clip.Len() == 0 {
		return errors.New("no audio to play")
	}

	if cfg.Clip.SampleRate <= 0 {
		return errors.New("clip has no sample rate")
	}

	if cfg.Output == nil {
		return errors.New("no output")
	}

	if cfg.Scheduler == nil && cfg.FrameRate <= 0 {
		return errors.New("frame rate must be above zero")
	}

	if err := cfg.Analyzer.Validate(); err != nil {
		return errors.Wrap(err, "invalid analyzer config")
	}

	return nil
}
