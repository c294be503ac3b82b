package main

import (
	"os"

	"github.com/noriah/hum/dsp"
	"github.com/noriah/hum/dsp/window"
	"github.com/noriah/hum/graphic/glwindow"
	"github.com/noriah/hum/processor"
	"github.com/noriah/hum/web"
	"github.com/pkg/errors"
)

// Output names for the play command.
const (
	OutputTerm = "term"
	OutputGL   = "gl"
	OutputRaw  = "raw"
)

// config holds every flag of every subcommand
type config struct {
	// asset is the demo clip, played by play and served by serve
	asset string
	// output is where play sends the loudness, one of term, gl or raw
	output string
	// frameRate is the number of frames per second for term and raw. The gl
	// window runs at the display refresh rate
	frameRate int
	// fftSize is the analyser transform size
	fftSize int
	// smoothing is the analyser smoothing time constant
	smoothing float64
	// windowName is the window function applied before the transform
	windowName string
	// width and height of the gl window
	width  int
	height int
	// noBloom skips the gl bloom pass
	noBloom bool
	// noAutoplay waits for space before the clip starts
	noAutoplay bool
	// stats adds time, mean and deviation to raw output
	stats bool

	// listen is the address serve binds
	listen string
	// mailConfig is an optional yaml file with mail settings
	mailConfig string

	// verbose turns on debug logs
	verbose bool
	// logFile receives the logs instead of stderr
	logFile string
}

func newZeroConfig() config {
	anlz := dsp.DefaultAnalyzerConfig()

	return config{
		output:     OutputTerm,
		frameRate:  processor.DefaultFrameRate,
		fftSize:    anlz.FFTSize,
		smoothing:  anlz.SmoothingTimeConstant,
		windowName: "blackman",
		width:      glwindow.DefaultWidth,
		height:     glwindow.DefaultHeight,
		listen:     web.DefaultAddr,
	}
}

// validatePlay checks the flags of the play command.
func (cfg *config) validatePlay() error {
	if cfg.asset == "" {
		return errors.New("no asset given")
	}

	switch cfg.output {
	case OutputTerm, OutputGL, OutputRaw:
	default:
		return errors.Errorf("unknown output %q (term, gl, raw)", cfg.output)
	}

	if cfg.output != OutputGL && cfg.frameRate <= 0 {
		return errors.New("frame rate must be above zero")
	}

	if cfg.output == OutputGL && (cfg.width <= 0 || cfg.height <= 0) {
		return errors.New("window size must be above zero")
	}

	if _, ok := window.Lookup(cfg.windowName); !ok {
		return errors.Errorf("unknown window function %q", cfg.windowName)
	}

	return cfg.analyzerConfig().Validate()
}

// validateServe checks the flags of the serve command.
func (cfg *config) validateServe() error {
	if cfg.listen == "" {
		return errors.New("no listen address")
	}

	if cfg.asset != "" {
		if _, err := os.Stat(cfg.asset); err != nil {
			return errors.Wrap(err, "demo asset")
		}
	}

	return nil
}

func (cfg *config) analyzerConfig() dsp.AnalyzerConfig {
	anlz := dsp.DefaultAnalyzerConfig()
	anlz.FFTSize = cfg.fftSize
	anlz.SmoothingTimeConstant = cfg.smoothing

	if fn, ok := window.Lookup(cfg.windowName); ok {
		anlz.Windower = fn
	}

	return anlz
}
