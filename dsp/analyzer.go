// Package dsp provides audio analysis
//
// The analyzer mirrors the frequency snapshot browsers hand out from an
// analyser node, so a level computed here matches one computed on the page.
//
// https://webaudio.github.io/web-audio-api/#AnalyserNode
// https://github.com/hvianna/audioMotion-analyzer/blob/master/src/audioMotion-analyzer.js#L1053
package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/noriah/hum/dsp/window"
	"github.com/noriah/hum/fft"
	"github.com/pkg/errors"
)

const (
	MinFFTSize = 32
	MaxFFTSize = 32768
)

// SampleSource hands out the most recent mono samples.
type SampleSource interface {
	// Samples fills dst with the newest len(dst) samples, oldest first, and
	// returns how many were available. Missing samples are zeroed at the
	// front of dst.
	Samples(dst []float64) int
}

type AnalyzerConfig struct {
	FFTSize               int             // samples per transform, power of two
	SmoothingTimeConstant float64         // weight of the previous frame [0, 1]
	MinDecibels           float64         // maps to byte 0
	MaxDecibels           float64         // maps to byte 255
	Windower              window.Function // window applied before the transform
}

// DefaultAnalyzerConfig is the configuration the landing page used.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		FFTSize:               256,
		SmoothingTimeConstant: 0.8,
		MinDecibels:           -100,
		MaxDecibels:           -30,
		Windower:              window.Blackman,
	}
}

func (cfg AnalyzerConfig) Validate() error {
	switch {
	case cfg.FFTSize < MinFFTSize || cfg.FFTSize > MaxFFTSize:
		return fmt.Errorf("fft size out of range [%d, %d]", MinFFTSize, MaxFFTSize)

	case cfg.FFTSize&(cfg.FFTSize-1) != 0:
		return errors.New("fft size must be a power of two")

	case cfg.SmoothingTimeConstant < 0 || cfg.SmoothingTimeConstant > 1:
		return errors.New("smoothing time constant out of range [0, 1]")

	case cfg.MinDecibels >= cfg.MaxDecibels:
		return errors.New("min decibels must be lower than max decibels")
	}

	return nil
}

// Analyzer produces frequency snapshots of a sample source.
type Analyzer struct {
	cfg AnalyzerConfig
	src SampleSource

	mu sync.Mutex

	input  []float64
	output []complex128
	plan   *fft.Plan
	smth   Smoother
	mags   []float64
}

func NewAnalyzer(cfg AnalyzerConfig, src SampleSource) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid analyzer config")
	}

	if cfg.Windower == nil {
		cfg.Windower = window.Rectangle
	}

	bins := cfg.FFTSize / 2

	an := &Analyzer{
		cfg:    cfg,
		src:    src,
		input:  make([]float64, cfg.FFTSize),
		output: make([]complex128, bins+1),
		mags:   make([]float64, bins),
		smth: NewSmoother(SmootherConfig{
			SampleSize:      bins,
			ChannelCount:    1,
			SmoothingFactor: cfg.SmoothingTimeConstant,
		}),
	}

	fft.InitPlan(&an.plan, an.input, an.output)

	return an, nil
}

// BinCount is the number of values in a snapshot.
func (an *Analyzer) BinCount() int {
	return an.cfg.FFTSize / 2
}

// analyze runs one transform and leaves smoothed magnitudes in an.mags.
func (an *Analyzer) analyze() {
	an.src.Samples(an.input)
	an.cfg.Windower(an.input)
	an.plan.Execute()

	scale := 1.0 / float64(an.cfg.FFTSize)

	for idx := range an.mags {
		an.mags[idx] = an.smth.SmoothBin(0, idx, cmplx.Abs(an.output[idx])*scale)
	}
}

// FloatFrequencyData writes the current snapshot in decibels.
func (an *Analyzer) FloatFrequencyData(dst []float64) {
	an.mu.Lock()
	defer an.mu.Unlock()

	an.analyze()

	for idx := range dst {
		if idx >= len(an.mags) {
			break
		}
		dst[idx] = toDecibels(an.mags[idx])
	}
}

// ByteFrequencyData writes the current snapshot scaled to bytes, where
// MinDecibels maps to 0 and MaxDecibels to 255.
func (an *Analyzer) ByteFrequencyData(dst []byte) {
	an.mu.Lock()
	defer an.mu.Unlock()

	an.analyze()

	rangeScale := 255.0 / (an.cfg.MaxDecibels - an.cfg.MinDecibels)

	for idx := range dst {
		if idx >= len(an.mags) {
			break
		}

		v := (toDecibels(an.mags[idx]) - an.cfg.MinDecibels) * rangeScale

		switch {
		case math.IsNaN(v) || v <= 0:
			dst[idx] = 0
		case v >= 255:
			dst[idx] = 255
		default:
			dst[idx] = byte(v)
		}
	}
}

// Reset forgets the smoothing history.
func (an *Analyzer) Reset() {
	an.mu.Lock()
	an.smth.Reset()
	an.mu.Unlock()
}

func toDecibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
