package dsp

import "math"

type SmootherConfig struct {
	SampleSize      int     // number of bins per channel
	ChannelCount    int     // number of channels
	SmoothingFactor float64 // weight given to the previous value, [0, 1)
}

type Smoother interface {
	SmoothBuffers([][]float64)
	SmoothBin(int, int, float64) float64
	Reset()
}

type smoother struct {
	values       [][]float64 // old values used for smoothing
	smoothFactor float64     // smothing factor
}

func NewSmoother(cfg SmootherConfig) Smoother {
	sm := &smoother{
		values:       make([][]float64, cfg.ChannelCount),
		smoothFactor: math.Max(0, math.Min(cfg.SmoothingFactor, 1)),
	}

	for idx := range sm.values {
		sm.values[idx] = make([]float64, cfg.SampleSize)
	}

	return sm
}

func (sm *smoother) SmoothBuffers(bufs [][]float64) {
	for ch, buf := range bufs {
		for idx, v := range buf {
			buf[idx] = sm.SmoothBin(ch, idx, v)
		}
	}
}

// SmoothBin blends value with the last value seen for the bin.
func (sm *smoother) SmoothBin(ch, idx int, value float64) float64 {
	existing := sm.values[ch][idx]

	value *= 1.0 - sm.smoothFactor
	value += existing * sm.smoothFactor

	// one bad frame must not poison the bin forever
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0.0
	}

	sm.values[ch][idx] = value

	return value
}

func (sm *smoother) Reset() {
	for _, vals := range sm.values {
		for idx := range vals {
			vals[idx] = 0
		}
	}
}
