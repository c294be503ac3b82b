package dsp

import "math"

const (
	// Floor is the lowest loudness the filter will ever report.
	Floor = 0.1
	// NoiseThreshold is the extracted level at or below which a frame counts
	// as quiet.
	NoiseThreshold = 0.01
	// Gain is applied to the extracted level of a loud frame.
	Gain = 1.0
	// QuietDecay is the per-frame decay while playing but quiet.
	QuietDecay = 0.95
	// IdleDecay is the per-frame decay while stopped or paused.
	IdleDecay = 0.98
)

// Extract reduces a byte frequency snapshot to the mean of sample/255.
// The result is in [0, 1]. An empty snapshot yields 0.
func Extract(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}

	sum := 0.0
	for _, b := range bins {
		sum += float64(b) / 255.0
	}

	return sum / float64(len(bins))
}

// Filter turns per-frame levels into a loudness that never drops below Floor
// and decays instead of snapping when the signal goes away.
//
// The zero value is ready to use and starts at Floor.
type Filter struct {
	last float64
}

// NewFilter returns a filter resting at Floor.
func NewFilter() *Filter {
	return &Filter{last: Floor}
}

// Step advances the filter by one frame and returns the new loudness.
// sample is only looked at while playing.
func (f *Filter) Step(playing bool, sample float64) float64 {
	last := f.Value()

	switch {
	case !playing:
		last *= IdleDecay

	case isFinite(sample) && sample > NoiseThreshold:
		last = sample * Gain

	default:
		last *= QuietDecay
	}

	f.last = math.Max(last, Floor)

	return f.last
}

// Value is the current loudness.
func (f *Filter) Value() float64 {
	if !isFinite(f.last) || f.last < Floor {
		return Floor
	}

	return f.last
}

// Reset puts the filter back at Floor.
func (f *Filter) Reset() {
	f.last = Floor
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
