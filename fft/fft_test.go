package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanFindsTone(t *testing.T) {
	const size = 256
	const bin = 16

	input := make([]float64, size)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * bin * float64(i) / size)
	}

	output := make([]complex128, size/2+1)

	var plan *Plan
	InitPlan(&plan, input, output)
	plan.Execute()

	assert.Equal(t, size, plan.Size())

	peak := 0
	for i := range output {
		if cmplx.Abs(output[i]) > cmplx.Abs(output[peak]) {
			peak = i
		}
	}

	assert.Equal(t, bin, peak)
	assert.InDelta(t, size/2, cmplx.Abs(output[bin]), 1e-6)
}

func Benchmark(b *testing.B) {
	reals := generateReals()
	cmplx := make([]complex128, len(reals)/2+1)
	plan := NewPlan(reals, cmplx)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		plan.Execute()
	}
}

// Adapted from https://github.com/project-gemmi/benchmarking-fft/blob/master/1d-r.cpp

const numReals = 44100

func generateReals() []float64 {
	input := make([]float64, numReals)

	c := 3.1
	for i := range input {
		c += 0.3
		input[i] = 2*c - c*c
	}

	return input
}
