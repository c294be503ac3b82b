// Package fft provides generic abstractions around fourier transformers.
package fft

import "gonum.org/v1/gonum/dsp/fourier"

// Plan holds a gonum FFT plan bound to an input and output buffer.
type Plan struct {
	input  []float64
	output []complex128
	fft    *fourier.FFT
}

// InitPlan sets pointer to a new plan for the given buffers.
// output must hold len(input)/2+1 values.
func InitPlan(pointer **Plan, input []float64, output []complex128) {
	(*pointer) = NewPlan(input, output)
}

// NewPlan returns a plan that transforms input into output.
func NewPlan(input []float64, output []complex128) *Plan {
	return &Plan{
		input:  input,
		output: output,
		fft:    fourier.NewFFT(len(input)),
	}
}

// Execute runs the plan.
func (p *Plan) Execute() {
	p.fft.Coefficients(p.output, p.input)
}

// Size is the number of real input samples the plan transforms.
func (p *Plan) Size() int {
	return len(p.input)
}
