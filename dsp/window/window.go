// Package window provides Window Functions for singnal analysis
//
// See https://wikipedia.org/wiki/Window_function
package window

import "math"

// Function is a function that will do window things for you
type Function func(buf []float64)

// Rectangle is just do nothing
func Rectangle(buf []float64) {}

// CosSum modifies the buffer to conform to a cosine sum window following a0
func CosSum(buf []float64, a0 float64) {
	size := len(buf)
	a1 := 1.0 - a0
	coef := 2.0 * math.Pi / float64(size)
	for n := 0; n < size; n++ {
		buf[n] *= (a0 - a1*math.Cos(coef*float64(n)))
	}
}

// Hamming modifies the buffer to a Hamming window
func Hamming(buf []float64) {
	CosSum(buf, 25.0/46.0)
}

// Hann modifies the buffer to a Hann window
func Hann(buf []float64) {
	CosSum(buf, 0.5)
}

// BlackmanAlpha is the alpha used by browser analyser nodes.
const BlackmanAlpha = 0.16

// Blackman modifies the buffer to a Blackman window with alpha 0.16.
func Blackman(buf []float64) {
	BlackmanA(buf, BlackmanAlpha)
}

// BlackmanA modifies the buffer to a Blackman window with the given alpha.
func BlackmanA(buf []float64, alpha float64) {
	a0 := 0.5 * (1.0 - alpha)
	a1 := 0.5
	a2 := 0.5 * alpha

	size := len(buf)
	coef := 2.0 * math.Pi / float64(size)
	for n := 0; n < size; n++ {
		x := coef * float64(n)
		buf[n] *= a0 - a1*math.Cos(x) + a2*math.Cos(2.0*x)
	}
}

// Bartlett modifies the buffer to a Bartlett window
func Bartlett(buf []float64) {
	size := len(buf)
	fSize := float64(size)
	for n := 0; n < size; n++ {
		buf[n] *= (1.0 - math.Abs((2.0*float64(n)-fSize)/fSize))
	}
}

// Lookup returns the window function with the given name.
func Lookup(name string) (Function, bool) {
	switch name {
	case "rectangle", "none":
		return Rectangle, true
	case "hamming":
		return Hamming, true
	case "hann":
		return Hann, true
	case "blackman", "":
		return Blackman, true
	case "bartlett":
		return Bartlett, true
	}

	return nil, false
}
