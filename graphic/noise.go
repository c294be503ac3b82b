package graphic

import "math"

// NoisePeriod is the repeat length of the displacement noise on every axis.
const NoisePeriod = 10

// vec4 is four lanes of the noise computation.
type vec4 [4]float64

func (v vec4) add(s float64) vec4 {
	return vec4{v[0] + s, v[1] + s, v[2] + s, v[3] + s}
}

func (v vec4) addv(o vec4) vec4 {
	return vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v vec4) apply(fn func(float64) float64) vec4 {
	return vec4{fn(v[0]), fn(v[1]), fn(v[2]), fn(v[3])}
}

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34.0 + 10.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

// glslMod is mod as the shading language defines it, so negative inputs
// wrap into [0, y).
func glslMod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// gradients turns four hashed lattice corners into normalized gradients.
func gradients(ixy vec4) (gx, gy, gz vec4) {
	for i, h := range ixy {
		x := h * (1.0 / 7.0)
		y := fract(math.Floor(x)*(1.0/7.0)) - 0.5
		x = fract(x)
		z := 0.5 - math.Abs(x) - math.Abs(y)

		sz := step(z, 0)
		x -= sz * (step(0, x) - 0.5)
		y -= sz * (step(0, y) - 0.5)

		norm := taylorInvSqrt(x*x + y*y + z*z)

		gx[i], gy[i], gz[i] = x*norm, y*norm, z*norm
	}

	return
}

// PNoise is classic Perlin noise that repeats every rep units on each axis.
// It matches the vertex shader of the OpenGL renderer, so the terminal and
// the window show the same surface.
//
// Based on the GLSL implementation by Stefan Gustavson.
// https://github.com/stegu/webgl-noise
func PNoise(x, y, z float64, rep [3]float64) float64 {
	p := [3]float64{x, y, z}

	var pi0, pi1, pf0, pf1 [3]float64
	for i := range p {
		pi0[i] = glslMod(math.Floor(p[i]), rep[i])
		pi1[i] = mod289(glslMod(pi0[i]+1, rep[i]))
		pi0[i] = mod289(pi0[i])
		pf0[i] = fract(p[i])
		pf1[i] = pf0[i] - 1
	}

	ix := vec4{pi0[0], pi1[0], pi0[0], pi1[0]}
	iy := vec4{pi0[1], pi0[1], pi1[1], pi1[1]}

	ixy := ix.apply(permute).addv(iy).apply(permute)
	ixy0 := ixy.add(pi0[2]).apply(permute)
	ixy1 := ixy.add(pi1[2]).apply(permute)

	gx0, gy0, gz0 := gradients(ixy0)
	gx1, gy1, gz1 := gradients(ixy1)

	dot := func(gx, gy, gz, px, py, pz float64) float64 {
		return gx*px + gy*py + gz*pz
	}

	// lanes are ordered 000, 100, 010, 110 on each z layer
	n000 := dot(gx0[0], gy0[0], gz0[0], pf0[0], pf0[1], pf0[2])
	n100 := dot(gx0[1], gy0[1], gz0[1], pf1[0], pf0[1], pf0[2])
	n010 := dot(gx0[2], gy0[2], gz0[2], pf0[0], pf1[1], pf0[2])
	n110 := dot(gx0[3], gy0[3], gz0[3], pf1[0], pf1[1], pf0[2])
	n001 := dot(gx1[0], gy1[0], gz1[0], pf0[0], pf0[1], pf1[2])
	n101 := dot(gx1[1], gy1[1], gz1[1], pf1[0], pf0[1], pf1[2])
	n011 := dot(gx1[2], gy1[2], gz1[2], pf0[0], pf1[1], pf1[2])
	n111 := dot(gx1[3], gy1[3], gz1[3], pf1[0], pf1[1], pf1[2])

	fx, fy, fz := fade(pf0[0]), fade(pf0[1]), fade(pf0[2])

	nz := vec4{
		mix(n000, n001, fz),
		mix(n100, n101, fz),
		mix(n010, n011, fz),
		mix(n110, n111, fz),
	}

	nyz0 := mix(nz[0], nz[2], fy)
	nyz1 := mix(nz[1], nz[3], fy)

	return 2.2 * mix(nyz0, nyz1, fx)
}

// Displacement is how far a vertex moves along its normal for a loudness
// and a time in seconds.
func Displacement(x, y, z, loudness, t float64) float64 {
	rep := [3]float64{NoisePeriod, NoisePeriod, NoisePeriod}
	return loudness * 3.0 * PNoise(x+t, y+t, z+t, rep)
}
