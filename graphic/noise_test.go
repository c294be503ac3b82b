package graphic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rep = [3]float64{NoisePeriod, NoisePeriod, NoisePeriod}

func TestPNoiseLattice(t *testing.T) {
	for x := -3.0; x <= 3; x++ {
		for y := -3.0; y <= 3; y++ {
			assert.InDelta(t, 0, PNoise(x, y, 2, rep), 1e-12)
		}
	}
}

func TestPNoisePeriodic(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		x, y, z := rnd.Float64()*20-10, rnd.Float64()*20-10, rnd.Float64()*20-10

		want := PNoise(x, y, z, rep)

		require.InDelta(t, want, PNoise(x+NoisePeriod, y, z, rep), 1e-9)
		require.InDelta(t, want, PNoise(x, y-NoisePeriod, z, rep), 1e-9)
		require.InDelta(t, want, PNoise(x, y, z+2*NoisePeriod, rep), 1e-9)
	}
}

func TestPNoiseBounded(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))

	nonZero := 0

	for i := 0; i < 5000; i++ {
		n := PNoise(rnd.Float64()*100, rnd.Float64()*100, rnd.Float64()*100, rep)

		require.False(t, math.IsNaN(n))
		require.LessOrEqual(t, math.Abs(n), 1.5)

		if math.Abs(n) > 1e-3 {
			nonZero++
		}
	}

	assert.Greater(t, nonZero, 4000)
}

func TestPNoiseContinuous(t *testing.T) {
	prev := PNoise(0.31, 1.7, 2.2, rep)

	for x := 0.311; x < 3; x += 0.001 {
		n := PNoise(x, 1.7, 2.2, rep)
		require.InDelta(t, prev, n, 0.02)
		prev = n
	}
}

func TestDisplacementScalesWithLoudness(t *testing.T) {
	base := Displacement(1.3, 0.4, -2.1, 1, 0.5)
	require.NotZero(t, base)

	assert.Zero(t, Displacement(1.3, 0.4, -2.1, 0, 0.5))
	assert.InDelta(t, base*0.1, Displacement(1.3, 0.4, -2.1, 0.1, 0.5), 1e-12)
}

func BenchmarkPNoise(b *testing.B) {
	for i := 0; i < b.N; i++ {
		PNoise(float64(i)*0.01, 1.5, 2.5, rep)
	}
}
