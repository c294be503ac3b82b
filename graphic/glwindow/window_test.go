package glwindow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorOffset(t *testing.T) {
	x, y := cursorOffset(200, 200, 400, 400)
	assert.Zero(t, x)
	assert.Zero(t, y)

	x, y = cursorOffset(0, 400, 400, 400)
	assert.Equal(t, -1.0, x)
	assert.Equal(t, 1.0, y)

	// 100 pixels off center moves the camera by half a unit on a 400 pixel
	// window
	x, _ = cursorOffset(300, 0, 400, 400)
	assert.Equal(t, 0.5, x)

	x, y = cursorOffset(10, 10, 0, 0)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestBlurWeights(t *testing.T) {
	w := BlurWeights(BloomRadius)

	sum := float64(w[0])
	for i := 1; i < BlurTaps; i++ {
		sum += 2 * float64(w[i])
		assert.Less(t, w[i], w[i-1])
	}

	assert.InDelta(t, 1, sum, 1e-5)

	narrow := BlurWeights(0)
	wide := BlurWeights(1)
	assert.Greater(t, narrow[0], wide[0])

	assert.Equal(t, BlurWeights(1), BlurWeights(7))
}

func TestShaderSources(t *testing.T) {
	for _, src := range []string{
		meshVertexShader,
		meshFragmentShader,
		quadVertexShader,
		highPassFragmentShader,
		blurFragmentShader,
		compositeFragmentShader,
	} {
		assert.True(t, strings.HasPrefix(src, "#version 410 core"))
		assert.True(t, strings.HasSuffix(src, "\x00"))
	}

	assert.Contains(t, meshVertexShader, "float pnoise(vec3 P, vec3 rep)")
	assert.Contains(t, blurFragmentShader, "uWeights[9]")
}
