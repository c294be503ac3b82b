package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPrintsLoudness(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	w.SetIntensity(0.1)
	w.Tick(16 * time.Millisecond)
	w.SetIntensity(0.5)
	w.Tick(16 * time.Millisecond)

	assert.Equal(t, " 0.100\n 0.500\n", buf.String())
}

func TestWriterStats(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	for i := 0; i < 4; i++ {
		w.SetIntensity(0.5)
		w.Tick(250 * time.Millisecond)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	fields := strings.Fields(lines[3])
	require.Len(t, fields, 4)
	assert.Equal(t, "1.000", fields[0])
	assert.Equal(t, "0.500", fields[1])
	assert.Equal(t, "0.500", fields[2])
	assert.Equal(t, "0.000", fields[3])
}

func TestValidatePlay(t *testing.T) {
	cfg := newZeroConfig()
	assert.Error(t, cfg.validatePlay(), "no asset")

	cfg.asset = "demo.mp3"
	assert.NoError(t, cfg.validatePlay())

	cfg.output = "svg"
	assert.Error(t, cfg.validatePlay())

	cfg = newZeroConfig()
	cfg.asset = "demo.mp3"
	cfg.fftSize = 100
	assert.Error(t, cfg.validatePlay())

	cfg = newZeroConfig()
	cfg.asset = "demo.mp3"
	cfg.windowName = "kaiser"
	assert.Error(t, cfg.validatePlay())

	cfg = newZeroConfig()
	cfg.asset = "demo.mp3"
	cfg.output = OutputGL
	cfg.frameRate = 0
	assert.NoError(t, cfg.validatePlay(), "gl follows the display")
}

func TestValidateServe(t *testing.T) {
	cfg := newZeroConfig()
	assert.NoError(t, cfg.validateServe())

	cfg.asset = "does/not/exist.mp3"
	assert.Error(t, cfg.validateServe())

	cfg.asset = ""
	cfg.listen = ""
	assert.Error(t, cfg.validateServe())
}
