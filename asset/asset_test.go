package asset

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDecoder struct{}

func (stubDecoder) Decode(io.Reader) (*Clip, error) {
	return &Clip{SampleRate: 10, Frames: make([][2]float64, 5)}, nil
}

func TestRegistry(t *testing.T) {
	saved := Decoders
	defer func() { Decoders = saved }()

	Decoders = nil
	RegisterDecoder("stub", []string{"stub", "stb"}, stubDecoder{})

	assert.NotNil(t, FindDecoder("stub"))
	assert.Nil(t, FindDecoder("nope"))

	dec, err := ForPath("/tmp/Demo.STB")
	require.NoError(t, err)

	clip, err := dec.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 5, clip.Len())
	assert.Equal(t, 500*time.Millisecond, clip.Duration())

	_, err = ForPath("demo.flac")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load("demo.flac")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestInterleaved(t *testing.T) {
	stereo := Interleaved([]float64{0.1, 0.2, 0.3, 0.4, 0.5}, 2)
	assert.Equal(t, [][2]float64{{0.1, 0.2}, {0.3, 0.4}}, stereo)

	mono := Interleaved([]float64{0.1, -0.1}, 1)
	assert.Equal(t, [][2]float64{{0.1, 0.1}, {-0.1, -0.1}}, mono)

	surround := Interleaved([]float64{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, [][2]float64{{1, 2}, {4, 5}}, surround)

	assert.Nil(t, Interleaved([]float64{1}, 0))
}

func TestSeeker(t *testing.T) {
	rs, err := Seeker(io.LimitReader(strings.NewReader("hello"), 5))
	require.NoError(t, err)

	data, err := io.ReadAll(rs)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestClipZeroRate(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Clip{}).Duration())
}
