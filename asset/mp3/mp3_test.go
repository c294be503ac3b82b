package mp3

import (
	"bytes"
	"testing"

	"github.com/noriah/hum/asset"
	"github.com/stretchr/testify/assert"
)

func TestRegistered(t *testing.T) {
	dec, err := asset.ForPath("renate-demo.mp3")
	assert.NoError(t, err)
	assert.NotNil(t, dec)
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decoder{}.Decode(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestAppendFrames(t *testing.T) {
	pcm := []byte{
		0x00, 0x40, 0x00, 0xc0, // 16384, -16384
		0xff, 0x7f, 0x00, 0x00, // 32767, 0
		0x01, // partial frame is ignored
	}

	frames := appendFrames(nil, pcm)

	assert.Len(t, frames, 2)
	assert.InDelta(t, 0.5, frames[0][0], 1e-9)
	assert.InDelta(t, -0.5, frames[0][1], 1e-9)
	assert.InDelta(t, 32767.0/32768.0, frames[1][0], 1e-9)
}
