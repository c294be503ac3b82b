package vorbis

import (
	"bytes"
	"testing"

	"github.com/noriah/hum/asset"
	"github.com/stretchr/testify/assert"
)

func TestRegistered(t *testing.T) {
	for _, name := range []string{"demo.ogg", "demo.oga"} {
		dec, err := asset.ForPath(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, dec, name)
	}
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decoder{}.Decode(bytes.NewReader(nil))
	assert.Error(t, err)
}
