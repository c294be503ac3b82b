// Package vorbis decodes Ogg Vorbis assets.
package vorbis

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/noriah/hum/asset"
	"github.com/pkg/errors"
)

func init() {
	asset.RegisterDecoder("vorbis", []string{"ogg", "oga"}, Decoder{})
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*asset.Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vorbis stream")
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	return &asset.Clip{
		SampleRate: format.SampleRate,
		Frames:     asset.Interleaved(samples, format.Channels),
	}, nil
}
