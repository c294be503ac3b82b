// Package wav decodes RIFF/WAVE PCM assets.
package wav

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/hum/asset"
	"github.com/pkg/errors"
)

func init() {
	asset.RegisterDecoder("wav", []string{"wav", "wave"}, Decoder{})
}

var ErrNotWavFile = errors.New("not a wav file")

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*asset.Clip, error) {
	rs, err := asset.Seeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read wav data")
	}

	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(dec.BitDepth)
	}

	samples, err := toSamples(buf)
	if err != nil {
		return nil, err
	}

	return &asset.Clip{
		SampleRate: buf.Format.SampleRate,
		Frames:     asset.Interleaved(samples, buf.Format.NumChannels),
	}, nil
}

// toSamples scales integer PCM into [-1, 1).
func toSamples(buf *audio.IntBuffer) ([]float64, error) {
	depth := buf.SourceBitDepth
	if depth < 8 || depth > 32 {
		return nil, errors.Errorf("unsupported bit depth %d", depth)
	}

	scale := float64(int64(1) << uint(depth-1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		// 8-bit wav is unsigned
		if depth == 8 {
			v -= 128
		}
		samples[i] = float64(v) / scale
	}

	return samples, nil
}
