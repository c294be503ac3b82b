// Package mp3 decodes MPEG-1/2 layer 3 assets.
package mp3

import (
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/noriah/hum/asset"
	"github.com/pkg/errors"
)

func init() {
	asset.RegisterDecoder("mp3", []string{"mp3"}, Decoder{})
}

// Decoder reads through go-mp3, which always hands out 16-bit little endian
// stereo.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*asset.Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open mp3 stream")
	}

	clip := &asset.Clip{SampleRate: dec.SampleRate()}

	if n := dec.Length(); n > 0 {
		clip.Frames = make([][2]float64, 0, n/4)
	}

	buf := make([]byte, 8192)
	for {
		n, err := io.ReadFull(dec, buf)
		clip.Frames = appendFrames(clip.Frames, buf[:n-n%4])

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}

		if err != nil {
			return nil, errors.Wrap(err, "failed to read mp3 stream")
		}
	}

	return clip, nil
}

func appendFrames(frames [][2]float64, pcm []byte) [][2]float64 {
	for i := 0; i+4 <= len(pcm); i += 4 {
		l := int16(binary.LittleEndian.Uint16(pcm[i:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i+2:]))
		frames = append(frames, [2]float64{
			float64(l) / 32768.0,
			float64(r) / 32768.0,
		})
	}
	return frames
}
