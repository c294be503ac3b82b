// Package asset decodes the pre-recorded demo audio into memory.
package asset

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Clip is a fully decoded stereo recording.
type Clip struct {
	SampleRate int
	Frames     [][2]float64
}

// Len is the number of frames in the clip.
func (c *Clip) Len() int {
	return len(c.Frames)
}

// Duration is the play time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Frames)) * time.Second / time.Duration(c.SampleRate)
}

// Decoder turns an encoded stream into a clip.
type Decoder interface {
	Decode(io.Reader) (*Clip, error)
}

type NamedDecoder struct {
	Name string
	Exts []string
	Decoder
}

var Decoders []NamedDecoder

// ErrUnknownFormat is returned when no decoder claims a file.
var ErrUnknownFormat = errors.New("unknown audio format")

// RegisterDecoder registers a decoder globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterDecoder(name string, exts []string, d Decoder) {
	Decoders = append(Decoders, NamedDecoder{
		Name:    name,
		Exts:    exts,
		Decoder: d,
	})
}

// FindDecoder is a helper function that finds a decoder by name. It returns
// nil if the decoder is not found.
func FindDecoder(name string) Decoder {
	for _, d := range Decoders {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// ForPath picks a decoder by file extension.
func ForPath(path string) (Decoder, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	for _, d := range Decoders {
		for _, e := range d.Exts {
			if e == ext {
				return d, nil
			}
		}
	}

	return nil, errors.Wrapf(ErrUnknownFormat, "%q; check list-formats", path)
}

// Load decodes the file at path.
func Load(path string) (*Clip, error) {
	dec, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open asset")
	}
	defer f.Close()

	clip, err := dec.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %q", path)
	}

	if clip.SampleRate <= 0 {
		return nil, errors.Errorf("%q has no sample rate", path)
	}

	return clip, nil
}

// Seeker returns r as an io.ReadSeeker, buffering it if it can not seek.
func Seeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to buffer stream")
	}

	return bytes.NewReader(data), nil
}

// Interleaved builds frames from interleaved samples. Mono is copied to both
// channels and anything past the second channel is dropped.
func Interleaved(samples []float64, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}

	frames := make([][2]float64, len(samples)/channels)

	for i := range frames {
		l := samples[i*channels]
		r := l
		if channels > 1 {
			r = samples[i*channels+1]
		}
		frames[i] = [2]float64{l, r}
	}

	return frames
}
