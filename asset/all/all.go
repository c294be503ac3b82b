// Package all imports all decoders implemented by the asset package.
package all

import (
	_ "github.com/noriah/hum/asset/mp3"
	_ "github.com/noriah/hum/asset/vorbis"
	_ "github.com/noriah/hum/asset/wav"
)
