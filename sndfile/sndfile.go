package sndfile

import (
	"errors"
	"fmt"
)

// Header formats understood by Create. Open sniffs the container from the
// file itself.
const (
	FormatWAV = "wav"
)

// Sample formats for encoding.
const (
	SampleInt16   = "int16"
	SampleInt24   = "int24"
	SampleFloat32 = "float32"
)

// Errors reported by the codec.
var (
	ErrUnsupportedFormat = errors.New("sndfile: unsupported format")
	ErrTruncated         = errors.New("sndfile: truncated sound file")
	ErrSeekOutOfRange    = errors.New("sndfile: seek position out of range")
	ErrChannelOutOfRange = errors.New("sndfile: channel index out of range")
)

// Info describes the decoded shape of a sound file.
type Info struct {
	Frames     int // frame count of the data chunk
	Channels   int // interleaved channels per frame
	SampleRate int // frames per second
}

// Open opens a sound file for frame-addressed reading. The container is
// detected from the file contents.
func Open(path string) (*File, error) {
	return openWAV(path)
}

// ReadInfo opens path just long enough to report its Info.
func ReadInfo(path string) (Info, error) {
	f, err := Open(path)
	if err != nil {
		return Info{}, err
	}
	info := f.Info()
	return info, f.Close()
}

// Create opens a writer that encodes interleaved float32 frames to path
// under the given header and sample format.
func Create(path, header, sampleFormat string, channels, sampleRate int) (*Writer, error) {
	if header != FormatWAV {
		return nil, fmt.Errorf("sndfile: header format %q: %w", header, ErrUnsupportedFormat)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("sndfile: channel count %d: %w", channels, ErrUnsupportedFormat)
	}
	return createWAV(path, sampleFormat, channels, sampleRate)
}
