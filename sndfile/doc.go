// Package sndfile decodes and encodes multichannel sound files as float32
// sample data.
//
// The package exposes frame-addressed access: readers seek to an arbitrary
// frame and decode a frame range, optionally restricted to a subset of
// channels; writers encode interleaved frames under a chosen header format
// and sample format. WAV containers with 16-bit and 24-bit PCM or 32-bit
// IEEE float samples are supported.
//
// Failure classes are distinguishable so callers can report them
// separately: a missing file wraps fs.ErrNotExist, an unknown container or
// sample encoding reports ErrUnsupportedFormat, and a file shorter than its
// header claims reports ErrTruncated.
package sndfile
