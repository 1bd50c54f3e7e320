package sndfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	riffMagic = "RIFF"
	waveMagic = "WAVE"
	fmtChunk  = "fmt "
	dataChunk = "data"

	wavFormatPCM   = 1
	wavFormatFloat = 3

	wavHeaderSize = 44 // RIFF header + 16-byte fmt chunk + data chunk header
)

// wavFmt is the fixed 16-byte layout of the fmt chunk.
type wavFmt struct {
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// File reads frames from an open sound file.
type File struct {
	f         *os.File
	info      Info
	bytesPer  int
	decode    func([]byte) float32
	dataStart int64
	pos       int
}

func openWAV(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sndfile: %w", err)
	}
	file, err := parseWAV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

func parseWAV(f *os.File) (*File, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("sndfile: reading container header: %w", ErrUnsupportedFormat)
	}
	if string(hdr[0:4]) != riffMagic || string(hdr[8:12]) != waveMagic {
		return nil, fmt.Errorf("sndfile: not a RIFF/WAVE file: %w", ErrUnsupportedFormat)
	}

	var (
		fc                wavFmt
		haveFmt, haveData bool
		dataStart         int64
		dataLen           int64
	)
	for !haveFmt || !haveData {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			return nil, fmt.Errorf("sndfile: scanning chunks: %w", ErrTruncated)
		}
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("sndfile: %w", err)
		}

		switch string(chunk[0:4]) {
		case fmtChunk:
			if err := binary.Read(f, binary.LittleEndian, &fc); err != nil {
				return nil, fmt.Errorf("sndfile: reading fmt chunk: %w", ErrTruncated)
			}
			haveFmt = true
		case dataChunk:
			dataStart = pos
			dataLen = size
			haveData = true
		}

		// Chunks are word-aligned; skip the pad byte on odd sizes.
		if _, err := f.Seek(pos+size+(size&1), io.SeekStart); err != nil {
			return nil, fmt.Errorf("sndfile: %w", err)
		}
	}

	bytesPer, decode, err := wavDecoder(int(fc.Format), int(fc.BitsPerSample))
	if err != nil {
		return nil, err
	}
	channels := int(fc.Channels)
	if channels <= 0 {
		return nil, fmt.Errorf("sndfile: wav with %d channels: %w", channels, ErrUnsupportedFormat)
	}

	return &File{
		f:        f,
		bytesPer: bytesPer,
		decode:   decode,
		info: Info{
			Frames:     int(dataLen) / (bytesPer * channels),
			Channels:   channels,
			SampleRate: int(fc.SampleRate),
		},
		dataStart: dataStart,
	}, nil
}

func wavDecoder(format, bits int) (int, func([]byte) float32, error) {
	switch {
	case format == wavFormatPCM && bits == 16:
		return 2, decodeInt16, nil
	case format == wavFormatPCM && bits == 24:
		return 3, decodeInt24, nil
	case format == wavFormatFloat && bits == 32:
		return 4, decodeFloat32, nil
	}
	return 0, nil, fmt.Errorf("sndfile: wav encoding %d (%d bit): %w", format, bits, ErrUnsupportedFormat)
}

// Info returns the decoded shape of the file.
func (fl *File) Info() Info { return fl.info }

// Seek positions the reader at the given frame. Positions in
// [0, Info().Frames] are valid; Frames itself addresses end of data.
func (fl *File) Seek(frame int) error {
	if frame < 0 || frame > fl.info.Frames {
		return fmt.Errorf("sndfile: frame %d of %d: %w", frame, fl.info.Frames, ErrSeekOutOfRange)
	}
	fl.pos = frame
	return nil
}

// ReadFrames decodes up to frames interleaved frames into dst and advances
// the position. dst must hold frames*Info().Channels samples. It returns
// the number of frames decoded, which is smaller than frames only at end
// of data. A file shorter than its header claims reports ErrTruncated.
func (fl *File) ReadFrames(dst []float32, frames int) (int, error) {
	raw, frames, err := fl.readRaw(frames)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := frames * fl.info.Channels
	for i := 0; i < n; i++ {
		dst[i] = fl.decode(raw[i*fl.bytesPer:])
	}
	fl.pos += frames
	return frames, nil
}

// ReadFramesChannels is ReadFrames restricted to a subset of source
// channels. dst receives frames interleaved in the order the channels are
// given and must hold frames*len(channels) samples.
func (fl *File) ReadFramesChannels(dst []float32, frames int, channels []int) (int, error) {
	for _, c := range channels {
		if c < 0 || c >= fl.info.Channels {
			return 0, fmt.Errorf("sndfile: channel %d of %d: %w", c, fl.info.Channels, ErrChannelOutOfRange)
		}
	}
	raw, frames, err := fl.readRaw(frames)
	if err != nil || frames == 0 {
		return 0, err
	}
	out := 0
	for fr := 0; fr < frames; fr++ {
		base := fr * fl.info.Channels
		for _, c := range channels {
			dst[out] = fl.decode(raw[(base+c)*fl.bytesPer:])
			out++
		}
	}
	fl.pos += frames
	return frames, nil
}

// readRaw fetches the encoded bytes for up to frames frames at the current
// position without advancing it.
func (fl *File) readRaw(frames int) ([]byte, int, error) {
	if remaining := fl.info.Frames - fl.pos; frames > remaining {
		frames = remaining
	}
	if frames <= 0 {
		return nil, 0, nil
	}
	stride := fl.info.Channels * fl.bytesPer
	raw := make([]byte, frames*stride)
	if _, err := fl.f.ReadAt(raw, fl.dataStart+int64(fl.pos)*int64(stride)); err != nil {
		return nil, 0, fmt.Errorf("sndfile: reading %d frames: %w", frames, ErrTruncated)
	}
	return raw, frames, nil
}

// Close releases the underlying file.
func (fl *File) Close() error {
	return fl.f.Close()
}

// Writer encodes interleaved frames to a sound file.
type Writer struct {
	f        *os.File
	channels int
	bytesPer int
	encode   func([]byte, float32)
	frames   int
}

func createWAV(path, sampleFormat string, channels, sampleRate int) (*Writer, error) {
	var (
		format   uint16
		bytesPer int
		encode   func([]byte, float32)
	)
	switch sampleFormat {
	case SampleInt16:
		format, bytesPer, encode = wavFormatPCM, 2, encodeInt16
	case SampleInt24:
		format, bytesPer, encode = wavFormatPCM, 3, encodeInt24
	case SampleFloat32:
		format, bytesPer, encode = wavFormatFloat, 4, encodeFloat32
	default:
		return nil, fmt.Errorf("sndfile: sample format %q: %w", sampleFormat, ErrUnsupportedFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sndfile: %w", err)
	}

	// Chunk sizes are patched in Close once the frame count is known.
	hdr := make([]byte, 0, wavHeaderSize)
	hdr = append(hdr, riffMagic...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)
	hdr = append(hdr, waveMagic...)
	hdr = append(hdr, fmtChunk...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, format)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(channels))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(sampleRate))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(sampleRate*channels*bytesPer))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(channels*bytesPer))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(bytesPer*8))
	hdr = append(hdr, dataChunk...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)

	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("sndfile: writing wav header: %w", err)
	}
	return &Writer{f: f, channels: channels, bytesPer: bytesPer, encode: encode}, nil
}

// WriteFrames encodes interleaved samples. len(data) must be a multiple of
// the channel count.
func (w *Writer) WriteFrames(data []float32) error {
	if len(data)%w.channels != 0 {
		return fmt.Errorf("sndfile: %d samples do not form whole %d-channel frames", len(data), w.channels)
	}
	raw := make([]byte, len(data)*w.bytesPer)
	for i, v := range data {
		w.encode(raw[i*w.bytesPer:], v)
	}
	if _, err := w.f.Write(raw); err != nil {
		return fmt.Errorf("sndfile: writing frames: %w", err)
	}
	w.frames += len(data) / w.channels
	return nil
}

// Close pads the data chunk to a word boundary, patches the chunk sizes
// and closes the file. The file is not valid until Close returns.
func (w *Writer) Close() error {
	dataLen := w.frames * w.channels * w.bytesPer
	pad := dataLen & 1
	if pad == 1 {
		if _, err := w.f.Write([]byte{0}); err != nil {
			w.f.Close()
			return fmt.Errorf("sndfile: padding data chunk: %w", err)
		}
	}

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(wavHeaderSize-8+dataLen+pad))
	if _, err := w.f.WriteAt(b[:], 4); err != nil {
		w.f.Close()
		return fmt.Errorf("sndfile: patching riff size: %w", err)
	}
	binary.LittleEndian.PutUint32(b[:], uint32(dataLen))
	if _, err := w.f.WriteAt(b[:], 40); err != nil {
		w.f.Close()
		return fmt.Errorf("sndfile: patching data size: %w", err)
	}
	return w.f.Close()
}

func decodeInt16(b []byte) float32 {
	return float32(int16(binary.LittleEndian.Uint16(b))) / 32768
}

func decodeInt24(b []byte) float32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	v = (v << 8) >> 8 // sign extend
	return float32(v) / 8388608
}

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func encodeInt16(b []byte, v float32) {
	binary.LittleEndian.PutUint16(b, uint16(int16(clampUnit(v)*32767)))
}

func encodeInt24(b []byte, v float32) {
	n := int32(clampUnit(v) * 8388607)
	b[0] = byte(n)
	b[1] = byte(n >> 8)
	b[2] = byte(n >> 16)
}

func encodeFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func clampUnit(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
