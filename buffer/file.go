package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-sndbuf/mem"
	"github.com/cwbudde/algo-sndbuf/sndfile"
)

// ReadFile decodes a frame range of a sound file into newly allocated
// storage. frames == 0 reads from startFrame to the end of the file; a
// range reaching past the end is clamped to the available frames. The
// buffer must be unallocated. On any codec or allocation error the buffer
// stays unallocated; a partially populated buffer is never observable.
func (b *Buffer) ReadFile(path string, startFrame, frames int) error {
	return b.readFile(path, startFrame, frames, nil)
}

// ReadFileChannels is ReadFile restricted to a subset of the file's
// channels, in the order given. An empty subset reads all channels.
func (b *Buffer) ReadFileChannels(path string, startFrame, frames int, channels []int) error {
	return b.readFile(path, startFrame, frames, channels)
}

func (b *Buffer) readFile(path string, startFrame, frames int, channels []int) error {
	if b.storage != nil {
		panic("buffer: file read into an allocated buffer")
	}
	if startFrame < 0 || frames < 0 {
		return fmt.Errorf("buffer: negative frame range [%d, +%d)", startFrame, frames)
	}

	f, err := sndfile.Open(path)
	if err != nil {
		return fmt.Errorf("buffer: %w", err)
	}
	defer f.Close()

	info := f.Info()
	if err := f.Seek(min(startFrame, info.Frames)); err != nil {
		return fmt.Errorf("buffer: %w", err)
	}
	if avail := info.Frames - startFrame; frames == 0 || frames > avail {
		frames = max(avail, 0)
	}

	chans := info.Channels
	if len(channels) > 0 {
		chans = len(channels)
	}
	n, ok := sampleCount(frames, chans)
	if !ok {
		return ErrAllocFailed
	}
	storage := mem.AllocFloat32(max(n, 1))
	if storage == nil {
		return ErrAllocFailed
	}

	var read int
	if len(channels) > 0 {
		read, err = f.ReadFramesChannels(storage[:n], frames, channels)
	} else {
		read, err = f.ReadFrames(storage[:n], frames)
	}
	if err == nil && read != frames {
		err = fmt.Errorf("decoded %d of %d frames: %w", read, frames, sndfile.ErrTruncated)
	}
	if err != nil {
		mem.FreeFloat32(storage)
		return fmt.Errorf("buffer: %w", err)
	}

	b.storage = storage
	b.frames = frames
	b.channels = chans
	b.sampleRate = info.SampleRate
	return nil
}

// WriteFile encodes a frame range of the buffer under the given header and
// sample format. frames == 0 writes from startFrame to the end of the
// buffer; the range is clamped to the buffer. The buffer must be
// allocated; its state is not mutated.
func (b *Buffer) WriteFile(path, header, sampleFormat string, startFrame, frames int) error {
	if b.storage == nil {
		panic("buffer: file write from an unallocated buffer")
	}
	if startFrame < 0 || frames < 0 {
		return fmt.Errorf("buffer: negative frame range [%d, +%d)", startFrame, frames)
	}

	startFrame = min(startFrame, b.frames)
	if avail := b.frames - startFrame; frames == 0 || frames > avail {
		frames = avail
	}

	w, err := sndfile.Create(path, header, sampleFormat, b.channels, b.sampleRate)
	if err != nil {
		return fmt.Errorf("buffer: %w", err)
	}
	if err := w.WriteFrames(b.Data()[startFrame*b.channels : (startFrame+frames)*b.channels]); err != nil {
		w.Close()
		return fmt.Errorf("buffer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("buffer: %w", err)
	}
	return nil
}
