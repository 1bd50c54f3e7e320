package buffer

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-sndbuf/internal/simd"
	"github.com/cwbudde/algo-sndbuf/mem"
)

// ErrAllocFailed reports that the aligned allocator could not provide
// storage. The buffer is left unallocated.
var ErrAllocFailed = errors.New("buffer: could not allocate buffer")

// Buffer owns one sample buffer's storage.
//
// storage holds the full aligned allocation; its logical prefix of
// frames*channels samples is the buffer content. A zero-sample buffer
// (frames or channels of 0 after an explicit allocation) keeps a minimal
// allocation so the allocated state stays observable.
type Buffer struct {
	storage    []float32
	frames     int
	channels   int
	sampleRate int
}

// Allocated reports whether the buffer currently owns storage.
func (b *Buffer) Allocated() bool { return b.storage != nil }

// Frames returns the frame count, 0 when unallocated.
func (b *Buffer) Frames() int { return b.frames }

// Channels returns the channel count, 0 when unallocated.
func (b *Buffer) Channels() int { return b.channels }

// SampleRate returns the informational sample rate.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// SetSampleRate records the sample rate. It carries no semantics inside
// this package; the render graph and the file writer read it.
func (b *Buffer) SetSampleRate(rate int) { b.sampleRate = rate }

// Data returns the interleaved sample content, frames*channels long.
// The slice aliases the buffer's storage; it is invalidated by Free.
func (b *Buffer) Data() []float32 {
	if b.storage == nil {
		return nil
	}
	return b.storage[:b.frames*b.channels]
}

// Allocate provides aligned, uninitialized storage for frames*channels
// samples. The buffer must be unallocated; violating that is a programmer
// defect and panics. On allocation failure the buffer stays unallocated
// and ErrAllocFailed is returned. Contents are not zeroed.
func (b *Buffer) Allocate(frames, channels int) error {
	if b.storage != nil {
		panic("buffer: allocate on an allocated buffer")
	}
	if frames < 0 || channels < 0 {
		panic("buffer: negative frame or channel count")
	}
	n, ok := sampleCount(frames, channels)
	if !ok {
		return ErrAllocFailed
	}
	storage := mem.AllocFloat32(max(n, 1))
	if storage == nil {
		return ErrAllocFailed
	}
	b.storage = storage
	b.frames = frames
	b.channels = channels
	return nil
}

// Free releases the storage. Freeing an unallocated buffer is a no-op.
func (b *Buffer) Free() {
	mem.FreeFloat32(b.Detach())
}

// Detach moves the storage out of the buffer and resets it to the
// unallocated state without releasing anything. The caller takes over the
// obligation to hand the returned slice to mem.FreeFloat32. Detaching an
// unallocated buffer returns nil.
//
// This is the hook for deferred release: the command engine detaches on
// free and releases only after the render path has passed a barrier.
func (b *Buffer) Detach() []float32 {
	storage := b.storage
	b.storage = nil
	b.frames = 0
	b.channels = 0
	return storage
}

// Zero fills all samples with silence. The buffer must be allocated.
func (b *Buffer) Zero() {
	if b.storage == nil {
		panic("buffer: zero on an unallocated buffer")
	}
	simd.Zero(b.Data())
}

// SetIndexed writes values[i] at sample index indices[i] for each pair.
// Indices at or beyond the frame count are silently dropped; this is the
// safety clamp for scatter payloads from remote callers, not an error.
// Extra indices or values without a partner are ignored.
func (b *Buffer) SetIndexed(indices []int, values []float32) {
	n := min(len(indices), len(values))
	for i := 0; i < n; i++ {
		if idx := indices[i]; idx >= 0 && idx < b.frames {
			b.storage[idx] = values[i]
		}
	}
}

// SetRange writes values contiguously starting at position and returns the
// number of samples written, clamped to max(0, frames-position). A
// position at or past the frame count writes nothing. Negative positions
// are a programmer defect and panic.
func (b *Buffer) SetRange(position int, values []float32) int {
	n := b.clampCount(position, len(values))
	if n == 0 {
		return 0
	}
	copy(b.storage[position:position+n], values[:n])
	return n
}

// Fill broadcasts value over count samples starting at position, with the
// same clamp semantics as SetRange.
func (b *Buffer) Fill(position, count int, value float32) int {
	n := b.clampCount(position, count)
	if n == 0 {
		return 0
	}
	simd.Fill(b.storage[position:position+n], value)
	return n
}

// clampCount saturates count against the samples available at position.
// The subtraction is signed, so a position past the frame count yields 0
// instead of wrapping around.
func (b *Buffer) clampCount(position, count int) int {
	if position < 0 {
		panic("buffer: negative position")
	}
	avail := b.frames - position
	if avail < 0 {
		avail = 0
	}
	return min(max(count, 0), avail)
}

// sampleCount returns frames*channels, reporting overflow.
func sampleCount(frames, channels int) (int, bool) {
	if frames > 0 && channels > 0 && frames > math.MaxInt/channels {
		return 0, false
	}
	return frames * channels, true
}
