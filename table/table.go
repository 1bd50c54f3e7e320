// Package table implements the server's indexed table of sample buffers.
//
// A Table is a fixed-capacity sequence of slots, each holding one buffer
// that is either free or allocated. Every mutating operation first checks
// the slot's state, so a remote command can never touch a buffer in the
// wrong allocation state; violations are reported as ErrAlreadyInUse or
// ErrNotInUse for the control path to relay to the caller.
//
// The table performs no locking. Calls are safe only under external
// serialization; package dispatch provides the single-writer command queue
// the intended deployment uses. Slot indices are a caller contract and are
// not validated here.
package table

import (
	"errors"

	"github.com/cwbudde/algo-sndbuf/buffer"
)

// State-violation errors, recoverable by the control path.
var (
	ErrAlreadyInUse = errors.New("table: buffer already in use")
	ErrNotInUse     = errors.New("table: buffer is not in use")
)

// slotState is the explicit allocation discriminant of a slot. State is
// tracked here rather than inferred from the buffer's storage pointer so
// the state machine stays visible in one place.
type slotState uint8

const (
	slotFree slotState = iota
	slotAllocated
)

type slot struct {
	buf   buffer.Buffer
	state slotState
}

// Table is a fixed-capacity table of buffer slots.
type Table struct {
	slots []slot
}

// Option configures a Table.
type Option func(*config)

type config struct {
	sampleRate int
}

// WithSampleRate sets the default sample rate stamped on buffers created
// by Allocate. File reads overwrite it with the file's rate.
func WithSampleRate(rate int) Option {
	return func(cfg *config) {
		if rate > 0 {
			cfg.sampleRate = rate
		}
	}
}

// New returns a table with the given number of slots, all free.
func New(capacity int, opts ...Option) *Table {
	if capacity < 0 {
		capacity = 0
	}
	cfg := config{sampleRate: 44100}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	t := &Table{slots: make([]slot, capacity)}
	for i := range t.slots {
		t.slots[i].buf.SetSampleRate(cfg.sampleRate)
	}
	return t
}

// Capacity returns the fixed slot count.
func (t *Table) Capacity() int { return len(t.slots) }

// Buffer returns the buffer at index for read access on the render path.
// The returned pointer stays valid for the table's lifetime; its storage
// does not.
func (t *Table) Buffer(index int) *buffer.Buffer {
	return &t.slots[index].buf
}

// CheckUnused reports ErrAlreadyInUse if the slot is allocated.
func (t *Table) CheckUnused(index int) error {
	if t.slots[index].state != slotFree {
		return ErrAlreadyInUse
	}
	return nil
}

// CheckInUse reports ErrNotInUse if the slot is free.
func (t *Table) CheckInUse(index int) error {
	if t.slots[index].state != slotAllocated {
		return ErrNotInUse
	}
	return nil
}

// Allocate provides uninitialized storage for the slot.
func (t *Table) Allocate(index, frames, channels int) error {
	if err := t.CheckUnused(index); err != nil {
		return err
	}
	if err := t.slots[index].buf.Allocate(frames, channels); err != nil {
		return err
	}
	t.slots[index].state = slotAllocated
	return nil
}

// ReadAllocate decodes a sound-file frame range into the slot.
func (t *Table) ReadAllocate(index int, path string, startFrame, frames int) error {
	if err := t.CheckUnused(index); err != nil {
		return err
	}
	if err := t.slots[index].buf.ReadFile(path, startFrame, frames); err != nil {
		return err
	}
	t.slots[index].state = slotAllocated
	return nil
}

// ReadChannelsAllocate is ReadAllocate restricted to a channel subset.
func (t *Table) ReadChannelsAllocate(index int, path string, startFrame, frames int, channels []int) error {
	if err := t.CheckUnused(index); err != nil {
		return err
	}
	if err := t.slots[index].buf.ReadFileChannels(path, startFrame, frames, channels); err != nil {
		return err
	}
	t.slots[index].state = slotAllocated
	return nil
}

// Free releases the slot's storage immediately. Callers that share buffer
// storage with a render path must use Detach and stage the release behind
// a render barrier instead.
func (t *Table) Free(index int) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	t.slots[index].buf.Free()
	t.slots[index].state = slotFree
	return nil
}

// Detach moves the slot's storage out and marks the slot free. The caller
// takes over releasing the returned slice via mem.FreeFloat32.
func (t *Table) Detach(index int) ([]float32, error) {
	if err := t.CheckInUse(index); err != nil {
		return nil, err
	}
	storage := t.slots[index].buf.Detach()
	t.slots[index].state = slotFree
	return storage, nil
}

// Zero fills the slot's samples with silence.
func (t *Table) Zero(index int) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	t.slots[index].buf.Zero()
	return nil
}

// SetIndexed scatters values at the given sample indices.
func (t *Table) SetIndexed(index int, indices []int, values []float32) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	t.slots[index].buf.SetIndexed(indices, values)
	return nil
}

// SetRange writes values contiguously starting at position.
func (t *Table) SetRange(index, position int, values []float32) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	t.slots[index].buf.SetRange(position, values)
	return nil
}

// Fill broadcasts value over count samples starting at position.
func (t *Table) Fill(index, position, count int, value float32) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	t.slots[index].buf.Fill(position, count, value)
	return nil
}

// Write encodes a frame range of the slot to a sound file.
func (t *Table) Write(index int, path, header, sampleFormat string, startFrame, frames int) error {
	if err := t.CheckInUse(index); err != nil {
		return err
	}
	return t.slots[index].buf.WriteFile(path, header, sampleFormat, startFrame, frames)
}

// Close releases every allocated slot's storage.
func (t *Table) Close() {
	for i := range t.slots {
		if t.slots[i].state == slotAllocated {
			t.slots[i].buf.Free()
			t.slots[i].state = slotFree
		}
	}
}
