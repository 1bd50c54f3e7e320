package dispatch

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-sndbuf/buffer"
	"github.com/cwbudde/algo-sndbuf/gen"
	"github.com/cwbudde/algo-sndbuf/mem"
	"github.com/cwbudde/algo-sndbuf/table"
)

// ErrClosed reports a command submitted after Close.
var ErrClosed = errors.New("dispatch: engine is closed")

type command struct {
	run   func() error
	reply chan error
}

// parked is detached buffer storage awaiting a render barrier. epoch is
// the barrier count observed when the storage was parked; the storage may
// be released once the count has moved past it.
type parked struct {
	storage []float32
	epoch   uint64
}

// Engine owns a buffer table and executes all commands against it on one
// goroutine.
type Engine struct {
	tbl *table.Table

	mu       sync.Mutex
	closed   bool
	commands chan command
	done     chan struct{}

	barrier   atomic.Uint64
	barrierCh chan struct{}

	// staged is owned by the engine goroutine.
	staged []parked
}

// New starts an engine over tbl. The engine takes ownership of the table;
// after New, all mutation must go through the engine.
func New(tbl *table.Table) *Engine {
	e := &Engine{
		tbl:       tbl,
		commands:  make(chan command),
		done:      make(chan struct{}),
		barrierCh: make(chan struct{}, 1),
	}
	go e.loop()
	return e
}

func (e *Engine) loop() {
	defer close(e.done)
	for {
		select {
		case cmd, ok := <-e.commands:
			if !ok {
				e.shutdown()
				return
			}
			cmd.reply <- cmd.run()
			e.reclaim()
		case <-e.barrierCh:
			e.reclaim()
		}
	}
}

// reclaim releases parked storage whose epoch a barrier has passed.
func (e *Engine) reclaim() {
	bar := e.barrier.Load()
	kept := e.staged[:0]
	for _, p := range e.staged {
		if p.epoch < bar {
			mem.FreeFloat32(p.storage)
		} else {
			kept = append(kept, p)
		}
	}
	e.staged = kept
}

// shutdown releases everything the engine still holds. Pending barriers
// no longer matter: the render graph must be stopped before Close.
func (e *Engine) shutdown() {
	for _, p := range e.staged {
		mem.FreeFloat32(p.storage)
	}
	e.staged = nil
	e.tbl.Close()
}

func (e *Engine) submit(run func() error) error {
	cmd := command{run: run, reply: make(chan error, 1)}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.commands <- cmd
	e.mu.Unlock()
	return <-cmd.reply
}

// Close drains the queue, releases all parked and tabled storage and stops
// the engine. Further commands report ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.commands)
	e.mu.Unlock()
	<-e.done
}

// RenderBarrier marks a render-block boundary. It is wait-free: the render
// path bumps the barrier count and nudges the engine without ever
// blocking or allocating.
func (e *Engine) RenderBarrier() {
	e.barrier.Add(1)
	select {
	case e.barrierCh <- struct{}{}:
	default:
	}
}

// Buffer exposes a slot for read access on the render path. Mutation must
// go through the engine's commands.
func (e *Engine) Buffer(index int) *buffer.Buffer {
	return e.tbl.Buffer(index)
}

// Sync blocks until every previously submitted command has executed.
func (e *Engine) Sync() error {
	return e.submit(func() error { return nil })
}

// Allocate provides uninitialized storage for a slot.
func (e *Engine) Allocate(index, frames, channels int) error {
	return e.submit(func() error { return e.tbl.Allocate(index, frames, channels) })
}

// ReadAllocate decodes a sound-file frame range into a slot.
func (e *Engine) ReadAllocate(index int, path string, startFrame, frames int) error {
	return e.submit(func() error { return e.tbl.ReadAllocate(index, path, startFrame, frames) })
}

// ReadChannelsAllocate is ReadAllocate restricted to a channel subset.
func (e *Engine) ReadChannelsAllocate(index int, path string, startFrame, frames int, channels []int) error {
	return e.submit(func() error {
		return e.tbl.ReadChannelsAllocate(index, path, startFrame, frames, channels)
	})
}

// Free marks a slot free and parks its storage until the next render
// barrier has passed.
func (e *Engine) Free(index int) error {
	return e.submit(func() error {
		storage, err := e.tbl.Detach(index)
		if err != nil {
			return err
		}
		if storage != nil {
			e.staged = append(e.staged, parked{storage: storage, epoch: e.barrier.Load()})
		}
		return nil
	})
}

// Zero fills a slot's samples with silence.
func (e *Engine) Zero(index int) error {
	return e.submit(func() error { return e.tbl.Zero(index) })
}

// SetIndexed scatters values at the given sample indices of a slot.
func (e *Engine) SetIndexed(index int, indices []int, values []float32) error {
	return e.submit(func() error { return e.tbl.SetIndexed(index, indices, values) })
}

// SetRange writes values contiguously starting at position.
func (e *Engine) SetRange(index, position int, values []float32) error {
	return e.submit(func() error { return e.tbl.SetRange(index, position, values) })
}

// Fill broadcasts value over count samples starting at position.
func (e *Engine) Fill(index, position, count int, value float32) error {
	return e.submit(func() error { return e.tbl.Fill(index, position, count, value) })
}

// Write encodes a frame range of a slot to a sound file.
func (e *Engine) Write(index int, path, header, sampleFormat string, startFrame, frames int) error {
	return e.submit(func() error {
		return e.tbl.Write(index, path, header, sampleFormat, startFrame, frames)
	})
}

// GenSine1 fills a slot with a sum of harmonic sine partials.
func (e *Engine) GenSine1(index int, partials []float64, normalize bool) error {
	return e.submit(func() error {
		if err := e.tbl.CheckInUse(index); err != nil {
			return err
		}
		return gen.Sine1(e.tbl.Buffer(index), partials, normalize)
	})
}

// GenSine2 fills a slot with sine partials at arbitrary frequencies.
func (e *Engine) GenSine2(index int, freqs, amps []float64, normalize bool) error {
	return e.submit(func() error {
		if err := e.tbl.CheckInUse(index); err != nil {
			return err
		}
		return gen.Sine2(e.tbl.Buffer(index), freqs, amps, normalize)
	})
}

// GenCheby fills a slot with a Chebyshev waveshaping table.
func (e *Engine) GenCheby(index int, coeffs []float64, normalize bool) error {
	return e.submit(func() error {
		if err := e.tbl.CheckInUse(index); err != nil {
			return err
		}
		return gen.Cheby(e.tbl.Buffer(index), coeffs, normalize)
	})
}
