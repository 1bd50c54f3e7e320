// Package dispatch serializes buffer commands onto a single goroutine and
// defers storage release to render-path barriers.
//
// The buffer table performs no locking, so the server funnels every
// mutating command through an Engine: submitters block until their command
// has run and receive its error, which gives the table the single-writer
// discipline it requires while allocation and file I/O stay off the
// real-time render path.
//
// Freeing is two-phase. A free command only detaches the slot's storage
// and parks it; the render path calls RenderBarrier between processing
// blocks, and parked storage is released on the engine goroutine once a
// barrier has passed after it was parked. A render callback that picked up
// a buffer's storage before the free command ran can therefore finish its
// block before the memory goes away. RenderBarrier itself is wait-free and
// safe to call from the render callback.
package dispatch
