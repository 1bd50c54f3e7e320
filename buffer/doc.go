// Package buffer implements a single audio sample buffer backed by aligned
// storage.
//
// A Buffer is either unallocated (no storage, zero frames, zero channels)
// or allocated. Mutating operations clamp their ranges against the frame
// count instead of failing, which protects the server against malformed
// sample payloads from remote callers; calling an operation that requires
// the opposite allocation state is a programmer defect and panics. The
// buffer table in package table guards every call so that remote commands
// can never reach a buffer in the wrong state.
//
// Samples are single-precision floats stored interleaved: frame f, channel
// c lives at index f*channels+c.
package buffer
