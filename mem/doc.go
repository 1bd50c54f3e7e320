// Package mem provides aligned allocation for sample memory.
//
// All blocks start on a 64-byte boundary:
//
//   - 64 bytes covers the widest vector width in use (AVX-512) as well as
//     the 16/32-byte requirements of SSE and AVX2 kernels
//   - 64 bytes is the cache line size of current x86 processors
//
// Exactly one backend is compiled in, selected at build time:
//
//   - default: heap allocation with explicit alignment bookkeeping
//   - sndbuf_pool: size-class pooling on top of the same bookkeeping
//   - sndbuf_mmap (unix): anonymous page mappings via golang.org/x/sys
//
// The backends are behaviorally indistinguishable to callers. Every block
// must be released through FreeAligned (or the typed variant) of the same
// build; releasing a foreign or already-released block panics.
//
// Allocation may take locks and touch the operating system. It belongs on
// the control path, never inside a real-time render callback.
package mem
