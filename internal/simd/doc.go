// Package simd contains internal fill kernels for float32 sample memory.
//
// The kernels are written as 8-way unrolled loops over sample storage that
// the mem package hands out 64-byte aligned, which lets the compiler emit
// vector stores on targets with SIMD support. All operations have zero
// allocations and are safe for concurrent use on disjoint slices.
package simd
