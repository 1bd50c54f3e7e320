package mem

import (
	"math"
	"unsafe"
)

// Alignment is the guaranteed byte alignment of every allocated block.
const Alignment = 64

// AllocAligned returns an uninitialized block of nbytes bytes whose first
// byte lies on an Alignment boundary. It returns nil when nbytes <= 0 or
// when the backend cannot satisfy the request; it never panics on failure.
// Callers must not rely on the contents of the returned block.
func AllocAligned(nbytes int) []byte {
	if nbytes <= 0 {
		return nil
	}
	return allocAligned(nbytes)
}

// CallocAligned is AllocAligned followed by a zero fill.
func CallocAligned(nbytes int) []byte {
	b := AllocAligned(nbytes)
	if b != nil {
		clear(b)
	}
	return b
}

// FreeAligned releases a block previously returned by AllocAligned or
// CallocAligned. Releasing nil is a no-op. Releasing a block this backend
// did not hand out, or releasing the same block twice, panics.
func FreeAligned(b []byte) {
	if b == nil {
		return
	}
	freeAligned(uintptr(unsafe.Pointer(&b[0])))
}

// AllocFloat32 allocates aligned, uninitialized storage for n float32
// samples. The size computation is overflow-checked; nil is returned for
// n <= 0, on overflow, or on backend failure.
func AllocFloat32(n int) []float32 {
	b := AllocAligned(byteSize(n))
	if b == nil {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}

// CallocFloat32 is AllocFloat32 followed by a zero fill.
func CallocFloat32(n int) []float32 {
	s := AllocFloat32(n)
	if s != nil {
		clear(s)
	}
	return s
}

// FreeFloat32 releases storage previously returned by AllocFloat32 or
// CallocFloat32, with the same contract as FreeAligned.
func FreeFloat32(s []float32) {
	if s == nil {
		return
	}
	freeAligned(uintptr(unsafe.Pointer(&s[0])))
}

// Outstanding returns the number of live blocks held by the backend.
func Outstanding() int {
	return outstanding()
}

const sampleSize = int(unsafe.Sizeof(float32(0)))

func byteSize(n int) int {
	if n <= 0 || n > math.MaxInt/sampleSize {
		return 0
	}
	return n * sampleSize
}
