//go:build sndbuf_pool

package mem

import (
	"math/bits"
	"sync"
	"unsafe"
)

// Pooled backend: freed blocks are parked per power-of-two size class and
// reused by later allocations of the same class. Reuse keeps hot buffer
// sizes out of the garbage collector's way at the cost of holding on to
// freed memory.

// maxFreePerClass bounds how many freed blocks a class retains.
const maxFreePerClass = 8

// pblock pairs the raw allocation with its aligned region. aligned always
// spans the full class capacity; allocAligned hands out a capped reslice,
// so a reused block can serve any request up to classBytes.
type pblock struct {
	raw        []byte
	aligned    []byte
	classBytes int
}

var (
	poolMu   sync.Mutex
	poolLive = make(map[uintptr]pblock)
	poolFree = make(map[int][]pblock)
)

func allocAligned(nbytes int) []byte {
	class := sizeClass(nbytes)

	poolMu.Lock()
	if freed := poolFree[class]; len(freed) > 0 {
		blk := freed[len(freed)-1]
		poolFree[class] = freed[:len(freed)-1]
		poolLive[uintptr(unsafe.Pointer(&blk.aligned[0]))] = blk
		poolMu.Unlock()
		return blk.aligned[:nbytes:nbytes]
	}
	poolMu.Unlock()

	raw := make([]byte, class+Alignment)
	aligned := alignSlice(raw, class)
	blk := pblock{raw: raw, aligned: aligned, classBytes: class}

	poolMu.Lock()
	poolLive[uintptr(unsafe.Pointer(&aligned[0]))] = blk
	poolMu.Unlock()
	return aligned[:nbytes:nbytes]
}

func freeAligned(base uintptr) {
	poolMu.Lock()
	blk, ok := poolLive[base]
	if ok {
		delete(poolLive, base)
		if freed := poolFree[blk.classBytes]; len(freed) < maxFreePerClass {
			poolFree[blk.classBytes] = append(freed, blk)
		}
	}
	poolMu.Unlock()
	if !ok {
		panic("mem: free of unknown or already-released block")
	}
}

func outstanding() int {
	poolMu.Lock()
	n := len(poolLive)
	poolMu.Unlock()
	return n
}

// sizeClass rounds nbytes up to the next power of two, with Alignment as
// the smallest class.
func sizeClass(nbytes int) int {
	if nbytes <= Alignment {
		return Alignment
	}
	return 1 << bits.Len(uint(nbytes-1))
}
