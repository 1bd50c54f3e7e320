//go:build !sndbuf_pool && !sndbuf_mmap

package mem

import (
	"sync"
	"unsafe"
)

// block pairs the raw heap allocation with the aligned region handed out,
// keeping the recovery mapping explicit instead of hiding the raw pointer
// in front of the aligned bytes.
type block struct {
	raw     []byte
	aligned []byte
}

var (
	liveMu sync.Mutex
	live   = make(map[uintptr]block)
)

func allocAligned(nbytes int) []byte {
	raw := make([]byte, nbytes+Alignment)
	aligned := alignSlice(raw, nbytes)

	base := uintptr(unsafe.Pointer(&aligned[0]))
	liveMu.Lock()
	live[base] = block{raw: raw, aligned: aligned}
	liveMu.Unlock()
	return aligned
}

func freeAligned(base uintptr) {
	liveMu.Lock()
	_, ok := live[base]
	if ok {
		delete(live, base)
	}
	liveMu.Unlock()
	if !ok {
		panic("mem: free of unknown or already-released block")
	}
}

func outstanding() int {
	liveMu.Lock()
	n := len(live)
	liveMu.Unlock()
	return n
}
