//go:build sndbuf_mmap && (linux || darwin || freebsd || netbsd || openbsd)

package mem

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mmap backend: every block is an anonymous private mapping. Pages start
// on a page boundary (4096 or larger), which satisfies Alignment with room
// to spare, so no extra bookkeeping offset is needed. The mapping slice is
// retained so release can hand the exact region back to Munmap.

var (
	mapMu   sync.Mutex
	mapLive = make(map[uintptr][]byte)
)

func allocAligned(nbytes int) []byte {
	data, err := unix.Mmap(-1, 0, nbytes,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}

	mapMu.Lock()
	mapLive[uintptr(unsafe.Pointer(&data[0]))] = data
	mapMu.Unlock()
	return data[:nbytes:nbytes]
}

func freeAligned(base uintptr) {
	mapMu.Lock()
	data, ok := mapLive[base]
	if ok {
		delete(mapLive, base)
	}
	mapMu.Unlock()
	if !ok {
		panic("mem: free of unknown or already-released block")
	}
	// Unmapping cannot be reported to the caller; the block is already
	// gone from the live set either way.
	_ = unix.Munmap(data)
}

func outstanding() int {
	mapMu.Lock()
	n := len(mapLive)
	mapMu.Unlock()
	return n
}
