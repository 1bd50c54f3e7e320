package mem

import "unsafe"

// alignSlice returns the nbytes-long sub-slice of raw whose first byte lies
// on an Alignment boundary. raw must be at least nbytes+Alignment bytes so
// the offset always fits.
func alignSlice(raw []byte, nbytes int) []byte {
	addr := uintptr(unsafe.Pointer(&raw[0]))
	off := 0
	if r := addr % Alignment; r != 0 {
		off = int(Alignment - r)
	}
	return raw[off : off+nbytes : off+nbytes]
}
