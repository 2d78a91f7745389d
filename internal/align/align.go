// Package align allocates byte buffers at the alignment the GE requires for
// texture DMA.
package align

import "unsafe"

// Boundary is the required start alignment in bytes of any buffer handed to
// the GE.
const Boundary = 16

// Bytes returns a zeroed slice of length size whose first byte sits on a
// Boundary-aligned address. The Go heap does not move allocations so the
// alignment holds for the lifetime of the slice.
func Bytes(size int) []byte {
	if size <= 0 {
		return []byte{}
	}
	b := make([]byte, size+Boundary-1)
	off := 0
	if m := int(uintptr(unsafe.Pointer(&b[0])) % Boundary); m != 0 {
		off = Boundary - m
	}
	return b[off : off+size : off+size]
}

// Aligned reports whether the first byte of b is Boundary-aligned.
func Aligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%Boundary == 0
}
