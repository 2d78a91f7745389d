// Package pad widens canonical pixel rows to the GE's minimum addressable
// block width.
package pad

import (
	"fmt"
	"math"

	"github.com/bodgit/psptex/internal/align"
)

const (
	// BlockWidth is the pitch granularity in pixels, 16 bytes at 4 bytes
	// per pixel.
	BlockWidth = 8

	bytesPerPixel = 4
)

// MaxBytes is the largest padded buffer Pad will allocate.
var MaxBytes = math.MaxInt32

// AllocationError is returned when a padded buffer cannot be allocated.
type AllocationError struct {
	Size int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("pad: cannot allocate %d bytes", e.Size)
}

// Pitch returns the smallest multiple of BlockWidth that is at least width.
func Pitch(width int) int {
	return (width + BlockWidth - 1) &^ (BlockWidth - 1)
}

// Pad copies each width*4 byte row of rows to the start of a pitch*4 byte
// row in a new zeroed, aligned buffer and returns the pitch in pixels with
// that buffer. The bytes after each copied row stay zero.
func Pad(width, height int, rows []byte) (int, []byte, error) {
	if width < 0 || height < 0 {
		return 0, nil, fmt.Errorf("pad: invalid dimensions %dx%d", width, height)
	}
	if len(rows) != width*height*bytesPerPixel {
		return 0, nil, fmt.Errorf("pad: have %d bytes, want %d for %dx%d", len(rows), width*height*bytesPerPixel, width, height)
	}

	pitch := Pitch(width)
	stride := pitch * bytesPerPixel
	size := int64(stride) * int64(height)
	if size > int64(MaxBytes) {
		return 0, nil, &AllocationError{Size: size}
	}

	dst := align.Bytes(int(size))
	n := width * bytesPerPixel
	for y := 0; y < height; y++ {
		copy(dst[y*stride:y*stride+n], rows[y*n:(y+1)*n])
	}

	return pitch, dst, nil
}
