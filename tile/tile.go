/*
Package tile implements the GE texture swizzle.

The GE samples swizzled textures from blocks of 16 bytes by 8 rows, which is
4 pixels by 8 rows at 32 bits per pixel. A linear buffer with a row length of
pitch*4 bytes is cut into a grid of pitch*4/16 columns by height/8 rows of
blocks. Blocks are written left to right, then top to bottom, and each block
is the 8 rows of 16 bytes copied in order, 128 bytes in total. The transform
only moves whole 16 byte runs so it preserves the buffer size and is undone
by Decode.
*/
package tile

import "fmt"

const (
	blockWidth    = 16 // bytes
	blockHeight   = 8  // rows
	blockSize     = blockWidth * blockHeight
	wordSize      = 4
	wordsPerRow   = blockWidth / wordSize
	bytesPerPixel = 4
)

// DimensionError is returned when a buffer does not divide into whole blocks.
type DimensionError struct {
	Pitch  int
	Height int
	Len    int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("tile: %d byte buffer with pitch %d and height %d does not divide into %dx%d byte blocks", e.Len, e.Pitch, e.Height, blockWidth, blockHeight)
}

// Grid returns the number of block columns and rows covering a buffer of
// the given pitch in pixels and height in rows.
func Grid(pitch, height int) (int, int) {
	return pitch * bytesPerPixel / blockWidth, height / blockHeight
}

// BlockSize returns the number of bytes in one block.
func BlockSize() int {
	return blockSize
}

func check(pitch, height int, b []byte) error {
	if pitch < 0 || height < 0 || pitch*bytesPerPixel%blockWidth != 0 || height%blockHeight != 0 || len(b) != pitch*bytesPerPixel*height {
		return &DimensionError{Pitch: pitch, Height: height, Len: len(b)}
	}
	return nil
}
