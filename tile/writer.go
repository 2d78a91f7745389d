package tile

import "github.com/bodgit/psptex/internal/align"

// Encode returns the swizzled copy of the linear buffer b, which must hold
// height rows of pitch pixels.
func Encode(pitch, height int, b []byte) ([]byte, error) {
	if err := check(pitch, height, b); err != nil {
		return nil, err
	}

	dst := align.Bytes(len(b))
	stride := pitch * bytesPerPixel
	tilesX, tilesY := Grid(pitch, height)

	i := 0
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			for y := 0; y < blockHeight; y++ {
				row := (ty*blockHeight+y)*stride + tx*blockWidth
				for x := 0; x < wordsPerRow; x++ {
					s := row + x*wordSize
					copy(dst[i:i+wordSize], b[s:s+wordSize])
					i += wordSize
				}
			}
		}
	}

	return dst, nil
}
