package tile

import "github.com/bodgit/psptex/internal/align"

// Decode reverses Encode, returning the linear buffer for the swizzled
// buffer b.
func Decode(pitch, height int, b []byte) ([]byte, error) {
	if err := check(pitch, height, b); err != nil {
		return nil, err
	}

	dst := align.Bytes(len(b))
	stride := pitch * bytesPerPixel
	tilesX, tilesY := Grid(pitch, height)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			tile := ty*tilesX + tx
			for y := 0; y < blockHeight; y++ {
				s := tile*blockSize + y*blockWidth
				d := (ty*blockHeight+y)*stride + tx*blockWidth
				copy(dst[d:d+blockWidth], b[s:s+blockWidth])
			}
		}
	}

	return dst, nil
}
