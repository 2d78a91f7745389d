// Package preview renders cached textures back into ordinary images for
// inspection.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/bodgit/psptex/cache"
	"github.com/bodgit/psptex/tile"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// Format is an output image format.
type Format int

// Supported output formats.
const (
	PNG Format = iota
	GIF
	WebP
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case GIF:
		return "gif"
	case WebP:
		return "webp"
	}
	return "unknown"
}

// ParseFormat returns the Format named s, which may be a bare name or a
// filename with an extension.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(filepath.Ext(s), "."))
	if name == "" {
		name = strings.ToLower(s)
	}
	switch name {
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "webp":
		return WebP, nil
	}
	return 0, fmt.Errorf("preview: unknown format %q", s)
}

// Image undoes the swizzle of t and returns its visible area, dropping the
// pitch padding.
func Image(t *cache.Texture) (*image.NRGBA, error) {
	linear, err := tile.Decode(t.Pitch, t.Height, t.Data)
	if err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	stride := t.Pitch * 4
	for y := 0; y < t.Height; y++ {
		copy(m.Pix[y*m.Stride:(y+1)*m.Stride], linear[y*stride:y*stride+t.Width*4])
	}

	return m, nil
}

// Scale enlarges m by an integer factor without filtering, keeping texel
// edges sharp.
func Scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// Encode writes m to w in format f. GIF output is reduced to a 256 color
// median cut palette.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case GIF:
		b := m.Bounds()
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 256), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
		return gif.Encode(w, pm, nil)
	case WebP:
		return nativewebp.Encode(w, m, nil)
	}
	return fmt.Errorf("preview: unknown format %d", f)
}
