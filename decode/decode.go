/*
Package decode turns encoded images into the canonical pixel format used by
the rest of the texture pipeline: 4 bytes per pixel in R, G, B, A order with
non-premultiplied alpha, rows stored top to bottom with no padding.

PNG, JPEG, GIF, BMP, TIFF, WebP and TGA sources are understood. Whatever the
source channel order or bit depth, the output is always exactly
width*height*4 bytes.
*/
package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

const (
	// BytesPerPixel is the size of one canonical pixel.
	BytesPerPixel = 4

	// MaxDimension bounds the width and height accepted from a header.
	MaxDimension = 4096
)

// Error is returned for any input that cannot be decoded.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return "decode: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

type codec struct {
	name         string
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

// TGA has no magic number, so it is never looked up by type and is only
// tried when nothing else matches.
var (
	codecs = map[string]codec{
		matchers.TypePng.MIME.Value:  {"png", png.Decode, png.DecodeConfig},
		matchers.TypeJpeg.MIME.Value: {"jpeg", jpeg.Decode, jpeg.DecodeConfig},
		matchers.TypeGif.MIME.Value:  {"gif", gif.Decode, gif.DecodeConfig},
		matchers.TypeBmp.MIME.Value:  {"bmp", bmp.Decode, bmp.DecodeConfig},
		matchers.TypeTiff.MIME.Value: {"tiff", tiff.Decode, tiff.DecodeConfig},
		matchers.TypeWebp.MIME.Value: {"webp", webp.Decode, webp.DecodeConfig},
	}
	tgaCodec = codec{"tga", tga.Decode, tga.DecodeConfig}
)

func lookup(b []byte) (codec, error) {
	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown {
		return tgaCodec, nil
	}
	if c, ok := codecs[kind.MIME.Value]; ok {
		return c, nil
	}
	return codec{}, &Error{Reason: "unsupported format " + kind.MIME.Value}
}

// Config validates the header of b and returns its dimensions and format
// name without decoding any pixels.
func Config(b []byte) (image.Config, string, error) {
	if len(b) == 0 {
		return image.Config{}, "", &Error{Reason: "empty input"}
	}

	c, err := lookup(b)
	if err != nil {
		return image.Config{}, "", err
	}

	cfg, err := c.decodeConfig(bytes.NewReader(b))
	if err != nil {
		return image.Config{}, "", &Error{Reason: "corrupt " + c.name + " header", Err: err}
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", &Error{Reason: fmt.Sprintf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return image.Config{}, "", &Error{Reason: fmt.Sprintf("image too large %dx%d", cfg.Width, cfg.Height)}
	}

	return cfg, c.name, nil
}

// Decode decodes b and returns its dimensions and canonical pixel data.
func Decode(b []byte) (int, int, []byte, error) {
	cfg, _, err := Config(b)
	if err != nil {
		return 0, 0, nil, err
	}

	// Config succeeded so the lookup cannot fail
	c, _ := lookup(b)

	m, err := c.decode(bytes.NewReader(b))
	if err != nil {
		return 0, 0, nil, &Error{Reason: "truncated or corrupt " + c.name + " payload", Err: err}
	}

	r := m.Bounds()
	if r.Dx() != cfg.Width || r.Dy() != cfg.Height {
		return 0, 0, nil, &Error{Reason: fmt.Sprintf("%s payload is %dx%d, header says %dx%d", c.name, r.Dx(), r.Dy(), cfg.Width, cfg.Height)}
	}

	return cfg.Width, cfg.Height, Canonical(m).Pix, nil
}

// Canonical returns m as an NRGBA image anchored at the origin whose Pix
// holds exactly Dx*Dy*4 bytes. m is returned as-is if it already qualifies.
func Canonical(m image.Image) *image.NRGBA {
	r := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok && r.Min == (image.Point{}) && n.Stride == r.Dx()*BytesPerPixel && len(n.Pix) == n.Stride*r.Dy() {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), m, r.Min, draw.Src)
	return dst
}
