package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 10), uint8(y * 20), uint8(x + y), uint8(255 - x)})
		}
	}
	return m
}

func encodePNG(t *testing.T, m image.Image) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	return b.Bytes()
}

func TestDecodePNG(t *testing.T) {
	m := testImage(3, 2)

	w, h, pix, err := Decode(encodePNG(t, m))
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Len(t, pix, 3*2*BytesPerPixel)
	assert.Equal(t, m.Pix, pix)
}

func TestDecodeGray(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 2))
	m.SetGray(1, 1, color.Gray{0x80})

	_, _, pix, err := Decode(encodePNG(t, m))
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0, 0xff, 0, 0, 0, 0xff,
		0, 0, 0, 0xff, 0x80, 0x80, 0x80, 0xff,
	}, pix)
}

func TestDecodeGIF(t *testing.T) {
	p := color.Palette{color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0, 0xff, 0xff}}
	m := image.NewPaletted(image.Rect(0, 0, 2, 1), p)
	m.SetColorIndex(1, 0, 1)

	b := new(bytes.Buffer)
	require.NoError(t, gif.Encode(b, m, nil))

	w, h, pix, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, []byte{0xff, 0, 0, 0xff, 0, 0, 0xff, 0xff}, pix)
}

func TestDecodeBMP(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range m.Pix {
		m.Pix[i] = uint8(i)
	}
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = 0xff
	}

	b := new(bytes.Buffer)
	require.NoError(t, bmp.Encode(b, m))

	w, h, pix, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, m.Pix, pix)
}

func TestDecodeTGA(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for i := range m.Pix {
		m.Pix[i] = uint8(i * 3)
	}
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = 0xff
	}

	b := new(bytes.Buffer)
	require.NoError(t, tga.Encode(b, m))

	cfg, format, err := Config(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "tga", format)
	assert.Equal(t, 5, cfg.Width)
	assert.Equal(t, 3, cfg.Height)

	w, h, pix, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, m.Pix, pix)
}

func TestDecodeTIFF(t *testing.T) {
	m := testImage(8, 8)
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = 0xff
	}

	b := new(bytes.Buffer)
	require.NoError(t, tiff.Encode(b, m, nil))

	w, h, pix, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
	assert.Equal(t, m.Pix, pix)
}

// Every supported format must be found by its own decoder, whatever sizes
// are involved.
func TestDecodeFormatSelection(t *testing.T) {
	for _, size := range []image.Point{{30, 16}, {8, 8}, {3, 2}, {1, 1}} {
		m := testImage(size.X, size.Y)

		for name, encode := range map[string]func(*bytes.Buffer) error{
			"png":  func(b *bytes.Buffer) error { return png.Encode(b, m) },
			"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, m, nil) },
			"jpeg": func(b *bytes.Buffer) error { return jpeg.Encode(b, m, nil) },
			"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, m) },
			"tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, m, nil) },
			"tga":  func(b *bytes.Buffer) error { return tga.Encode(b, m) },
		} {
			b := new(bytes.Buffer)
			require.NoError(t, encode(b))

			_, format, err := Config(b.Bytes())
			require.NoError(t, err, "%s %v", name, size)
			assert.Equal(t, name, format)

			w, h, pix, err := Decode(b.Bytes())
			require.NoError(t, err, "%s %v", name, size)
			assert.Equal(t, size.X, w)
			assert.Equal(t, size.Y, h)
			assert.Len(t, pix, size.X*size.Y*BytesPerPixel)
		}
	}
}

func TestDecodeJPEG(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(b, testImage(16, 8), nil))

	w, h, pix, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)
	require.Len(t, pix, 16*8*BytesPerPixel)
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xff {
			t.Fatalf("pixel %d not opaque", i/4)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	good := encodePNG(t, testImage(8, 8))
	large := encodePNG(t, image.NewGray(image.Rect(0, 0, MaxDimension+1, 1)))

	corrupt := append([]byte{}, good[:8]...)
	corrupt = append(corrupt, bytes.Repeat([]byte{0xaa}, 32)...)

	tables := []struct {
		name   string
		input  []byte
		reason string
	}{
		{"empty", nil, "empty input"},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj"), "unsupported format application/pdf"},
		{"ico", []byte{0, 0, 1, 0, 1, 0, 16, 16, 0, 0, 1, 0, 32, 0}, "unsupported format image/vnd.microsoft.icon"},
		{"header", corrupt, "corrupt png header"},
		{"garbage", []byte{0xde, 0xad}, "corrupt tga header"},
		{"truncated", good[:40], "truncated or corrupt png payload"},
		{"large", large, "image too large"},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			w, h, pix, err := Decode(table.input)
			assert.Zero(t, w)
			assert.Zero(t, h)
			assert.Nil(t, pix)

			var decErr *Error
			require.True(t, errors.As(err, &decErr), "got %v", err)
			assert.True(t, strings.HasPrefix(decErr.Reason, table.reason), "reason %q", decErr.Reason)
		})
	}
}

func TestConfig(t *testing.T) {
	cfg, format, err := Config(encodePNG(t, testImage(30, 16)))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}

func TestCanonical(t *testing.T) {
	m := testImage(4, 4)
	assert.Same(t, m, Canonical(m))

	sub := m.SubImage(image.Rect(1, 1, 3, 3))
	c := Canonical(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), c.Bounds())
	assert.Len(t, c.Pix, 2*2*BytesPerPixel)
	assert.Equal(t, m.NRGBAAt(1, 1), c.NRGBAAt(0, 0))
	assert.Equal(t, m.NRGBAAt(2, 2), c.NRGBAAt(1, 1))
}
