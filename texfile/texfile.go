/*
Package texfile implements a small container for pre-swizzled textures so
they can be shipped ready for the GE without decoding on the device.

A file is a 24 byte little-endian header followed by the texture data:

	offset  size  field
	0       4     magic "GTEX"
	4       2     version, currently 1
	6       2     pixel format, 0 for RGBA8888
	8       2     width in pixels
	10      2     height in pixels
	12      2     pitch in pixels
	14      2     flags, bit 0 set if the data is swizzled
	16      4     CRC-32 (IEEE) of the data
	20      4     length of the data in bytes
*/
package texfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/bodgit/psptex/cache"
)

const (
	// Extension is the conventional file extension.
	Extension = ".gtex"

	version       = 1
	formatRGBA    = 0
	flagSwizzled  = 1 << 0
	headerSize    = 24
	maxDimension  = 0xffff
	bytesPerPixel = 4
)

var magic = [4]byte{'G', 'T', 'E', 'X'}

var (
	errMagic    = errors.New("texfile: bad magic")
	errChecksum = errors.New("texfile: checksum mismatch")
	errTooMuch  = errors.New("texfile: trailing data")
)

type header struct {
	Magic    [4]byte
	Version  uint16
	Format   uint16
	Width    uint16
	Height   uint16
	Pitch    uint16
	Flags    uint16
	Checksum uint32
	Length   uint32
}

// File is a texture ready for upload.
type File struct {
	Width    int
	Height   int
	Pitch    int
	Swizzled bool
	Data     []byte
}

// New returns a File holding the swizzled texture t.
func New(t *cache.Texture) *File {
	return &File{
		Width:    t.Width,
		Height:   t.Height,
		Pitch:    t.Pitch,
		Swizzled: true,
		Data:     t.Data,
	}
}

// Texture returns the file contents as a cache.Texture.
func (f *File) Texture() (*cache.Texture, error) {
	if !f.Swizzled {
		return nil, errors.New("texfile: data is not swizzled")
	}
	return cache.NewTexture(f.Width, f.Height, f.Pitch, f.Data)
}

// MarshalBinary encodes the file into binary form and returns the result
func (f *File) MarshalBinary() ([]byte, error) {
	if f.Width > maxDimension || f.Height > maxDimension || f.Pitch > maxDimension {
		return nil, fmt.Errorf("texfile: %dx%d pitch %d exceeds %d", f.Width, f.Height, f.Pitch, maxDimension)
	}
	if len(f.Data) != f.Pitch*bytesPerPixel*f.Height {
		return nil, fmt.Errorf("texfile: have %d bytes, want %d", len(f.Data), f.Pitch*bytesPerPixel*f.Height)
	}

	h := header{
		Magic:    magic,
		Version:  version,
		Format:   formatRGBA,
		Width:    uint16(f.Width),
		Height:   uint16(f.Height),
		Pitch:    uint16(f.Pitch),
		Checksum: crc32.ChecksumIEEE(f.Data),
		Length:   uint32(len(f.Data)),
	}
	if f.Swizzled {
		h.Flags |= flagSwizzled
	}

	b := new(bytes.Buffer)
	b.Grow(headerSize + len(f.Data))
	if err := binary.Write(b, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if _, err := b.Write(f.Data); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the file from binary form
func (f *File) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	switch {
	case h.Magic != magic:
		return errMagic
	case h.Version != version:
		return fmt.Errorf("texfile: unsupported version %d", h.Version)
	case h.Format != formatRGBA:
		return fmt.Errorf("texfile: unsupported pixel format %d", h.Format)
	case int(h.Length) != int(h.Pitch)*bytesPerPixel*int(h.Height):
		return fmt.Errorf("texfile: length %d does not match %dx%d", h.Length, h.Pitch, h.Height)
	case r.Len() < int(h.Length):
		return io.ErrUnexpectedEOF
	case r.Len() > int(h.Length):
		return errTooMuch
	}

	data := b[headerSize:]
	if crc32.ChecksumIEEE(data) != h.Checksum {
		return errChecksum
	}

	f.Width = int(h.Width)
	f.Height = int(h.Height)
	f.Pitch = int(h.Pitch)
	f.Swizzled = h.Flags&flagSwizzled != 0
	f.Data = append([]byte(nil), data...)

	return nil
}
