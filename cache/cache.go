/*
Package cache implements a name-keyed store of swizzled textures with shared
and weak handles.

Every entry counts its outstanding strong handles and weak observers. Nothing
is freed when a count drops to zero; entries are only ever removed by Sweep,
which the frame driver calls once per frame after the GE has finished with
the frame's draw lists. That keeps a texture resident for as long as any draw
call of the current frame can still read from it.

A Cache is not safe for concurrent use. It is meant to be driven from the
single goroutine that also runs the frame loop.
*/
package cache

import (
	"errors"
	"fmt"
	"sort"
)

const blockWidth = 8

var errNilTexture = errors.New("cache: nil texture")

// Texture is a decoded texture in swizzled order. Width and Height are the
// logical size in pixels; Pitch is the padded row length in pixels.
type Texture struct {
	Width  int
	Height int
	Pitch  int
	Data   []byte
}

// LayoutError is returned by NewTexture when the dimensions, pitch and data
// length do not describe a valid texture.
type LayoutError struct {
	Width, Height, Pitch int
	Len                  int
}

func (e *LayoutError) Error() string {
	switch {
	case e.Width < 0 || e.Height < 0:
		return fmt.Sprintf("cache: invalid dimensions %dx%d", e.Width, e.Height)
	case e.Pitch < e.Width || e.Pitch%blockWidth != 0:
		return fmt.Sprintf("cache: invalid pitch %d for width %d", e.Pitch, e.Width)
	}
	return fmt.Sprintf("cache: have %d bytes, want %d", e.Len, e.Pitch*4*e.Height)
}

// NewTexture returns a Texture after checking that data holds exactly
// pitch*4*height bytes and that pitch is a whole number of blocks no
// narrower than width. Otherwise it returns a *LayoutError.
func NewTexture(width, height, pitch int, data []byte) (*Texture, error) {
	if width < 0 || height < 0 || pitch < width || pitch%blockWidth != 0 || len(data) != pitch*4*height {
		return nil, &LayoutError{Width: width, Height: height, Pitch: pitch, Len: len(data)}
	}
	return &Texture{Width: width, Height: height, Pitch: pitch, Data: data}, nil
}

// Size returns the number of bytes held by the texture.
func (t *Texture) Size() int {
	return len(t.Data)
}

type entry struct {
	name   string
	tex    *Texture
	strong int
	weak   int
	live   bool
}

// Option configures a Cache.
type Option func(*Cache)

// RetainWeak sets whether weak observers keep an entry from being swept. It
// defaults to true; with false an entry is swept as soon as it has no strong
// handles and its observers fail to upgrade from then on.
func RetainWeak(retain bool) Option {
	return func(c *Cache) {
		c.retainWeak = retain
	}
}

// Cache holds at most one entry per name.
type Cache struct {
	entries    map[string]*entry
	retainWeak bool
}

// New returns an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		retainWeak: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Insert stores t under name and returns a strong handle to it. If name is
// already present the existing entry wins, t is discarded and a new handle
// to the existing entry is returned.
func (c *Cache) Insert(name string, t *Texture) (*Handle, error) {
	if e, ok := c.entries[name]; ok {
		return e.acquire(), nil
	}
	if t == nil {
		return nil, errNilTexture
	}

	e := &entry{name: name, tex: t, live: true}
	c.entries[name] = e

	return e.acquire(), nil
}

// Get returns a new strong handle to the entry stored under name.
func (c *Cache) Get(name string) (*Handle, bool) {
	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return e.acquire(), true
}

// Contains reports whether name is present without taking a handle.
func (c *Cache) Contains(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// ReferenceCounts returns the strong and weak counts of the entry stored
// under name.
func (c *Cache) ReferenceCounts(name string) (int, int, bool) {
	e, ok := c.entries[name]
	if !ok {
		return 0, 0, false
	}
	return e.strong, e.weak, true
}

func (c *Cache) unused(e *entry) bool {
	if e.strong > 0 {
		return false
	}
	return e.weak == 0 || !c.retainWeak
}

// Sweep removes every unused entry and returns the removed names in sorted
// order.
func (c *Cache) Sweep() []string {
	var evicted []string
	for name, e := range c.entries {
		if !c.unused(e) {
			continue
		}
		e.live = false
		e.tex = nil
		delete(c.entries, name)
		evicted = append(evicted, name)
	}
	sort.Strings(evicted)
	return evicted
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Bytes returns the total texture bytes held by all entries.
func (c *Cache) Bytes() int {
	var n int
	for _, e := range c.entries {
		n += e.tex.Size()
	}
	return n
}

// Names returns the names of all entries in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
