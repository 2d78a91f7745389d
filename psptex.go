/*
Package psptex is a library for loading textures for the PSP graphics engine
(GE).

A Server turns a source path into a swizzled RGBA8888 texture the GE can
sample natively: the file is read, decoded, padded to a pitch that is a
multiple of 8 pixels and rearranged into 16 byte by 8 row blocks. The result
is cached under the file's base name and shared through reference-counted
handles, so repeated requests for the same asset are free. Entries nobody
references are dropped by Sweep, which the frame loop calls once after each
frame has been drawn.

A Server is not safe for concurrent use.
*/
package psptex

import (
	"io/ioutil"
	"log"
	"strings"

	"github.com/bodgit/psptex/cache"
	"github.com/bodgit/psptex/loader"
)

// Source provides the encoded bytes of a named file. *loader.FS and *PackDB
// are Sources.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

type config struct {
	cache []cache.Option
}

// Option configures a Server.
type Option func(*config)

// WithWeakRetention sets whether weak handles, such as those held by a
// Material, keep a texture from being swept. It defaults to true.
func WithWeakRetention(retain bool) Option {
	return func(c *config) {
		c.cache = append(c.cache, cache.RetainWeak(retain))
	}
}

// Server loads textures on demand and caches them.
type Server struct {
	source Source
	cache  *cache.Cache
	logger *log.Logger
}

// New returns a Server reading from source. A nil logger discards output.
func New(source Source, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}

	return &Server{
		source: source,
		cache:  cache.New(c.cache...),
		logger: logger,
	}
}

// NewDir returns a Server reading files below the directory root.
func NewDir(root string, logger *log.Logger, opts ...Option) *Server {
	return New(loader.Dir(root), logger, opts...)
}

// Key returns the cache key for path, which is its final element. Both '/'
// and '\' separate elements, so "ms0:/psp/game/brick.png" and
// "assets\brick.png" share the key "brick.png".
func Key(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Get returns a new strong handle to the texture cached under the key of
// name, without loading anything.
func (s *Server) Get(name string) (*cache.Handle, bool) {
	return s.cache.Get(Key(name))
}

// ReferenceCounts returns the strong and weak reference counts of the
// texture cached under the key of name.
func (s *Server) ReferenceCounts(name string) (int, int, bool) {
	return s.cache.ReferenceCounts(Key(name))
}

// Sweep evicts every cached texture with no strong handles, and no weak
// handles unless weak retention is disabled, and returns the evicted keys.
// It must be called once per frame after the GE has finished drawing.
func (s *Server) Sweep() []string {
	evicted := s.cache.Sweep()
	for _, name := range evicted {
		s.logger.Printf("Evicted \"%s\"\n", name)
	}
	return evicted
}

// Size returns the number of cached textures.
func (s *Server) Size() int {
	return s.cache.Len()
}

// Bytes returns the total size of all cached texture data.
func (s *Server) Bytes() int {
	return s.cache.Bytes()
}

// Names returns the keys of all cached textures in sorted order.
func (s *Server) Names() []string {
	return s.cache.Names()
}
