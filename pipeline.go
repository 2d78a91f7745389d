package psptex

import (
	"fmt"

	"github.com/bodgit/psptex/cache"
	"github.com/bodgit/psptex/decode"
	"github.com/bodgit/psptex/pad"
	"github.com/bodgit/psptex/tile"
)

// Stage identifies the step of the texture pipeline that failed.
type Stage int

// Pipeline stages in the order they run.
const (
	StageLoad Stage = iota
	StageDecode
	StagePad
	StageTile
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageDecode:
		return "decode"
	case StagePad:
		return "pad"
	case StageTile:
		return "tile"
	}
	return "unknown"
}

// PipelineError is returned by Add when any stage fails. Err is the stage's
// own error: a *loader.IoError, *decode.Error, *pad.AllocationError or
// *tile.DimensionError. The swizzled result is checked once more before it is
// cached; a *cache.LayoutError from that check is also reported as StageTile
// and means a stage produced a buffer of the wrong shape.
type PipelineError struct {
	Name  string
	Path  string
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("psptex: %s \"%s\": %v", e.Stage, e.Path, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Build decodes the encoded image b and returns it padded and swizzled.
// Errors are *PipelineError with empty Name and Path.
func Build(b []byte) (*cache.Texture, error) {
	width, height, pix, err := decode.Decode(b)
	if err != nil {
		return nil, &PipelineError{Stage: StageDecode, Err: err}
	}

	pitch, padded, err := pad.Pad(width, height, pix)
	if err != nil {
		return nil, &PipelineError{Stage: StagePad, Err: err}
	}

	swizzled, err := tile.Encode(pitch, height, padded)
	if err != nil {
		return nil, &PipelineError{Stage: StageTile, Err: err}
	}

	t, err := cache.NewTexture(width, height, pitch, swizzled)
	if err != nil {
		return nil, &PipelineError{Stage: StageTile, Err: err}
	}

	return t, nil
}

func load(name, path string, src Source) (*cache.Texture, error) {
	b, err := src.ReadFile(path)
	if err != nil {
		return nil, &PipelineError{Name: name, Path: path, Stage: StageLoad, Err: err}
	}

	t, err := Build(b)
	if err != nil {
		if pe, ok := err.(*PipelineError); ok {
			pe.Name, pe.Path = name, path
		}
		return nil, err
	}

	return t, nil
}

// Add returns a strong handle to the texture at path, loading it from the
// Server's source if its key is not cached yet.
func (s *Server) Add(path string) (*cache.Handle, error) {
	return s.AddFrom(path, s.source)
}

// AddFrom is like Add but loads from src on a miss. When the key of path is
// already cached src is never read, even if path names a different file with
// the same base name. On failure nothing is cached.
func (s *Server) AddFrom(path string, src Source) (*cache.Handle, error) {
	name := Key(path)
	if h, ok := s.cache.Get(name); ok {
		return h, nil
	}

	t, err := load(name, path, src)
	if err != nil {
		s.logger.Printf("Unable to load \"%s\": %v\n", path, err)
		return nil, err
	}
	s.logger.Printf("Loaded \"%s\" as \"%s\", %dx%d pitch %d\n", path, name, t.Width, t.Height, t.Pitch)

	return s.cache.Insert(name, t)
}
