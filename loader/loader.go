/*
Package loader implements whole-file reads of texture sources.

A read is four distinct steps, each of which can fail on its own: the path is
stat'ed to learn its size, opened, read in full and closed. Failures are
reported once as an *IoError naming the step; no partial data is ever
returned and nothing is retried.
*/
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// Stage identifies the step of a read that failed.
type Stage int

// The steps of a read in the order they are performed.
const (
	StageStat Stage = iota
	StageOpen
	StageRead
	StageClose
)

func (s Stage) String() string {
	switch s {
	case StageStat:
		return "stat"
	case StageOpen:
		return "open"
	case StageRead:
		return "read"
	case StageClose:
		return "close"
	}
	return "unknown"
}

// IoError records a failed read. Size is the number of bytes requested, or -1
// if the failure happened before the size was known.
type IoError struct {
	Path  string
	Stage Stage
	Size  int64
	Err   error
}

func (e *IoError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("loader: %s %s: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("loader: %s %s (%d bytes): %v", e.Stage, e.Path, e.Size, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

var errNotRegular = errors.New("loader: not a regular file")

// FS reads files from a filesystem.
type FS struct {
	fsys hackpadfs.FS
}

// New returns an FS reading from fsys.
func New(fsys hackpadfs.FS) *FS {
	return &FS{fsys: fsys}
}

// Dir returns an FS reading from the operating system directory root.
func Dir(root string) *FS {
	return New(os.DirFS(root))
}

// Clean converts name into the unrooted, slash-separated form expected by
// the filesystem. Backslashes are treated as separators.
func Clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

// ReadFile returns the entire contents of the named file.
func (l *FS) ReadFile(name string) ([]byte, error) {
	p := Clean(name)
	if !fs.ValidPath(p) {
		return nil, &IoError{Path: name, Stage: StageStat, Size: -1, Err: fs.ErrInvalid}
	}

	info, err := hackpadfs.Stat(l.fsys, p)
	if err != nil {
		return nil, &IoError{Path: name, Stage: StageStat, Size: -1, Err: err}
	}
	if info.IsDir() {
		return nil, &IoError{Path: name, Stage: StageStat, Size: -1, Err: hackpadfs.ErrIsDir}
	}
	if !info.Mode().IsRegular() {
		return nil, &IoError{Path: name, Stage: StageStat, Size: -1, Err: errNotRegular}
	}
	size := info.Size()

	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, &IoError{Path: name, Stage: StageOpen, Size: size, Err: err}
	}

	b := make([]byte, size)
	if _, err := io.ReadFull(f, b); err != nil {
		f.Close()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &IoError{Path: name, Stage: StageRead, Size: size, Err: err}
	}

	if err := f.Close(); err != nil {
		return nil, &IoError{Path: name, Stage: StageClose, Size: size, Err: err}
	}

	return b, nil
}
