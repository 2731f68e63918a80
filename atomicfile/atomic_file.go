package atomicfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrCancelled is returned by calls subsequent to Cancel()
	ErrCancelled = errors.New("cancelled")

	_ io.WriteCloser = &File{}
)

// File collects writes in a temporary file and moves it to the
// destination on Close
type File struct {
	// if true, Close doesn't replace an existing destination file
	NoOverwrite bool

	dstPath string
	dir     string
	tmpFile *os.File
	tmpPath string
	err     error
}

// New creates new File
func New(path string) (*File, error) {
	dir, fName := filepath.Split(path)
	if fName == "" {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	tmpFile, err := os.CreateTemp(dir, fName+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{
		dstPath: path,
		dir:     dir,
		tmpFile: tmpFile,
		tmpPath: tmpFile.Name(),
	}, nil
}

// WriteNew atomically creates path with content d.
// Fails with an error matching os.ErrExist if path already exists.
func WriteNew(path string, d []byte) error {
	f, err := New(path)
	if err != nil {
		return err
	}
	f.NoOverwrite = true
	defer f.Cancel()
	if _, err = f.Write(d); err != nil {
		return err
	}
	return f.Close()
}

// remembers the first error and removes the temporary file
func (f *File) handleError(err error) error {
	if err == nil {
		return nil
	}
	if f.err == nil {
		f.err = err
	}
	_ = f.Close()
	return err
}

func (f *File) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.Write(d)
	return n, f.handleError(err)
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *File) closed() bool {
	return f.tmpFile == nil
}

// Cancel removes the temporary file if Close wasn't called yet.
// Destination file is not created. Meant to be used with defer.
// Cancel after Close is a no-op.
func (f *File) Cancel() {
	if f == nil || f.closed() {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

func (f *File) moveIntoPlace() error {
	if !f.NoOverwrite {
		return os.Rename(f.tmpPath, f.dstPath)
	}
	// unlike rename, link fails if destination exists
	err := os.Link(f.tmpPath, f.dstPath)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("atomicfile: '%s': %w", f.dstPath, os.ErrExist)
		}
		return err
	}
	return os.Remove(f.tmpPath)
}

// Close finishes writing and moves the file into place.
// Can be called multiple times, returns the first error.
func (f *File) Close() error {
	if f.closed() {
		return f.err
	}
	tmpFile := f.tmpFile
	f.tmpFile = nil

	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()

	moved := false
	defer func() {
		if !moved {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}
	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		err = f.moveIntoPlace()
		moved = err == nil
		// sync directory so that the new entry survives a crash
		if fdir, _ := os.Open(f.dir); fdir != nil {
			_ = fdir.Sync()
			_ = fdir.Close()
		}
	}
	f.err = err
	return err
}
