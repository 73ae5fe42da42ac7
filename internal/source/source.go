// Package source loads source files for parsing. On unix systems files are
// memory mapped read-only; elsewhere they are read into memory.
package source

import (
	"errors"
	"fmt"
	"os"
)

// ErrTooLarge is returned for files that do not fit the address space
var ErrTooLarge = errors.New("source file too large")

// File is a loaded source file. Bytes stays valid until Close.
type File struct {
	Name string
	data []byte
	// unmap releases a mapping; nil for heap-backed files.
	unmap func([]byte) error
}

// Bytes returns the file content. The slice must not be modified.
func (f *File) Bytes() []byte {
	return f.data
}

// Len returns the file size in bytes
func (f *File) Len() int {
	return len(f.data)
}

// Close releases the file content. It is safe to call Close twice.
func (f *File) Close() error {
	data, unmap := f.data, f.unmap
	f.data, f.unmap = nil, nil
	if unmap == nil || len(data) == 0 {
		return nil
	}
	if err := unmap(data); err != nil {
		return fmt.Errorf("failed to unmap %s: %w", f.Name, err)
	}
	return nil
}

// Open loads the named file
func Open(name string) (*File, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open source: %s is a directory", name)
	}
	size := info.Size()
	if size != int64(int(size)) {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}

	f := &File{Name: name}
	if size == 0 {
		return f, nil
	}
	if err := load(f, fd, int(size)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return f, nil
}

// FromBytes wraps an in-memory buffer, for sources that do not live on disk
func FromBytes(name string, data []byte) *File {
	return &File{Name: name, data: data}
}
