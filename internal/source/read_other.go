//go:build !unix

package source

import (
	"io"
	"os"
)

func load(f *File, fd *os.File, size int) error {
	buf := make([]byte, size)
	n, err := io.ReadFull(fd, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	f.data = buf[:n]
	return nil
}
