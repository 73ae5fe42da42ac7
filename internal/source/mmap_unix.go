//go:build unix

package source

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

func load(f *File, fd *os.File, size int) error {
	data, err := unix.Mmap(int(fd.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		// Some filesystems (procfs, certain FUSE mounts) refuse mappings.
		return readAll(f, fd, size)
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	f.data = data
	f.unmap = unix.Munmap
	return nil
}

func readAll(f *File, fd *os.File, size int) error {
	buf := make([]byte, size)
	n, err := io.ReadFull(fd, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	f.data = buf[:n]
	return nil
}
