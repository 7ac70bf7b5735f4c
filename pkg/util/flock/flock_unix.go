//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly
// +build linux darwin freebsd openbsd netbsd dragonfly

package flock

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is an open file holding an exclusive advisory lock
type File struct {
	*os.File
}

// OpenAppend opens file for appending and blocks until an exclusive lock is held
func OpenAppend(file string, perm os.FileMode) (*File, error) {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
	if err != nil {
		return nil, err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{File: f}, nil
}

// TryAcquire takes the lock without blocking, unix.EWOULDBLOCK when already held
func TryAcquire(file string) (*File, error) {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{File: f}, nil
}

// Close releases the lock and closes the file
func (f *File) Close() error {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return f.File.Close()
}
