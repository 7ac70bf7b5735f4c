package archive

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/colinmarc/hdfs/v2"
	"github.com/pkg/errors"
)

// FileSystem is the read only view of an archive directory tree
type FileSystem interface {
	ReadDir(dir string) ([]os.FileInfo, error)
	Open(name string) (io.ReadSeekCloser, error)
}

// LocalFS reads the archive from a local or mounted directory
type LocalFS struct{}

// ReadDir .
func (LocalFS) ReadDir(dir string) ([]os.FileInfo, error) {
	return ioutil.ReadDir(dir)
}

// Open .
func (LocalFS) Open(name string) (io.ReadSeekCloser, error) {
	return os.Open(name)
}

// HDFS reads the archive from hdfs
type HDFS struct {
	client *hdfs.Client
}

// NewHDFS connect to the namenode at address acting as user
func NewHDFS(address, user string) (*HDFS, error) {
	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: []string{address},
		User:      user,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to namenode %s", address)
	}
	return &HDFS{client: client}, nil
}

// ReadDir .
func (h *HDFS) ReadDir(dir string) ([]os.FileInfo, error) {
	return h.client.ReadDir(dir)
}

// Open .
func (h *HDFS) Open(name string) (io.ReadSeekCloser, error) {
	return h.client.Open(name)
}

// Close .
func (h *HDFS) Close() error {
	return h.client.Close()
}
