package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Exists if exist a file or dir
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// SafeName replaces characters that are awkward in a path segment, eg. the port
// separator of a node id "host:45454" becomes "host_45454"
func SafeName(name string) string {
	return strings.NewReplacer(":", "_", string(os.PathSeparator), "_").Replace(name)
}

// EnsureDir make dir and parents with mode 0755
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Clean(dir), 0755)
}
