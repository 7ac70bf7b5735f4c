package archive

import (
	"io"

	"github.com/pkg/errors"
)

// copyLimited copy r of size bytes to w, a positive limit keeps the leading bytes
// and a negative one the trailing bytes
func copyLimited(w io.Writer, r io.ReadSeeker, size int64, limit *int64) (int64, error) {
	if limit == nil {
		return io.Copy(w, r)
	}
	n := *limit
	if n >= 0 {
		return io.CopyN(w, r, minInt64(n, size))
	}
	if skip := size + n; skip > 0 {
		if _, err := r.Seek(skip, io.SeekStart); err != nil {
			return 0, errors.Wrap(err, "seek")
		}
	}
	return io.Copy(w, r)
}

// limitBytes apply the same limit to an in-memory log
func limitBytes(b []byte, limit *int64) []byte {
	if limit == nil {
		return b
	}
	n := *limit
	size := int64(len(b))
	if n >= 0 {
		return b[:minInt64(n, size)]
	}
	if skip := size + n; skip > 0 {
		return b[skip:]
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
