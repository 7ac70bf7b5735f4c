package logs

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/flock"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/fs"
)

// Reporter owns the output and error streams of one invocation.
// Writes are serialized so that lines of concurrent sections never interleave.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	outputDir string
}

// NewReporter outputDir, when set, receives container contents instead of out
func NewReporter(out, errOut io.Writer, outputDir string) *Reporter {
	return &Reporter{out: out, errOut: errOut, outputDir: outputDir}
}

// Section return a section writing straight through to the streams
func (r *Reporter) Section() *Section {
	return &Section{r: r}
}

// BufferedSection return a section holding its output until Flush
func (r *Reporter) BufferedSection() *Section {
	return &Section{r: r, buffered: true}
}

func (r *Reporter) write(w io.Writer, p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return w.Write(p)
}

// Section groups the output of one container, or of one top level step
type Section struct {
	r        *Reporter
	buffered bool

	mu     sync.Mutex
	out    bytes.Buffer
	errOut bytes.Buffer
}

type sectionWriter struct {
	s     *Section
	isErr bool
}

func (w sectionWriter) Write(p []byte) (int, error) {
	s := w.s
	if !s.buffered {
		if w.isErr {
			return s.r.write(s.r.errOut, p)
		}
		return s.r.write(s.r.out, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.isErr {
		return s.errOut.Write(p)
	}
	return s.out.Write(p)
}

// Writer is the output stream of the section
func (s *Section) Writer() io.Writer {
	return sectionWriter{s: s}
}

// Outf write one line to the output stream
func (s *Section) Outf(format string, args ...interface{}) {
	_, _ = s.Writer().Write([]byte(fmt.Sprintf(format, args...) + "\n"))
}

// Errf write one line to the error stream
func (s *Section) Errf(format string, args ...interface{}) {
	_, _ = sectionWriter{s: s, isErr: true}.Write([]byte(fmt.Sprintf(format, args...) + "\n"))
}

// Flush move buffered output to the reporter streams, output first
func (s *Section) Flush() error {
	if !s.buffered {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if _, err := s.out.WriteTo(s.r.out); err != nil {
		return err
	}
	_, err := s.errOut.WriteTo(s.r.errOut)
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// ContainerWriter return where the contents of one container go: the section output stream,
// or <outputDir>/<node>/<container> opened for append and locked until Close
func (s *Section) ContainerWriter(nodeID, containerID string) (io.WriteCloser, error) {
	if s.r.outputDir == "" {
		return nopCloser{s.Writer()}, nil
	}
	dir := filepath.Join(s.r.outputDir, fs.SafeName(nodeID))
	if nodeID == "" {
		dir = s.r.outputDir
	}
	if err := fs.EnsureDir(dir); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", dir)
	}
	file := filepath.Join(dir, containerID)
	f, err := flock.OpenAppend(file, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open output file %s", file)
	}
	alog.V(3).Infof("writing logs of %s to %s", containerID, file)
	return f, nil
}
