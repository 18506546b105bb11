package sprot

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	perr "corpusbuilder/internal/platform/errors"
)

// Source is an open dump file with a known size
type Source struct {
	f    *os.File
	size int64
}

// Open opens path for scanning. Compressed dumps must be expanded first since
// the scanner rewinds with ReadAt
func Open(path string) (*Source, error) {
	if strings.HasSuffix(path, ".gz") {
		return nil, perr.Configf("sprot: %s is compressed; decompress it before scanning", path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "sprot: open %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "sprot: open %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "sprot: stat %s", path)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, perr.Configf("sprot: %s is a directory", path)
	}
	return &Source{f: f, size: st.Size()}, nil
}

// ReadAt implements io.ReaderAt
func (s *Source) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

// Size returns the file size captured at open time
func (s *Source) Size() int64 { return s.size }

// Name returns the path the source was opened with
func (s *Source) Name() string { return s.f.Name() }

// Close closes the underlying file
func (s *Source) Close() error { return s.f.Close() }

// Scanner returns a scanner over the whole file
func (s *Source) Scanner(opts ...Option) *Scanner {
	return NewScanner(s, s.size, opts...)
}
