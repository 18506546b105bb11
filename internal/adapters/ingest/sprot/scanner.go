package sprot

import (
	"bytes"
	"context"
	"errors"
	"io"

	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/logger"
)

const (
	// DefaultBufferSize matches the 10e6 byte window the corpus has always been built with
	DefaultBufferSize = 10_000_000
	// DefaultStartTag opens an entry; the trailing space skips <entry> lookalikes such as <entryName>
	DefaultStartTag = "<entry "
	// DefaultEndTag closes an entry
	DefaultEndTag = "</entry>"
)

var (
	// ErrStop may be returned by an emit callback to end the scan without error
	ErrStop = errors.New("sprot: stop")

	// ErrBufferTooSmall means a single entry does not fit in the read buffer
	ErrBufferTooSmall = perr.New(perr.ErrorCodeConfig, "sprot: entry larger than read buffer")

	// ErrTruncatedEntry means the source ends inside an entry
	ErrTruncatedEntry = perr.New(perr.ErrorCodeMalformed, "sprot: source ends inside an entry")
)

// RawEntry is one complete entry record.
// Data aliases the scanner buffer and must be copied to outlive the callback
type RawEntry struct {
	Data  []byte
	Begin int64 // absolute offset of the start tag
	End   int64 // absolute offset just past the end tag
}

// Stats counts the work done by one scan
type Stats struct {
	Reads     int
	Entries   int
	BytesRead int64
}

// Option configures a Scanner
type Option func(*Scanner)

// WithBufferSize sets the read buffer size in bytes
func WithBufferSize(n int) Option {
	return func(s *Scanner) { s.bufSize = n }
}

// WithTags overrides the entry start and end tags
func WithTags(start, end string) Option {
	return func(s *Scanner) {
		s.start = []byte(start)
		s.end = []byte(end)
	}
}

// WithProgress registers fn, called once per buffer refill with the read offset
func WithProgress(fn func(offset, size int64)) Option {
	return func(s *Scanner) { s.progress = fn }
}

// Scanner walks a source once, emitting each entry in file order
type Scanner struct {
	src      io.ReaderAt
	size     int64
	bufSize  int
	start    []byte
	end      []byte
	progress func(offset, size int64)

	stats Stats
	used  bool
}

// NewScanner returns a scanner over the first size bytes of src
func NewScanner(src io.ReaderAt, size int64, opts ...Option) *Scanner {
	s := &Scanner{
		src:     src,
		size:    size,
		bufSize: DefaultBufferSize,
		start:   []byte(DefaultStartTag),
		end:     []byte(DefaultEndTag),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stats returns counters for the scan so far
func (s *Scanner) Stats() Stats { return s.stats }

// BufferSize returns the configured read buffer size
func (s *Scanner) BufferSize() int { return s.bufSize }

func (s *Scanner) validate() error {
	if len(s.start) == 0 || len(s.end) == 0 {
		return perr.Configf("sprot: start and end tags are required")
	}
	if s.bufSize < len(s.start)+len(s.end) {
		return perr.Wrapf(ErrBufferTooSmall, perr.ErrorCodeConfig,
			"buffer of %d bytes cannot hold an empty entry", s.bufSize)
	}
	if s.size < 0 {
		return perr.InvalidArgf("sprot: negative source size %d", s.size)
	}
	return nil
}

// Each calls emit for every entry in the source, in order, exactly once.
// The scan stops early when emit returns ErrStop (Each returns nil), when emit
// returns any other error (returned as is), or when ctx is done (ctx.Err()).
// A Scanner can only be walked once
func (s *Scanner) Each(ctx context.Context, emit func(RawEntry) error) error {
	if s.used {
		return perr.Internalf("sprot: scanner already used")
	}
	s.used = true
	if err := s.validate(); err != nil {
		return err
	}

	log := logger.Named("sprot")
	buf := make([]byte, s.bufSize)
	keep := len(s.start) - 1

	var offset int64
	for offset < s.size {
		if err := ctx.Err(); err != nil {
			return err
		}

		want := buf
		if rest := s.size - offset; rest < int64(len(buf)) {
			want = buf[:rest]
		}
		n, err := s.src.ReadAt(want, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return perr.Wrapf(err, perr.ErrorCodeIO, "sprot: read at %d", offset)
		}
		if n < len(want) {
			return perr.Wrapf(io.ErrUnexpectedEOF, perr.ErrorCodeIO,
				"sprot: short read at %d (%d of %d bytes)", offset, n, len(want))
		}

		s.stats.Reads++
		s.stats.BytesRead += int64(n)
		if s.progress != nil {
			s.progress(offset, s.size)
		}

		base := offset
		data := want[:n]
		eof := base+int64(n) >= s.size
		log.Debug().Int64("offset", base).Int("bytes", n).Bool("eof", eof).Msg("buffer filled")

		next, err := s.window(ctx, data, base, eof, keep, emit)
		if err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		offset = next
	}
	return nil
}

// window emits every complete entry in data and returns the offset of the next read
func (s *Scanner) window(
	ctx context.Context,
	data []byte,
	base int64,
	eof bool,
	keep int,
	emit func(RawEntry) error,
) (int64, error) {
	pos := 0
	found := 0
	for {
		i := bytes.Index(data[pos:], s.start)
		if i < 0 {
			if eof {
				return base + int64(len(data)), nil
			}
			// a start tag may straddle the boundary
			return base + int64(max(pos, len(data)-keep)), nil
		}
		begin := pos + i

		j := bytes.Index(data[begin+len(s.start):], s.end)
		if j < 0 {
			switch {
			case eof:
				return 0, perr.Wrapf(ErrTruncatedEntry, perr.ErrorCodeMalformed,
					"entry at offset %d has no %q", base+int64(begin), s.end)
			case found == 0 && begin == 0:
				return 0, perr.Wrapf(ErrBufferTooSmall, perr.ErrorCodeConfig,
					"entry at offset %d exceeds %d byte buffer", base, len(data))
			default:
				// rewind to the open entry and refill
				return base + int64(begin), nil
			}
		}
		stop := begin + len(s.start) + j + len(s.end)

		found++
		s.stats.Entries++
		if err := emit(RawEntry{Data: data[begin:stop], Begin: base + int64(begin), End: base + int64(stop)}); err != nil {
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		pos = stop
	}
}
