package service

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/services/corpus/domain"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes bounds one JSONL line when reading a seed corpus
const maxLineBytes = 16 << 20

// JSONLStore reads and writes corpora as JSON Lines, gzip compressed when the
// path ends in .gz
type JSONLStore struct{}

// Write implements domain.CorpusStore
func (JSONLStore) Write(path string, entries []domain.CorpusEntry) (int, error) {
	return WriteCorpus(path, entries)
}

// Read implements domain.CorpusStore
func (JSONLStore) Read(path string) ([]domain.CorpusEntry, error) {
	return ReadCorpus(path)
}

// WriteCorpus writes one compact {"text","meta"} object per line. The file is
// written to path.part and renamed over path once complete
func WriteCorpus(path string, entries []domain.CorpusEntry) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: mkdir %s", dir)
		}
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: create %s", tmp)
	}

	n, werr := encodeTo(f, path, entries)
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = perr.Wrapf(cerr, perr.ErrorCodeIO, "corpus: close %s", tmp)
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return 0, werr
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: rename %s", tmp)
	}
	return n, nil
}

func encodeTo(f *os.File, path string, entries []domain.CorpusEntry) (int, error) {
	var w io.Writer = f
	var gz *gzip.Writer
	if isGzip(path) {
		gz = gzip.NewWriter(f)
		w = gz
	}
	bw := bufio.NewWriterSize(w, 64<<10)

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	n := 0
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return n, perr.Wrapf(err, perr.ErrorCodeJSON, "corpus: encode entry %d", i)
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: write %s", path)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return n, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: gzip %s", path)
		}
	}
	return n, nil
}

// ReadCorpus loads a corpus written by WriteCorpus. Blank lines are skipped;
// any other undecodable line fails the read
func ReadCorpus(path string) ([]domain.CorpusEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "corpus: open %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if isGzip(path) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "corpus: gzip %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLineBytes)

	var out []domain.CorpusEntry
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var e domain.CorpusEntry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "corpus: %s line %d", path, line)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "corpus: read %s", path)
	}
	return out, nil
}

func isGzip(path string) bool { return strings.HasSuffix(strings.ToLower(path), ".gz") }
