// Package service builds a labeled sentence corpus from a UniProt XML dump
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"corpusbuilder/internal/adapters/ingest/extract"
	"corpusbuilder/internal/adapters/ingest/sprot"
	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/logger"
	"corpusbuilder/internal/services/corpus/domain"
)

// Config holds the run settings for one corpus build
type Config struct {
	Source     string    // UniProt XML path
	Output     string    // JSONL output path
	Seed       string    // optional corpus to extend
	MaxAdded   int       // cap on newly added entries
	MaxLength  int       // entries with a sequence this long or longer are skipped
	BufferSize int       // scanner read buffer in bytes
	StartTag   string    // entry start tag
	EndTag     string    // entry end tag
	Dedup      DedupMode // dedup strategy
}

// EntrySource is an opened dump the scanner can read
type EntrySource interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// OpenFunc opens the dump at path
type OpenFunc func(path string) (EntrySource, error)

// OpenFile opens a dump from disk
func OpenFile(path string) (EntrySource, error) {
	src, err := sprot.Open(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Service implements domain.RunnerPort
type Service struct {
	Cfg      Config
	Extract  domain.Extractor
	Match    domain.Matcher
	Store    domain.CorpusStore
	Progress domain.ProgressObserver
	Open     OpenFunc
}

// New constructs the corpus service
func New(
	cfg Config,
	ex domain.Extractor,
	m domain.Matcher,
	store domain.CorpusStore,
	progress domain.ProgressObserver,
) *Service {
	if ex == nil {
		panic("corpus.Service requires a non nil Extractor")
	}
	if m == nil {
		panic("corpus.Service requires a non nil Matcher")
	}
	if store == nil {
		store = JSONLStore{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = sprot.DefaultBufferSize
	}
	if cfg.StartTag == "" || cfg.EndTag == "" {
		cfg.StartTag, cfg.EndTag = sprot.DefaultStartTag, sprot.DefaultEndTag
	}
	return &Service{
		Cfg:      cfg,
		Extract:  ex,
		Match:    m,
		Store:    store,
		Progress: progress,
		Open:     OpenFile,
	}
}

// counters shared between the scan callback and progress reports
type runStats struct {
	entries  int
	eligible int
	seen     int
}

// Run scans the source once, fills the corpus and writes it to Cfg.Output.
// Cancelling ctx stops the scan; the partial corpus is still written and the
// result is marked Interrupted
func (s *Service) Run(ctx context.Context) (domain.Result, error) {
	ctx = logger.WithRun(ctx, "", s.Cfg.Source)
	log := logger.C(ctx)
	started := time.Now()

	res := domain.Result{Output: s.Cfg.Output}

	asm := NewAssembler(s.Cfg.MaxAdded, s.Cfg.Dedup)
	if s.Cfg.Seed != "" {
		seed, err := s.Store.Read(s.Cfg.Seed)
		if err != nil {
			return res, perr.WithOp(err, "corpus.seed")
		}
		asm.Seed(seed)
		log.Info().Str("seed", s.Cfg.Seed).Int("entries", asm.Seeded()).Msg("corpus seeded")
	}
	res.Seeded = asm.Seeded()

	src, err := s.Open(s.Cfg.Source)
	if err != nil {
		return res, perr.WithOp(err, "corpus.open")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close source")
		}
	}()

	var st runStats
	sc := sprot.NewScanner(src, src.Size(),
		sprot.WithBufferSize(s.Cfg.BufferSize),
		sprot.WithTags(s.Cfg.StartTag, s.Cfg.EndTag),
		sprot.WithProgress(func(offset, size int64) {
			s.Progress.OnProgress(domain.Progress{
				Offset:     offset,
				Size:       size,
				BufferSize: s.Cfg.BufferSize,
				Entries:    st.entries,
				Used:       asm.Added(),
				Seen:       st.seen,
			})
		}),
	)

	log.Info().
		Int64("size", src.Size()).
		Int("buffer", s.Cfg.BufferSize).
		Int("max_added", s.Cfg.MaxAdded).
		Int("max_length", s.Cfg.MaxLength).
		Str("dedup", string(asm.Mode())).
		Msg("scan started")

	err = sc.Each(ctx, func(e domain.RawEntry) error {
		st.entries++
		if err := s.consume(e, asm, &st); err != nil {
			return err
		}
		if asm.Full() {
			res.CapReached = true
			return sprot.ErrStop
		}
		return nil
	})
	if asm.Full() {
		res.CapReached = true
	}

	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		res.Interrupted = true
		log.Warn().Err(err).Int("entries", st.entries).Msg("scan interrupted, writing partial corpus")
	default:
		return res, perr.WithOp(err, "corpus.scan")
	}

	res.Added = asm.Added()
	res.Entries = st.entries
	res.Seen = st.seen

	n, err := s.Store.Write(s.Cfg.Output, asm.Entries())
	if err != nil {
		return res, perr.WithOp(err, "corpus.write")
	}
	res.Written = n

	s.Progress.Done(res)
	log.Info().
		Int("added", res.Added).
		Int("seeded", res.Seeded).
		Int("written", res.Written).
		Int("entries", res.Entries).
		Int("eligible", st.eligible).
		Int("seen", res.Seen).
		Bool("cap_reached", res.CapReached).
		Bool("interrupted", res.Interrupted).
		Dur("elapsed", time.Since(started)).
		Str("output", res.Output).
		Msgf("%d entries added to corpus", res.Added)

	return res, nil
}

// consume applies the length filter to one entry and offers its comment
// sentences, then its title sentences, to the assembler
func (s *Service) consume(e domain.RawEntry, asm *Assembler, st *runStats) error {
	n, err := s.Extract.Length(e.Data)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeMalformed, "entry at offset %d", e.Begin)
	}
	if n != extract.NoLength && n >= s.Cfg.MaxLength {
		return nil
	}
	st.eligible++

	rec := s.Extract.Fields(e.Data)
	base := domain.BaseMeta(rec.ID)

	s.offer(asm, st, rec.Comments, base, domain.TypeComment)
	s.offer(asm, st, rec.Titles, base, domain.TypeArticle)
	return nil
}

func (s *Service) offer(asm *Assembler, st *runStats, blocks []string, base domain.Meta, typ string) {
	if asm.Full() {
		return
	}
	for _, block := range blocks {
		for _, sentence := range s.Extract.Sentences(block) {
			st.seen++
			if !s.Match.Match(sentence) {
				continue
			}
			if !asm.TryAdd(domain.NewEntry(sentence, base, typ)) && asm.Full() {
				return
			}
		}
	}
}
