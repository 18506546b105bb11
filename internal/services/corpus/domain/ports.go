package domain

import "context"

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Result, error)
}

// ProgressObserver receives scan progress and the final result
type ProgressObserver interface {
	OnProgress(p Progress)
	Done(r Result)
}

// Extractor pulls fields out of raw entries
type Extractor interface {
	Length(raw []byte) (int, error)
	Fields(raw []byte) Record
	Sentences(text string) []string
}

// Matcher decides whether a sentence is worth keeping
type Matcher interface {
	Match(s string) bool
}

// CorpusStore persists and reloads corpora
type CorpusStore interface {
	Write(path string, entries []CorpusEntry) (int, error)
	Read(path string) ([]CorpusEntry, error)
}
