// Package domain holds the corpus data model and the ports the corpus service depends on
package domain

import (
	"corpusbuilder/internal/adapters/ingest/extract"
	"corpusbuilder/internal/adapters/ingest/sprot"
)

// Meta keys and values written for every extracted sentence
const (
	KeySource = "source"
	KeyID     = "ID"
	KeyType   = "type"

	SourceUniprot = "Uniprot"

	TypeComment = "comment"
	TypeArticle = "article"
)

// RawEntry re-exports the scanner record shape
type RawEntry = sprot.RawEntry

// Record re-exports the extracted fields of one entry
type Record = extract.Record

// CorpusEntry is one labeled sentence
type CorpusEntry struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// NewEntry returns an entry for text with a private copy of base plus typ
func NewEntry(text string, base Meta, typ string) CorpusEntry {
	m := base.Clone()
	m.Set(KeyType, typ)
	return CorpusEntry{Text: text, Meta: m}
}

// BaseMeta is the meta shared by every sentence of one entry.
// The ID key is left out when the entry has no accession
func BaseMeta(id string) Meta {
	m := NewMeta(KeySource, SourceUniprot)
	if id != "" {
		m.Set(KeyID, id)
	}
	return m
}

// Progress is reported once per scanner refill
type Progress struct {
	Offset     int64
	Size       int64
	BufferSize int
	Entries    int // entries read
	Used       int // sentences added to the corpus
	Seen       int // candidate sentences examined
}

// Percent returns the share of the source read so far
func (p Progress) Percent() float64 {
	if p.Size <= 0 {
		return 100
	}
	return float64(p.Offset) / float64(p.Size) * 100
}

// Result summarizes one run
type Result struct {
	Added       int
	Seeded      int
	Entries     int
	Seen        int
	Written     int
	Interrupted bool
	CapReached  bool
	Output      string
}
