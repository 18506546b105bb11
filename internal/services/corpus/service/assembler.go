package service

import (
	"strings"

	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/services/corpus/domain"
)

// DedupMode selects how TryAdd detects texts already in the corpus
type DedupMode string

const (
	// DedupIndex keeps a set of every text; O(1) per check
	DedupIndex DedupMode = "index"
	// DedupLinear compares against every entry; O(n) per check and O(n^2)
	// over a run, which stops scaling past a few hundred thousand entries
	DedupLinear DedupMode = "linear"
)

// ParseDedupMode accepts "index" or "linear"; empty selects index
func ParseDedupMode(s string) (DedupMode, error) {
	switch DedupMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DedupIndex:
		return DedupIndex, nil
	case DedupLinear:
		return DedupLinear, nil
	default:
		return "", perr.Configf("dedup mode %q: want index or linear", s)
	}
}

// Assembler owns the corpus while it grows. It accepts at most maxAdded new
// entries and never stores the same text twice
type Assembler struct {
	maxAdded int
	mode     DedupMode
	entries  []domain.CorpusEntry
	seen     map[string]struct{}
	seeded   int
	added    int
}

// NewAssembler returns an empty corpus capped at maxAdded new entries
func NewAssembler(maxAdded int, mode DedupMode) *Assembler {
	a := &Assembler{maxAdded: maxAdded, mode: mode}
	if mode != DedupLinear {
		a.mode = DedupIndex
		a.seen = make(map[string]struct{}, 1024)
	}
	return a
}

// Seed preloads a previous corpus. Seeded entries are emitted first, take
// part in deduplication and do not count against the cap
func (a *Assembler) Seed(entries []domain.CorpusEntry) {
	for _, e := range entries {
		a.entries = append(a.entries, e)
		if a.seen != nil {
			a.seen[e.Text] = struct{}{}
		}
		a.seeded++
	}
}

// Contains reports whether text is already in the corpus
func (a *Assembler) Contains(text string) bool {
	if a.mode == DedupIndex {
		_, ok := a.seen[text]
		return ok
	}
	for i := range a.entries {
		if a.entries[i].Text == text {
			return true
		}
	}
	return false
}

// TryAdd appends e unless the cap is reached or its text is already present
func (a *Assembler) TryAdd(e domain.CorpusEntry) bool {
	if a.Full() || a.Contains(e.Text) {
		return false
	}
	a.entries = append(a.entries, e)
	if a.seen != nil {
		a.seen[e.Text] = struct{}{}
	}
	a.added++
	return true
}

// Full reports whether the cap on new entries is reached
func (a *Assembler) Full() bool { return a.added >= a.maxAdded }

// Added returns the number of entries accepted by TryAdd
func (a *Assembler) Added() int { return a.added }

// Seeded returns the number of preloaded entries
func (a *Assembler) Seeded() int { return a.seeded }

// Len returns the corpus size including seeded entries
func (a *Assembler) Len() int { return len(a.entries) }

// Mode returns the dedup strategy in use
func (a *Assembler) Mode() DedupMode { return a.mode }

// Entries returns the corpus in insertion order. The slice is a copy
func (a *Assembler) Entries() []domain.CorpusEntry {
	return append([]domain.CorpusEntry(nil), a.entries...)
}
