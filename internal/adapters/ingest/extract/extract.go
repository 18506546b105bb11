// Package extract pulls the corpus fields out of one raw entry record: the
// sequence length, the accession ID, comment texts and reference titles
package extract

import (
	"bytes"
	"strconv"
	"strings"

	"corpusbuilder/internal/core/rulepack"
	perr "corpusbuilder/internal/platform/errors"
)

// NoLength is returned by Length when no sequence length is present.
// It is below every positive limit, so such entries are never filtered out
const NoLength = -1

// ErrMalformedLength means a length attribute holds something other than an integer
var ErrMalformedLength = perr.New(perr.ErrorCodeMalformed, "extract: length attribute is not an integer")

// Cleaner is a small seam for optional text cleanup
type Cleaner interface {
	Clean(string) string
}

// Record is what one entry contributes to the corpus
type Record struct {
	ID       string // first accession, "" when the entry has none
	Comments []string
	Titles   []string
}

// Option configures an Extractor
type Option func(*Extractor)

// WithCleaner runs c over every comment and title block before splitting
func WithCleaner(c Cleaner) Option {
	return func(x *Extractor) { x.clean = c }
}

// Extractor applies a rule pack to raw entries
type Extractor struct {
	p     *rulepack.Pack
	clean Cleaner
}

// New returns an Extractor using p's patterns
func New(p *rulepack.Pack, opts ...Option) *Extractor {
	x := &Extractor{p: p}
	for _, o := range opts {
		o(x)
	}
	return x
}

// Fields extracts the accession, comment texts and titles of raw
func (x *Extractor) Fields(raw []byte) Record {
	var r Record
	if m := x.p.Accession.FindSubmatch(raw); m != nil {
		r.ID = strings.TrimSpace(string(m[1]))
	}
	r.Comments = x.all(x.p.CommentText.FindAllSubmatch(raw, -1))
	r.Titles = x.all(x.p.ArticleTitle.FindAllSubmatch(raw, -1))
	return r
}

func (x *Extractor) all(ms [][][]byte) []string {
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		s := string(m[1])
		if x.clean != nil {
			s = x.clean.Clean(s)
		}
		out = append(out, s)
	}
	return out
}

// Length returns the sequence length of raw using the pack's tag and attribute names
func (x *Extractor) Length(raw []byte) (int, error) {
	return lengthOf(raw, x.p.SequenceTag, x.p.LengthAttr)
}

// Sentences splits text on the pack's sentence separator
func (x *Extractor) Sentences(text string) []string {
	return split(text, x.p.SentenceSep)
}

var (
	sequenceTag = []byte("<sequence")
	lengthAttr  = []byte("length=")
)

// Length returns the length attribute of the first <sequence> tag that carries
// one, or NoLength when no such tag exists
func Length(raw []byte) (int, error) {
	return lengthOf(raw, sequenceTag, lengthAttr)
}

func lengthOf(raw, tag, attr []byte) (int, error) {
	pos := 0
	for {
		i := bytes.Index(raw[pos:], tag)
		if i < 0 {
			return NoLength, nil
		}
		start := pos + i + len(tag)
		pos = start
		// <sequenceCaution> and friends are different elements
		if start < len(raw) && !isTagBreak(raw[start]) {
			continue
		}
		stop := bytes.IndexByte(raw[start:], '>')
		if stop < 0 {
			stop = len(raw)
		} else {
			stop += start
		}
		v, ok := attrValue(raw[start:stop], attr)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, perr.Wrapf(ErrMalformedLength, perr.ErrorCodeMalformed, "length=%q", v)
		}
		return n, nil
	}
}

// attrValue finds attr (name plus '=') among the attributes in tag and returns
// its value without quotes
func attrValue(tag, attr []byte) (string, bool) {
	off := 0
	for {
		i := bytes.Index(tag[off:], attr)
		if i < 0 {
			return "", false
		}
		at := off + i
		off = at + len(attr)
		// must start an attribute name, not end one (sequence_length=)
		if at > 0 && !isSpace(tag[at-1]) {
			continue
		}
		rest := tag[off:]
		if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
			q := rest[0]
			if end := bytes.IndexByte(rest[1:], q); end >= 0 {
				return string(rest[1 : 1+end]), true
			}
			return string(rest[1:]), true
		}
		end := bytes.IndexFunc(rest, func(r rune) bool { return r < 0x80 && (isSpace(byte(r)) || r == '/') })
		if end < 0 {
			end = len(rest)
		}
		return string(rest[:end]), true
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func isTagBreak(b byte) bool { return isSpace(b) || b == '>' || b == '/' }

// SplitSentences splits a text block on ". ". Abbreviations and decimals
// followed by a space split too; that is accepted
func SplitSentences(text string) []string {
	return split(text, ". ")
}

func split(text, sep string) []string {
	if sep == "" {
		return []string{text}
	}
	return strings.Split(text, sep)
}
