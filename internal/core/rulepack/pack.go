// Package rulepack loads and compiles extraction rules from the embedded rules.json.
// It prepares the entry boundary tags, field patterns and trigger words used by
// the scanner, the extractor and the matcher
package rulepack

import (
	"bytes"
	_ "embed"
	"os"
	"regexp"
	"strings"

	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/validate"
)

//go:embed rules.json
var embedded []byte

// Rules is the JSON shape of a rule pack
type Rules struct {
	Version      int      `json:"version" validate:"min=1"`
	StartTag     string   `json:"start_tag" validate:"required"`
	EndTag       string   `json:"end_tag" validate:"required"`
	Accession    string   `json:"accession" validate:"required,one_group"`
	CommentText  string   `json:"comment_text" validate:"required,one_group"`
	ArticleTitle string   `json:"article_title" validate:"required,one_group"`
	SequenceTag  string   `json:"sequence_tag" validate:"required"`
	LengthAttr   string   `json:"length_attr" validate:"required"`
	SentenceSep  string   `json:"sentence_sep" validate:"required"`
	Triggers     []string `json:"triggers" validate:"min=1,dive,required"`
}

// Pack represents a compiled rule pack
type Pack struct {
	Version int

	// Entry boundaries
	StartTag []byte
	EndTag   []byte

	// Field patterns, each with exactly one capture group
	Accession    *regexp.Regexp
	CommentText  *regexp.Regexp
	ArticleTitle *regexp.Regexp

	// Length attribute lookup
	SequenceTag []byte
	LengthAttr  []byte

	SentenceSep string
	Triggers    []string
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	return parse(embedded, "rules.json")
}

// LoadFile returns a compiled pack read from path, replacing the embedded one
func LoadFile(path string) (*Pack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "rulepack: read %s", path)
	}
	return parse(b, path)
}

func parse(b []byte, name string) (*Pack, error) {
	rp, err := validate.DecodeJSON[Rules](bytes.NewReader(b), perr.ErrorCodeConfig)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeConfig, "rulepack: %s", name), "rulepack.parse")
	}

	// patterns were checked by one_group; compile errors are unreachable here
	p := &Pack{
		Version:      rp.Version,
		StartTag:     []byte(rp.StartTag),
		EndTag:       []byte(rp.EndTag),
		Accession:    regexp.MustCompile(rp.Accession),
		CommentText:  regexp.MustCompile(rp.CommentText),
		ArticleTitle: regexp.MustCompile(rp.ArticleTitle),
		SequenceTag:  []byte(rp.SequenceTag),
		LengthAttr:   []byte(rp.LengthAttr),
		SentenceSep:  rp.SentenceSep,
		Triggers:     CleanTriggers(rp.Triggers),
	}
	return p, nil
}

// Rules returns the JSON form of p, suitable for writing a rules file
func (p *Pack) Rules() Rules {
	return Rules{
		Version:      p.Version,
		StartTag:     string(p.StartTag),
		EndTag:       string(p.EndTag),
		Accession:    p.Accession.String(),
		CommentText:  p.CommentText.String(),
		ArticleTitle: p.ArticleTitle.String(),
		SequenceTag:  string(p.SequenceTag),
		LengthAttr:   string(p.LengthAttr),
		SentenceSep:  p.SentenceSep,
		Triggers:     append([]string(nil), p.Triggers...),
	}
}

// WithTriggers returns a copy of p whose trigger list is replaced by triggers.
// An empty list leaves the pack's triggers in place
func (p *Pack) WithTriggers(triggers []string) *Pack {
	t := CleanTriggers(triggers)
	if len(t) == 0 {
		return p
	}
	c := *p
	c.Triggers = t
	return &c
}

// CleanTriggers trims and dedupes trigger words, keeping first-seen order.
// Case is preserved: matching is case sensitive
func CleanTriggers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
