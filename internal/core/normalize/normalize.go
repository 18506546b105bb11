// Package normalize provides the optional text cleanup applied to comment and
// title blocks before sentence splitting.
// Pipeline order
// 1 Sanitize drop invalid UTF-8 and control characters
// 2 Unescape XML/HTML character references (&amp; &lt; &#945;)
// 3 Unicode NFC composition
// 4 Remove format characters (ZWSP, ZWJ, BOM)
// 5 Collapse whitespace runs, including line wraps, to single spaces and trim
package normalize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cleaner is concurrency safe when used with the pool below
type Cleaner struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// New constructs a Cleaner
func New() *Cleaner { return &Cleaner{} }

// Clean runs the pipeline on s using a shared Cleaner
func Clean(s string) string { return New().Clean(s) }

// Clean returns the cleaned form of s following the pipeline described above
func (c *Cleaner) Clean(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	if strings.IndexByte(s, '&') >= 0 {
		// entities may decode to controls or invalid sequences
		s = Sanitize(html.UnescapeString(s))
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return collapseSpaces(ns)
}

// collapseSpaces converts every whitespace run to a single ASCII space and trims the edges.
// XML text blocks wrap lines, so newlines carry no meaning here
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
