package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops what must never reach the corpus file: invalid UTF-8,
// C0 controls other than tab, newline and carriage return, DEL, C1 controls
// and the noncharacters U+FFFE and U+FFFF. Clean input is returned as is
func Sanitize(s string) string {
	i := firstBad(s)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// firstBad returns the offset of the first rune Sanitize drops, or -1
func firstBad(s string) int {
	for i := 0; i < len(s); {
		if c := s[i]; c >= 0x20 && c < 0x7f {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return i
		}
		i += size
	}
	return -1
}

func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20 || (r >= 0x7f && r <= 0x9f):
		return false
	case r == 0xfffe || r == 0xffff:
		return false
	}
	return true
}
