// Package detector decides whether a sentence mentions any trigger word.
// A trigger matches when it occurs anywhere in the sentence as an exact,
// case-sensitive substring ("anti" matches "anti-viral" and "antibody",
// not "Anti")
package detector

// Hit is one trigger occurrence; the span is [Start,End) in bytes
type Hit struct {
	Trigger string
	Start   int
	End     int
}

// Matcher tests sentences against a fixed trigger set
type Matcher struct {
	triggers []string
	ac       *acAutomaton
}

// NewMatcher builds a matcher over triggers. Empty strings are ignored and an
// empty set matches nothing
func NewMatcher(triggers []string) *Matcher {
	m := &Matcher{ac: newAutomaton()}
	for _, t := range triggers {
		if t == "" {
			continue
		}
		m.ac.AddPattern([]byte(t), len(m.triggers))
		m.triggers = append(m.triggers, t)
	}
	m.ac.Build()
	return m
}

// Triggers returns the active trigger words in insertion order
func (m *Matcher) Triggers() []string {
	return append([]string(nil), m.triggers...)
}

// Match reports whether s contains at least one trigger
func (m *Matcher) Match(s string) bool {
	if len(m.triggers) == 0 || s == "" {
		return false
	}
	found := false
	m.ac.FindAll(s, func(int, int) bool {
		found = true
		return false
	})
	return found
}

// Hits returns every trigger occurrence in s, ordered by end offset
func (m *Matcher) Hits(s string) []Hit {
	var hits []Hit
	if len(m.triggers) == 0 {
		return hits
	}
	m.ac.FindAll(s, func(end, id int) bool {
		t := m.triggers[id]
		hits = append(hits, Hit{Trigger: t, Start: end - len(t), End: end})
		return true
	})
	return hits
}
