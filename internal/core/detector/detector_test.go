package detector

import (
	"strings"
	"testing"
)

func TestMatch_DefaultTriggers(t *testing.T) {
	m := NewMatcher([]string{"anti", "inhibit"})
	cases := []struct {
		in   string
		want bool
	}{
		{"It binds DNA", false},
		{"Has antibody binding", true},
		{"Acts as inhibitor", true},
		{"Shows anti-viral activity", true},
		{"Anti-viral", false},
		{"INHIBITS growth", false},
		{"", false},
		{"semantics", true},
	}
	for _, tc := range cases {
		if got := m.Match(tc.in); got != tc.want {
			t.Fatalf("Match(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMatch_AgreesWithContains(t *testing.T) {
	triggers := []string{"he", "she", "his", "hers", "anti", "ant"}
	m := NewMatcher(triggers)
	inputs := []string{
		"ushers", "ahishers", "xyz", "an", "antiquity", "h", "sh", "hhhhhe",
		"the plant", "phosphorylation", "ANTI", "s.he",
	}
	for _, in := range inputs {
		want := false
		for _, t := range triggers {
			if strings.Contains(in, t) {
				want = true
				break
			}
		}
		if got := m.Match(in); got != want {
			t.Fatalf("Match(%q) = %v, strings.Contains says %v", in, got, want)
		}
	}
}

func TestMatch_EmptyTriggerSet(t *testing.T) {
	for _, m := range []*Matcher{NewMatcher(nil), NewMatcher([]string{"", ""})} {
		if m.Match("anything at all") {
			t.Fatalf("empty trigger set should match nothing")
		}
		if len(m.Triggers()) != 0 {
			t.Fatalf("expected no triggers, got %v", m.Triggers())
		}
	}
}

func TestHits(t *testing.T) {
	m := NewMatcher([]string{"anti", "inhibit"})
	s := "anti-inhibitor and antigen"
	hits := m.Hits(s)
	if len(hits) != 3 {
		t.Fatalf("hits = %+v", hits)
	}
	for _, h := range hits {
		if s[h.Start:h.End] != h.Trigger {
			t.Fatalf("span %d..%d = %q, want %q", h.Start, h.End, s[h.Start:h.End], h.Trigger)
		}
	}
	if hits[0].Trigger != "anti" || hits[1].Trigger != "inhibit" || hits[2].Start != 19 {
		t.Fatalf("unexpected order: %+v", hits)
	}
}

func TestHits_Overlapping(t *testing.T) {
	m := NewMatcher([]string{"she", "he", "hers"})
	hits := m.Hits("shers")
	got := map[string]bool{}
	for _, h := range hits {
		got[h.Trigger] = true
	}
	if !got["she"] || !got["he"] || !got["hers"] {
		t.Fatalf("missing overlapping hits: %+v", hits)
	}
}

func TestTriggers_Copy(t *testing.T) {
	m := NewMatcher([]string{"anti"})
	ts := m.Triggers()
	ts[0] = "mutated"
	if m.Triggers()[0] != "anti" {
		t.Fatalf("Triggers should return a copy")
	}
}

func BenchmarkMatch(b *testing.B) {
	m := NewMatcher([]string{"anti", "inhibit"})
	s := strings.Repeat("Catalyzes the phosphorylation of a serine residue ", 8) + "inhibitor"
	b.ReportAllocs()
	for b.Loop() {
		_ = m.Match(s)
	}
}
