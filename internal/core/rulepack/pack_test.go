package rulepack

import (
	"encoding/json"
	"testing"

	perr "corpusbuilder/internal/platform/errors"
	kit "corpusbuilder/internal/platform/testkit"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version == 0 {
		t.Fatalf("expected non-zero version")
	}
	if string(p.StartTag) != "<entry " || string(p.EndTag) != "</entry>" {
		t.Fatalf("tags = %q %q", p.StartTag, p.EndTag)
	}
	if p.SentenceSep != ". " {
		t.Fatalf("sentence sep = %q", p.SentenceSep)
	}
	if len(p.Triggers) != 2 || p.Triggers[0] != "anti" || p.Triggers[1] != "inhibit" {
		t.Fatalf("triggers = %#v", p.Triggers)
	}

	m := p.Accession.FindSubmatch([]byte(`<accession>P12345</accession>`))
	if m == nil || string(m[1]) != "P12345" {
		t.Fatalf("accession pattern mismatch: %q", m)
	}
	m = p.CommentText.FindSubmatch([]byte(`<text evidence="1">Shows anti-viral activity</text>`))
	if m == nil || string(m[1]) != "Shows anti-viral activity" {
		t.Fatalf("comment pattern mismatch: %q", m)
	}
	m = p.ArticleTitle.FindSubmatch([]byte(`<title>Some title.</title>`))
	if m == nil || string(m[1]) != "Some title." {
		t.Fatalf("title pattern mismatch: %q", m)
	}
}

func TestLoadFile(t *testing.T) {
	path := kit.WriteFile(t, "rules.json", `{
		"version": 3,
		"start_tag": "<rec ",
		"end_tag": "</rec>",
		"accession": "<id>([^<]+)</id>",
		"comment_text": "<c>([^<]+)</c>",
		"article_title": "<t>([^<]+)</t>",
		"sequence_tag": "<seq",
		"length_attr": "len=",
		"sentence_sep": "; ",
		"triggers": [" toxin ", "toxin", "", "Anti"]
	}`)
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Version != 3 || string(p.StartTag) != "<rec " {
		t.Fatalf("unexpected pack: %+v", p)
	}
	if len(p.Triggers) != 2 || p.Triggers[0] != "toxin" || p.Triggers[1] != "Anti" {
		t.Fatalf("triggers = %#v", p.Triggers)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"two groups", `{"version":1,"start_tag":"<e ","end_tag":"</e>","accession":"(a)(b)","comment_text":"(c)","article_title":"(t)","sequence_tag":"<s","length_attr":"l=","sentence_sep":". ","triggers":["x"]}`, "accession"},
		{"no triggers", `{"version":1,"start_tag":"<e ","end_tag":"</e>","accession":"(a)","comment_text":"(c)","article_title":"(t)","sequence_tag":"<s","length_attr":"l=","sentence_sep":". ","triggers":[]}`, "triggers"},
		{"missing tag", `{"version":1,"end_tag":"</e>","accession":"(a)","comment_text":"(c)","article_title":"(t)","sequence_tag":"<s","length_attr":"l=","sentence_sep":". ","triggers":["x"]}`, "start_tag"},
		{"unknown key", `{"version":1,"bogus":true}`, "invalid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(kit.WriteFile(t, "rules.json", tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !perr.IsCode(err, perr.ErrorCodeConfig) {
				t.Fatalf("code = %v, want config", perr.CodeOf(err))
			}
			kit.MustContain(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/rules.json")
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("code = %v, want io", perr.CodeOf(err))
	}
}

func TestWithTriggers(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	same := p.WithTriggers([]string{" ", ""})
	if same != p {
		t.Fatalf("empty override should return the same pack")
	}
	q := p.WithTriggers([]string{"toxin", "toxin", "block"})
	if len(q.Triggers) != 2 || q.Triggers[1] != "block" {
		t.Fatalf("override = %#v", q.Triggers)
	}
	if len(p.Triggers) != 2 || p.Triggers[0] != "anti" {
		t.Fatalf("original pack mutated: %#v", p.Triggers)
	}
}

func TestRules_RoundTrip(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	p = p.WithTriggers([]string{"toxin"})

	b, err := json.Marshal(p.Rules())
	if err != nil {
		t.Fatal(err)
	}
	q, err := LoadFile(kit.WriteFile(t, "rules.json", string(b)))
	if err != nil {
		t.Fatalf("LoadFile(exported): %v", err)
	}
	if q.Accession.String() != p.Accession.String() || q.SentenceSep != p.SentenceSep {
		t.Fatalf("patterns changed on round trip")
	}
	if len(q.Triggers) != 1 || q.Triggers[0] != "toxin" {
		t.Fatalf("triggers = %q", q.Triggers)
	}
}
