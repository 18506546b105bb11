package raw

import (
	"testing"
)

func TestConfGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " warn ")
	t.Setenv("CORPUS_OUTPUT", " out.jsonl ")

	root := New()
	corpus := root.Prefix("CORPUS_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root no default used", conf: root, key: "LOG_LEVEL", def: "x", want: "warn"},
		{name: "prefixed hit", conf: corpus, key: "OUTPUT", def: "x", want: "out.jsonl"},
		{name: "missing returns default", conf: corpus, key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfLookup_Blank(t *testing.T) {
	t.Setenv("CORPUS_BLANK", "   ")
	if _, ok := New().Prefix("CORPUS_").Lookup("BLANK"); ok {
		t.Fatalf("blank value should report unset")
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("CORPUS_")

	t.Setenv("CORPUS_T1", "true")
	t.Setenv("CORPUS_T2", "1")
	t.Setenv("CORPUS_T3", "YES")
	t.Setenv("CORPUS_T4", "on")
	t.Setenv("CORPUS_F1", "false")
	t.Setenv("CORPUS_F2", "0")
	t.Setenv("CORPUS_WS", "   true   ")

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{key: "T1", def: false, want: true},
		{key: "T2", def: false, want: true},
		{key: "T3", def: false, want: true},
		{key: "T4", def: false, want: true},
		{key: "F1", def: true, want: false},
		{key: "F2", def: true, want: false},
		{key: "WS", def: false, want: true},
		{key: "MISSING", def: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := c.GetBool(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetBool(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("SYS_")

	t.Setenv("SYS_OK", "42")
	t.Setenv("SYS_WS", "  7  ")
	t.Setenv("SYS_NONNUM", "12x")
	t.Setenv("SYS_NEG", "-5")

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{key: "OK", def: 0, want: 42},
		{key: "WS", def: 1, want: 7},
		{key: "NONNUM", def: 9, want: 9},
		{key: "NEG", def: 3, want: 3},
		{key: "MISSING", def: 11, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := c.GetInt(tt.key, tt.def); got != tt.want {
				t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestPrefixComposition(t *testing.T) {
	corpus := New().Prefix("CORPUS_")
	nested := corpus.Prefix("LOG_")
	if got := nested.Key("LEVEL"); got != "CORPUS_LOG_LEVEL" {
		t.Fatalf("Key = %q", got)
	}
}
