package config

import (
	"os"
	"path/filepath"
	"testing"

	kit "corpusbuilder/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	corpus := New().Prefix("CORPUS_")
	if got := corpus.key("MAX_SIZE"); got != "CORPUS_MAX_SIZE" {
		t.Fatalf("key() = %q, want %q", got, "CORPUS_MAX_SIZE")
	}
	nested := corpus.Prefix("LOG_")
	if got := nested.key("LEVEL"); got != "CORPUS_LOG_LEVEL" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  corpus ")
	if got := c.MustString("NAME"); got != "corpus" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestHas(t *testing.T) {
	c := New().Prefix("H_")
	t.Setenv("H_SET", "x")
	t.Setenv("H_BLANK", "  ")
	if !c.Has("SET") || c.Has("BLANK") || c.Has("MISSING") {
		t.Fatalf("Has mismatch")
	}
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("S_NAME", " corpus ")
	if got := c.MayString("NAME", "x"); got != "corpus" {
		t.Fatalf("MayString value = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("I_OK", " 7 ")
	if got := c.MayInt("OK", 0); got != 7 {
		t.Fatalf("MayInt ok = %d", got)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d", got)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_T", "true")
	if !c.MayBool("T", false) {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("B_BAD", "nope")
	if c.MayBool("BAD", false) {
		t.Fatalf("MayBool bad -> default false expected")
	}
}

func TestMayBytes(t *testing.T) {
	c := New().Prefix("SZ_")
	cases := []struct {
		env  string
		def  int64
		want int64
	}{
		{"", 5, 5},
		{"10MB", 0, 10_000_000},
		{"512k", 0, 512_000},
		{"4096", 0, 4096},
		{"lots", 7, 7},
	}
	for _, tc := range cases {
		t.Setenv("SZ_BUF", tc.env)
		if got := c.MayBytes("BUF", tc.def); got != tc.want {
			t.Fatalf("MayBytes(%q) = %d, want %d", tc.env, got, tc.want)
		}
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"anti", "inhibit"}
	if got := c.MayCSV("MISS", def); len(got) != 2 || got[0] != "anti" {
		t.Fatalf("MayCSV default mismatch: %#v", got)
	}
	t.Setenv("CSV_VALS", " one, two , ,three ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,  ,")
	if got := c.MayCSV("EMPTY", def); len(got) != 2 {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "index", "index", "linear"); got != "index" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_MODE", "Linear")
	if got := c.MayEnum("MODE", "index", "index", "linear"); got != "linear" {
		t.Fatalf("MayEnum allowed value = %q", got)
	}
	t.Setenv("E_BAD", "bloom")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "index", "index", "linear") })
}

func TestLoadYAML(t *testing.T) {
	type run struct {
		MaxSize  int      `yaml:"max_size"`
		Triggers []string `yaml:"triggers"`
	}
	dir := t.TempDir()

	good := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(good, []byte("max_size: 25\ntriggers: [anti, toxin]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var r run
	if err := LoadYAML(good, &r); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if r.MaxSize != 25 || len(r.Triggers) != 2 || r.Triggers[1] != "toxin" {
		t.Fatalf("decoded = %+v", r)
	}

	unknown := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(unknown, []byte("max_sise: 25\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadYAML(unknown, &r); err == nil {
		t.Fatalf("expected unknown field error")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadYAML(empty, &r); err != nil {
		t.Fatalf("empty file should decode cleanly: %v", err)
	}

	if err := LoadYAML(filepath.Join(dir, "missing.yaml"), &r); err == nil {
		t.Fatalf("expected missing file error")
	}
}
