package module

import (
	"corpusbuilder/internal/adapters/ingest/sprot"
	"corpusbuilder/internal/platform/config"
	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/validate"
)

// Options holds configuration settings for the corpus module
type Options struct {
	Source     string   `json:"source" validate:"required"`
	Output     string   `json:"output" validate:"required"`
	Seed       string   `json:"seed"`
	MaxSize    int      `json:"max_size" validate:"min=0"`
	MaxLength  int      `json:"max_length" validate:"min=1"`
	BufferSize int      `json:"buffer_size" validate:"min=16"`
	Triggers   []string `json:"triggers"`
	Rules      string   `json:"rules"`
	Dedup      string   `json:"dedup" validate:"oneof=index linear"`
	Clean      bool     `json:"clean"`
	Progress   bool     `json:"progress"`
}

// Defaults returns the settings used when nothing overrides them
func Defaults() Options {
	return Options{
		Source:     "data/uniprot_sprot.xml",
		Output:     "../raw_corpus.jsonl",
		MaxSize:    1000,
		MaxLength:  100,
		BufferSize: sprot.DefaultBufferSize,
		Dedup:      "index",
		Progress:   true,
	}
}

// FromConfig overlays CORPUS_* environment settings on base
func FromConfig(cfg config.Conf, base Options) Options {
	c := cfg.Prefix("CORPUS_")
	return Options{
		Source:     c.MayString("SOURCE", base.Source),
		Output:     c.MayString("OUTPUT", base.Output),
		Seed:       c.MayString("SEED", base.Seed),
		MaxSize:    c.MayInt("MAX_SIZE", base.MaxSize),
		MaxLength:  c.MayInt("MAX_LENGTH", base.MaxLength),
		BufferSize: int(c.MayBytes("BUFFER_SIZE", int64(base.BufferSize))),
		Triggers:   c.MayCSV("TRIGGERS", base.Triggers),
		Rules:      c.MayString("RULES", base.Rules),
		Dedup:      c.MayString("DEDUP", base.Dedup),
		Clean:      c.MayBool("CLEAN_TEXT", base.Clean),
		Progress:   c.MayBool("PROGRESS", base.Progress),
	}
}

// File is the YAML config file shape. Absent keys leave settings untouched
type File struct {
	Source     *string  `yaml:"source"`
	Output     *string  `yaml:"output"`
	Seed       *string  `yaml:"seed"`
	MaxSize    *int     `yaml:"max_size"`
	MaxLength  *int     `yaml:"max_length"`
	BufferSize *string  `yaml:"buffer_size"`
	Triggers   []string `yaml:"triggers"`
	Rules      *string  `yaml:"rules"`
	Dedup      *string  `yaml:"dedup"`
	Clean      *bool    `yaml:"clean"`
	Progress   *bool    `yaml:"progress"`
}

// LoadFile reads a YAML config file
func LoadFile(path string) (File, error) {
	var f File
	if err := config.LoadYAML(path, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Apply overlays the keys present in f on o
func (f File) Apply(o Options) (Options, error) {
	setIf(&o.Source, f.Source)
	setIf(&o.Output, f.Output)
	setIf(&o.Seed, f.Seed)
	setIf(&o.MaxSize, f.MaxSize)
	setIf(&o.MaxLength, f.MaxLength)
	setIf(&o.Rules, f.Rules)
	setIf(&o.Dedup, f.Dedup)
	setIf(&o.Clean, f.Clean)
	setIf(&o.Progress, f.Progress)
	if len(f.Triggers) > 0 {
		o.Triggers = append([]string(nil), f.Triggers...)
	}
	if f.BufferSize != nil {
		n, err := config.ParseBytes(*f.BufferSize)
		if err != nil {
			return o, perr.WithField(perr.Wrapf(err, perr.ErrorCodeConfig, "buffer_size %q", *f.BufferSize), "buffer_size")
		}
		o.BufferSize = int(n)
	}
	return o, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks o and reports the first bad field as a config error
func (o Options) Validate() error {
	return validate.Struct(o, perr.ErrorCodeConfig)
}
