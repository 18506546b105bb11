// Package module wires the corpus builder: rule pack, extractor, matcher,
// JSONL store and progress display around the corpus service
package module

import (
	"corpusbuilder/internal/adapters/ingest/extract"
	"corpusbuilder/internal/core/detector"
	"corpusbuilder/internal/core/normalize"
	"corpusbuilder/internal/core/rulepack"
	"corpusbuilder/internal/modkit"
	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/logger"
	"corpusbuilder/internal/services/corpus/domain"
	"corpusbuilder/internal/services/corpus/service"

	units "github.com/docker/go-units"
	"github.com/pbnjay/memory"
)

// Ports exposed by the corpus module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	name  string
	opts  Options
	ports Ports
}

// New validates opts and builds the corpus service.
// Progress goes to stdout unless modkit.WithProgressWriter says otherwise
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("corpus"),
	}, mopts...)...)

	if err := opts.Validate(); err != nil {
		return nil, perr.WithOp(err, "corpus.module")
	}
	if err := checkMemory(opts.BufferSize, memory.TotalMemory()); err != nil {
		return nil, err
	}
	dedup, err := service.ParseDedupMode(opts.Dedup)
	if err != nil {
		return nil, err
	}

	pack, err := loadPack(opts.Rules)
	if err != nil {
		return nil, perr.WithOp(err, "corpus.module")
	}
	pack = pack.WithTriggers(opts.Triggers)

	var xopts []extract.Option
	if opts.Clean {
		xopts = append(xopts, extract.WithCleaner(normalize.New()))
	}

	var progress domain.ProgressObserver = service.NopProgress{}
	if opts.Progress {
		progress = service.NewTerminalProgress(b.Progress, opts.Source, b.TTY)
	}

	svc := service.New(
		service.Config{
			Source:     opts.Source,
			Output:     opts.Output,
			Seed:       opts.Seed,
			MaxAdded:   opts.MaxSize,
			MaxLength:  opts.MaxLength,
			BufferSize: opts.BufferSize,
			StartTag:   string(pack.StartTag),
			EndTag:     string(pack.EndTag),
			Dedup:      dedup,
		},
		extract.New(pack, xopts...),
		detector.NewMatcher(pack.Triggers),
		service.JSONLStore{},
		progress,
	)

	logger.Named(b.Name).Debug().
		Int("rules_version", pack.Version).
		Strs("triggers", pack.Triggers).
		Bool("clean", opts.Clean).
		Msg("corpus module ready")

	return &Module{
		deps:  deps,
		name:  b.Name,
		opts:  opts,
		ports: Ports{Runner: svc},
	}, nil
}

// checkMemory rejects a read buffer larger than half of total RAM. total is 0
// when the platform cannot report it
func checkMemory(buffer int, total uint64) error {
	if total == 0 || buffer <= 0 || uint64(buffer) <= total/2 {
		return nil
	}
	return perr.WithField(perr.Configf("buffer_size %s exceeds half of system memory (%s)",
		units.HumanSize(float64(buffer)), units.HumanSize(float64(total))), "buffer_size")
}

func loadPack(path string) (*rulepack.Pack, error) {
	if path == "" {
		return rulepack.Load()
	}
	return rulepack.LoadFile(path)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Options returns the settings the module was built with
func (m *Module) Options() Options { return m.opts }
