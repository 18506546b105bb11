// Command corpusbuilder extracts trigger-word sentences from a UniProt XML
// dump into a JSONL corpus
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"corpusbuilder/internal/core/version"
	"corpusbuilder/internal/modkit"
	"corpusbuilder/internal/modkit/module"
	"corpusbuilder/internal/platform/config"
	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/logger"

	corpusdom "corpusbuilder/internal/services/corpus/domain"
	corpusmod "corpusbuilder/internal/services/corpus/module"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

func main() {
	logger.Init(logger.FromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

type cliFlags struct {
	maxSize    int
	maxLength  int
	output     string
	source     string
	bufferSize string
	triggers   string
	rules      string
	dedup      string
	seed       string
	configPath string
	clean      bool
	progress   bool
	version    bool
}

func newFlagSet(out io.Writer) (*flag.FlagSet, *cliFlags) {
	def := corpusmod.Defaults()
	f := &cliFlags{}
	fs := flag.NewFlagSet("corpusbuilder", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.IntVar(&f.maxSize, "max-size", def.MaxSize, "maximum number of new corpus entries")
	fs.IntVar(&f.maxLength, "max-length", def.MaxLength, "skip entries whose sequence is this long or longer")
	fs.StringVar(&f.output, "output", def.Output, "output JSONL path (.gz to compress)")
	fs.StringVar(&f.output, "o", def.Output, "shorthand for -output")
	fs.StringVar(&f.source, "source", def.Source, "UniProt XML dump to read")
	fs.StringVar(&f.bufferSize, "buffer-size", "10MB", "read buffer size, e.g. 10MB or 512k")
	fs.StringVar(&f.triggers, "triggers", "", "comma separated trigger words replacing the rule pack's")
	fs.StringVar(&f.rules, "rules", "", "rule pack JSON file replacing the embedded one")
	fs.StringVar(&f.dedup, "dedup", def.Dedup, "dedup strategy: index | linear")
	fs.StringVar(&f.seed, "seed", "", "existing corpus to extend")
	fs.StringVar(&f.configPath, "config", "", "YAML run file")
	fs.BoolVar(&f.clean, "clean", def.Clean, "normalize extracted text before splitting")
	fs.BoolVar(&f.progress, "progress", def.Progress, "show scan progress")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	return fs, f
}

// resolveOptions layers defaults, the YAML run file, CORPUS_* env and
// explicitly set flags, in that order
func resolveOptions(fs *flag.FlagSet, f *cliFlags, cfg config.Conf) (corpusmod.Options, error) {
	opts := corpusmod.Defaults()
	if f.configPath != "" {
		file, err := corpusmod.LoadFile(f.configPath)
		if err != nil {
			return opts, err
		}
		if opts, err = file.Apply(opts); err != nil {
			return opts, err
		}
	}
	opts = corpusmod.FromConfig(cfg, opts)

	var ferr error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "max-size":
			opts.MaxSize = f.maxSize
		case "max-length":
			opts.MaxLength = f.maxLength
		case "output", "o":
			opts.Output = f.output
		case "source":
			opts.Source = f.source
		case "buffer-size":
			n, err := config.ParseBytes(f.bufferSize)
			if err != nil {
				ferr = perr.WithField(perr.Wrapf(err, perr.ErrorCodeConfig, "-buffer-size %q", f.bufferSize), "buffer_size")
				return
			}
			opts.BufferSize = int(n)
		case "triggers":
			opts.Triggers = config.SplitCSV(f.triggers)
		case "rules":
			opts.Rules = f.rules
		case "dedup":
			opts.Dedup = f.dedup
		case "seed":
			opts.Seed = f.seed
		case "clean":
			opts.Clean = f.clean
		case "progress":
			opts.Progress = f.progress
		}
	})
	return opts, ferr
}

// run builds the corpus and returns the process exit code
func run(ctx context.Context, args []string, stdout io.Writer, mopts ...modkit.Option) int {
	fs, f := newFlagSet(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return perr.ExitOK
		}
		return perr.ExitConfig
	}
	if f.version {
		_, _ = fmt.Fprintln(stdout, version.Info().String())
		return perr.ExitOK
	}

	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID, "")
	log := logger.C(ctx)

	root := config.New()
	opts, err := resolveOptions(fs, f, root)
	if err != nil {
		return fail(ctx, err, "invalid configuration")
	}

	deps := modkit.Deps{Cfg: root, Log: *log}
	cm, err := corpusmod.New(deps, opts, append([]modkit.Option{modkit.WithProgressWriter(stdout)}, mopts...)...)
	if err != nil {
		return fail(ctx, err, "corpus module setup failed")
	}
	module.Register(cm.Name(), cm.Ports())

	bi := version.Info()
	log.Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Str("source", opts.Source).
		Str("output", opts.Output).
		Strs("modules", module.Names()).
		Msg("corpusbuilder starting")

	runner := module.MustPortsOf[corpusdom.RunnerPort](cm)
	res, err := runner.Run(ctx)
	if err != nil {
		return fail(ctx, err, "corpus build failed")
	}
	if res.Interrupted {
		return perr.ExitInterrupted
	}
	return perr.ExitOK
}

func fail(ctx context.Context, err error, msg string) int {
	ev := logger.C(ctx).Error().Stack().Err(pkgerrors.WithStack(err)).Str("code", perr.CodeOf(err).String())
	if e, ok := perr.As(err); ok {
		if e.Op() != "" {
			ev = ev.Str("op", e.Op())
		}
		if e.Field() != "" {
			ev = ev.Str("field", e.Field())
		}
	}
	ev.Msg(msg)
	return perr.ExitCode(err)
}
