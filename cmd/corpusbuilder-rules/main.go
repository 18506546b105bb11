// Command corpusbuilder-rules validates a rule pack and prints the effective
// rules as JSON, ready to pass to corpusbuilder -rules
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"corpusbuilder/internal/core/rulepack"
	"corpusbuilder/internal/platform/config"
	perr "corpusbuilder/internal/platform/errors"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(perr.ExitCode(err))
	}
}

// effective loads the pack from path, or the embedded pack when path is
// empty, and applies the trigger override
func effective(path, triggers string) (*rulepack.Pack, error) {
	var (
		p   *rulepack.Pack
		err error
	)
	if path == "" {
		p, err = rulepack.Load()
	} else {
		p, err = rulepack.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return p.WithTriggers(config.SplitCSV(triggers)), nil
}

func encode(w io.Writer, p *rulepack.Pack, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(p.Rules()); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode rules")
	}
	return nil
}

func main() {
	var (
		in       = flag.String("rules", "", "rule pack to check; empty uses the embedded pack")
		triggers = flag.String("triggers", "", "comma separated trigger words replacing the pack's")
		out      = flag.String("out", "-", "output path or '-' for stdout")
		pretty   = flag.Bool("pretty", true, "pretty-print JSON")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	p, err := effective(strings.TrimSpace(*in), *triggers)
	must(err)
	if *verbose {
		_, _ = fmt.Fprintf(os.Stderr, "rules version %d, %d triggers\n", p.Version, len(p.Triggers))
	}

	if *out == "-" {
		must(encode(os.Stdout, p, *pretty))
		return
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		must(perr.Wrap(err, perr.ErrorCodeIO, "mkdir"))
	}
	f, err := os.Create(*out)
	if err != nil {
		must(perr.Wrap(err, perr.ErrorCodeIO, "create "+*out))
	}
	if err := encode(f, p, *pretty); err != nil {
		_ = f.Close()
		must(err)
	}
	must(perr.WrapIf(f.Close(), perr.ErrorCodeIO, "close "+*out))
	if *verbose {
		_, _ = fmt.Fprintf(os.Stderr, "wrote %s\n", *out)
	}
}
