package service

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"corpusbuilder/internal/platform/logger"
	"corpusbuilder/internal/services/corpus/domain"

	units "github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// logStep is the percentage between progress log lines when not on a terminal
const logStep = 5

// NopProgress discards progress
type NopProgress struct{}

// OnProgress implements domain.ProgressObserver
func (NopProgress) OnProgress(domain.Progress) {}

// Done implements domain.ProgressObserver
func (NopProgress) Done(domain.Result) {}

// TerminalProgress shows scan progress. On a TTY it rewrites one status line
// in place; elsewhere it logs a line every few percent
type TerminalProgress struct {
	w      io.Writer
	tty    bool
	source string
	log    *logger.Logger

	hi  *color.Color
	dim *color.Color

	mu       sync.Mutex
	lastLen  int
	lastStep int
	drawn    bool
}

// NewTerminalProgress writes to w. tty forces terminal mode when non-nil,
// otherwise it is detected from w
func NewTerminalProgress(w io.Writer, source string, tty *bool) *TerminalProgress {
	if w == nil {
		w = os.Stdout
	}
	t := &TerminalProgress{
		w:        w,
		source:   source,
		log:      logger.Named("progress"),
		hi:       color.New(color.FgCyan, color.Bold),
		dim:      color.New(color.FgHiBlack),
		lastStep: -1,
	}
	if tty != nil {
		t.tty = *tty
	} else {
		t.tty = detectTTY(w)
	}
	if !t.tty {
		t.hi.DisableColor()
		t.dim.DisableColor()
	}
	return t
}

// WithLogger replaces the logger used off-terminal
func (t *TerminalProgress) WithLogger(l *logger.Logger) *TerminalProgress {
	t.log = l
	return t
}

// TTY reports whether in-place rendering is active
func (t *TerminalProgress) TTY() bool { return t.tty }

func detectTTY(w io.Writer) bool {
	if os.Getenv("CI") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// OnProgress implements domain.ProgressObserver
func (t *TerminalProgress) OnProgress(p domain.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pct := p.Percent()
	if !t.tty {
		step := int(pct) / logStep
		if step <= t.lastStep {
			return
		}
		t.lastStep = step
		t.log.Info().
			Str("source", t.source).
			Str("read", units.HumanSize(float64(p.Offset))).
			Str("size", units.HumanSize(float64(p.Size))).
			Float64("pct", pct).
			Int("entries", p.Entries).
			Int("used", p.Used).
			Int("seen", p.Seen).
			Msg("scan progress")
		return
	}

	line := fmt.Sprintf("Reading '%s' (buffer size: %s): %s done (%d entries read -> %s/%d corpus entries used)",
		t.source,
		units.HumanSize(float64(p.BufferSize)),
		t.hi.Sprintf("%5.1f%%", pct),
		p.Entries,
		t.hi.Sprint(p.Used),
		p.Seen,
	)
	t.redraw(line)
}

// redraw overwrites the current status line, padding over leftovers
func (t *TerminalProgress) redraw(line string) {
	pad := ""
	if n := len(line); n < t.lastLen {
		pad = strings.Repeat(" ", t.lastLen-n)
	}
	_, _ = fmt.Fprint(t.w, "\r"+line+pad)
	t.lastLen = len(line)
	t.drawn = true
}

// Done implements domain.ProgressObserver
func (t *TerminalProgress) Done(r domain.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tty {
		return
	}
	if t.drawn {
		_, _ = fmt.Fprintln(t.w)
	}
	switch {
	case r.Interrupted:
		_, _ = fmt.Fprintln(t.w, t.dim.Sprint("Interruption requested!"))
	case r.CapReached:
		_, _ = fmt.Fprintln(t.w, t.dim.Sprint("Limit reached for the number of entries added to corpus"))
	}
	_, _ = fmt.Fprintf(t.w, "%s entries added to corpus, saved to '%s'\n", t.hi.Sprint(r.Added), r.Output)
}
