package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/width"

	"adalite/internal/source"
)

// Reporter renders diagnostics to an output stream.
type Reporter interface {
	Report(fs *source.FileSet, d Diagnostic)
	Summarize(fs *source.FileSet, b *Bag)
}

// StreamReporter writes one line (plus a caret line) per diagnostic to
// w, colorizing severities when w is a terminal.
type StreamReporter struct {
	w      io.Writer
	colors bool
}

// NewStreamReporter builds a StreamReporter. If w implements Fd()
// (e.g. *os.File), color is auto-detected via golang.org/x/term;
// otherwise output is left plain, matching the teacher's pipe-safe
// rendering split between its TUI and line-oriented reporters.
func NewStreamReporter(w io.Writer) *StreamReporter {
	colors := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	return &StreamReporter{w: w, colors: colors}
}

func (r *StreamReporter) paint(sev Severity, s string) string {
	if !r.colors {
		return s
	}
	switch sev {
	case SevError:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(s)
	default:
		return color.New(color.FgCyan).Sprint(s)
	}
}

// Report prints one diagnostic in "file:line:col: severity: message"
// form, followed by a source line and a caret aligned by display width
// (go-runewidth accounts for any multi-width source runes).
func (r *StreamReporter) Report(fs *source.FileSet, d Diagnostic) {
	loc := fs.Describe(d.Span)
	fmt.Fprintf(r.w, "%s: %s: %s\n", loc, r.paint(d.Severity, d.Severity.String()), d.Message)
	if f := fs.Get(d.Span.File); f != nil {
		line, col := fs.LineCol(d.Span.File, d.Span.Start)
		lines := strings.Split(f.Text, "\n")
		if line-1 < len(lines) {
			text := lines[line-1]
			fmt.Fprintf(r.w, "    %s\n", text)
			prefix := text
			if col-1 <= len(prefix) {
				prefix = prefix[:col-1]
			}
			// Narrow-fold fullwidth/halfwidth identifier runes before
			// measuring, so a caret under a CJK or fullwidth-punctuation
			// identifier (legal in an Ada source encoding with non-ASCII
			// names) still lines up under go-runewidth's column count.
			pad := runewidth.StringWidth(width.Narrow.String(prefix))
			fmt.Fprintf(r.w, "    %s^\n", strings.Repeat(" ", pad))
		}
	}
	for _, n := range d.Notes {
		fmt.Fprintf(r.w, "    note: %s: %s\n", fs.Describe(n.Span), n.Message)
	}
}

// Summarize prints a final error/warning/suppressed-count line.
func (r *StreamReporter) Summarize(fs *source.FileSet, b *Bag) {
	errs, warns := 0, 0
	for _, d := range b.Items() {
		switch d.Severity {
		case SevError:
			errs++
		case SevWarning:
			warns++
		}
	}
	fmt.Fprintf(r.w, "%d error(s), %d warning(s)", errs, warns)
	if s := b.Suppressed(); s > 0 {
		fmt.Fprintf(r.w, " (%d further diagnostics suppressed)", s)
	}
	fmt.Fprintln(r.w)
}
