// Package diag writes human-facing diagnostics to the diagnostic stream,
// kept separate from the context document.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/phobologic/fnctx/internal/selector"
)

var (
	colorTeal    = lipgloss.Color("#20B9B4")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#5C7A84")
)

// Reporter formats diagnostics. Output is styled only when the underlying
// writer is a terminal.
type Reporter struct {
	w      io.Writer
	styled bool

	title lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	r := &Reporter{w: w}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		re := lipgloss.NewRenderer(f)
		r.styled = true
		r.title = re.NewStyle().Bold(true).Foreground(colorTeal)
		r.warn = re.NewStyle().Foreground(colorWarning)
		r.fail = re.NewStyle().Bold(true).Foreground(colorError)
		r.muted = re.NewStyle().Foreground(colorMuted)
	}
	return r
}

func (r *Reporter) paint(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *Reporter) line(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

// FileCount reports how many source files were collected.
func (r *Reporter) FileCount(n int) {
	r.line("%s", r.paint(r.muted, fmt.Sprintf("Found %d source files in project", n)))
}

// Selection reports how an ambiguous name was settled, then the chosen
// start function.
func (r *Reporter) Selection(requested string, sel selector.Selection) {
	switch {
	case !sel.Ambiguous():
	case sel.HintMatched:
		r.line("Found function in preferred module: %s", sel.ModulePath)
	case sel.Preferred != "":
		r.line("%s", r.paint(r.warn, fmt.Sprintf("Function '%s' not found in module '%s'. Available in:", requested, sel.Preferred)))
		for _, v := range sel.Candidates {
			r.line("  %s", v.ModulePath)
		}
		r.line("Using first available implementation")
	default:
		r.line("%s", r.paint(r.warn, fmt.Sprintf("Multiple implementations of '%s' found:", requested)))
		for i, v := range sel.Candidates {
			r.line("  %d. In %s", i+1, v.ModulePath)
		}
		r.line("Please specify a preferred module with the third argument")
	}

	r.line("%s %s", r.paint(r.title, "Selected function:"), sel.Qualified)
}

// NotFound reports an unresolvable name and any near matches.
func (r *Reporter) NotFound(nf *selector.NotFoundError) {
	if len(nf.Suggestions) == 0 {
		r.line("%s", r.paint(r.fail, fmt.Sprintf("Function '%s' not found in project", nf.Name)))
		return
	}

	r.line("%s", r.paint(r.fail, fmt.Sprintf("Function '%s' not found. Did you mean one of these?", nf.Name)))
	for _, v := range nf.Suggestions {
		r.line("  %s %s", v.Qualified, r.paint(r.muted, "(in "+v.ModulePath+")"))
	}
	if nf.More > 0 {
		r.line("  ... and %d more", nf.More)
	}
}
