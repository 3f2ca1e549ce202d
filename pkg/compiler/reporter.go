package compiler

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one reported message.
type Diagnostic struct {
	Severity Severity
	Pos      Position
	Msg      string
}

func (d Diagnostic) String() string {
	if d.Pos.Line == 0 {
		return d.Msg
	}
	return fmt.Sprintf("%s on %s", d.Msg, d.Pos)
}

// Reporter writes diagnostics as "<message> on line L, col C in file F".
// Colors are applied only when the writer is a terminal.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	errStyle lipgloss.Style
	wrnStyle lipgloss.Style
	diags    []Diagnostic
}

// NewReporter returns a Reporter writing to w. A nil w discards output but
// still records diagnostics.
func NewReporter(w io.Writer, color bool) *Reporter {
	if w == nil {
		w = io.Discard
	}
	r := lipgloss.NewRenderer(w)
	errStyle := r.NewStyle()
	wrnStyle := r.NewStyle()
	if color {
		errStyle = errStyle.Foreground(lipgloss.Color("9")).Bold(true)
		wrnStyle = wrnStyle.Foreground(lipgloss.Color("11"))
	}
	return &Reporter{w: w, errStyle: errStyle, wrnStyle: wrnStyle}
}

// Warnf reports a non-fatal diagnostic at pos.
func (r *Reporter) Warnf(pos Position, format string, args ...any) {
	r.report(Diagnostic{Severity: SeverityWarning, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Error reports a fatal error. Errors that are not *Error are printed as is.
func (r *Reporter) Error(err error) {
	d := Diagnostic{Severity: SeverityError, Msg: err.Error()}
	var ce *Error
	if errors.As(err, &ce) {
		d.Pos = ce.Pos
		d.Msg = ce.Msg
	}
	r.report(d)
}

func (r *Reporter) report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
	style := r.wrnStyle
	if d.Severity == SeverityError {
		style = r.errStyle
	}
	fmt.Fprintln(r.w, style.Render(d.String()))
}

// Diagnostics returns everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diags...)
}

// Warnings returns the number of warnings reported so far.
func (r *Reporter) Warnings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.diags {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
