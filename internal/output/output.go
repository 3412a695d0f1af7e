// Package output provides consistent CLI output formatting.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer provides formatted status output for the CLI.
type Writer struct {
	out   io.Writer
	icons bool
}

// New creates a Writer. Icons are enabled only when out is a terminal;
// piped and CI output gets plain text prefixes.
func New(out io.Writer) *Writer {
	icons := false
	if f, ok := out.(*os.File); ok {
		icons = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, icons: icons}
}

// NewPlain creates a Writer that never prints icons, regardless of the
// destination. Tests use this for stable assertions.
func NewPlain(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Status prints an indented progress line.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(msg string) {
	_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
}

// Statusf prints a formatted progress line.
func (w *Writer) Statusf(format string, args ...any) {
	w.Status(fmt.Sprintf(format, args...))
}

// Header prints a stage banner.
func (w *Writer) Header(title string) {
	_, _ = fmt.Fprintln(w.out, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintln(w.out, title)
	_, _ = fmt.Fprintln(w.out, "═══════════════════════════════════════════════════════════")
}

// Success prints a completion line.
func (w *Writer) Success(msg string) {
	w.line("✅", "OK", msg)
}

// Successf prints a formatted completion line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (w *Writer) Warning(msg string) {
	w.line("⚠️ ", "WARN", msg)
}

// Warningf prints a formatted warning line.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (w *Writer) Error(msg string) {
	w.line("❌", "ERROR", msg)
}

// Errorf prints a formatted error line.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

func (w *Writer) line(icon, prefix, msg string) {
	if w.icons {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s: %s\n", prefix, msg)
}
