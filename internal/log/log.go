// Package log provides context-aware diagnostic logging for sheetscrub.
//
// Diagnostics go to stderr with a severity prefix (info/warning/error);
// primary data output goes through package output instead.
package log

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sheetscrub/sheetscrub/internal/styles"
)

type ctxKey struct{}

// Logger writes severity-prefixed diagnostics.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	color   bool
}

// New creates a new logger. Quiet suppresses everything below error
// severity; verbose additionally enables Debugf output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithColor returns a copy of the logger with colored severity prefixes
// enabled or disabled.
func (l *Logger) WithColor(enabled bool) *Logger {
	c := *l
	c.color = enabled
	return &c
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard, quiet: true}
}

// Infof logs an informational diagnostic line.
func (l *Logger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(styles.InfoStyle, "info:", format, args...)
}

// Warnf logs a recoverable problem.
func (l *Logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(styles.WarningStyle, "warning:", format, args...)
}

// Errorf logs a fatal problem. Not suppressed by quiet mode.
func (l *Logger) Errorf(format string, args ...any) {
	l.line(styles.ErrorStyle, "error:", format, args...)
}

// Debugf logs extra detail, only when verbose mode is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l.quiet || !l.verbose {
		return
	}
	l.line(styles.InfoStyle, "debug:", format, args...)
}

func (l *Logger) line(style lipgloss.Style, prefix, format string, args ...any) {
	if l.color {
		prefix = style.Render(prefix)
	}
	fmt.Fprintf(l.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Verbose returns true if verbose mode is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
