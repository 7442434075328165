package printer

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Printer writes user-facing messages. Status lines go to out, errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New returns a Printer writing to the given streams.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

var std = New(os.Stdout, os.Stderr)

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(p.out, msg)
}

// Info prints an informational message in the default color
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Warning prints a warning message in yellow with a warning prefix
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(p.out, msg)
}

// Step prints a step message with emphasis (used in multi-step operations)
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s", fmt.Sprintf(format, a...))
}

// Detail prints a dimmed key/value line, used under a Step or Success line.
func (p *Printer) Detail(key, value string) {
	faint.Fprintf(p.out, "  %s: %s\n", key, value)
}

// Error prints a formatted error with title, explanation and suggestions to
// errOut and returns an error carrying only the title, for Cobra.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	return p.ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error with key/value details printed between the
// explanation and the suggestions. Keys are printed in sorted order.
func (p *Printer) ErrorWithContext(title, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(p.errOut, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(p.errOut, "%s\n", explanation)
	}

	if len(context) > 0 {
		fmt.Fprintf(p.errOut, "\n")
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(p.errOut, "  %s: %s\n", k, context[k])
		}
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.errOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.errOut, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(p.errOut, "  %d. %s\n", i+1, suggestion)
		}
	}

	// SilenceErrors keeps Cobra from printing this a second time
	return fmt.Errorf("%s", title)
}

// Success prints to stdout using the default printer.
func Success(format string, a ...any) { std.Success(format, a...) }

// Info prints to stdout using the default printer.
func Info(format string, a ...any) { std.Info(format, a...) }

// Warning prints to stdout using the default printer.
func Warning(format string, a ...any) { std.Warning(format, a...) }

// Step prints to stdout using the default printer.
func Step(format string, a ...any) { std.Step(format, a...) }

// Error prints to stderr using the default printer.
func Error(title, explanation string, suggestions []string) error {
	return std.Error(title, explanation, suggestions)
}

// ErrorWithContext prints to stderr using the default printer.
func ErrorWithContext(title, explanation string, context map[string]string, suggestions []string) error {
	return std.ErrorWithContext(title, explanation, context, suggestions)
}
