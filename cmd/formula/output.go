package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorGray   = "\033[90m"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// ShouldUseColor determines if color output should be used on w.
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(noColorFlag bool, w io.Writer) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) useColor() bool {
	return ShouldUseColor(a.noColor, a.stdout)
}

// checkFormat rejects an output format the command cannot render
func (a *app) checkFormat(allowed ...string) error {
	for _, f := range allowed {
		if a.format == f {
			return nil
		}
	}
	return unsupportedFormat(a.format, allowed...)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func statusColor(t validation.MessageType) string {
	switch t {
	case validation.MessageSuccess:
		return ColorGreen
	case validation.MessageError:
		return ColorRed
	case validation.MessageWarning:
		return ColorYellow
	}
	return ColorBlue
}

func (a *app) printStatus(msg validation.StatusMessage) {
	_, _ = fmt.Fprintln(a.stdout, Colorize(msg.Message, statusColor(msg.Type), a.useColor()))
}

func (a *app) printValidation(res validation.Result) {
	color := a.useColor()
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(a.stdout, "%s%s\n", Colorize("  error: ", ColorRed, color), e)
	}
	for _, w := range res.Warnings {
		_, _ = fmt.Fprintf(a.stdout, "%s%s\n", Colorize("  warning: ", ColorYellow, color), w)
	}
}

func (a *app) printSteps(steps []formula.Step) error {
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tKIND\tTOKEN\tLABEL")
	for i, s := range steps {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, s.Kind(), s.Token(), s.Label())
	}
	return w.Flush()
}
