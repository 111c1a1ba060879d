package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "arguments", "input", "formula", "catalog"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	var recErr *validation.RecursionError
	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &recErr):
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), recErr.Message)
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  Cycle: ", ColorGray, useColor), strings.Join(recErr.Cycle, " -> "))
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	var fe *ferrors.FormulaError
	if errors.As(err, &fe) {
		switch fe.Type {
		case ferrors.ErrCatalogRead, ferrors.ErrCatalogSchema, ferrors.ErrCatalogVersion, ferrors.ErrRecursive:
			return ExitCatalogError
		case ferrors.ErrNotSavable, ferrors.ErrASTDecode:
			return ExitInvalidFormula
		case ferrors.ErrFormulaRead, ferrors.ErrWatcherFailure:
			return ExitIOError
		case ferrors.ErrUnknownFormat:
			return ExitInvalidArguments
		}
	}
	return ExitInvalidArguments
}

func unsupportedFormat(format string, allowed ...string) error {
	return &CLIError{
		Type:    "arguments",
		Message: fmt.Sprintf("unsupported output format %q", format),
		Hint:    "Use --format " + strings.Join(allowed, ", "),
		Cause:   ferrors.Newf(ferrors.ErrUnknownFormat, "format %s", format),
	}
}

func notSavable(cause error) error {
	return &CLIError{
		Type:    "formula",
		Message: "formula cannot be saved",
		Details: cause.Error(),
		Cause:   cause,
	}
}
