package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
)

// readFormula returns the formula text from the positional arguments, the
// --file flag or piped stdin, in that order.
func (a *app) readFormula(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	data, err := a.readInput()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (a *app) readInput() ([]byte, error) {
	r, closeFunc, err := a.getInputReader(a.file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeFunc() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrFormulaRead, "failed to read input", err)
	}
	return data, nil
}

// getInputReader handles the 3 modes of input:
// 1. Explicit stdin with -f -
// 2. Piped input (auto-detected when no file is given)
// 3. File input
func (a *app) getInputReader(file string) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	if file == "-" {
		return a.stdin, noop, nil
	}

	if file == "" {
		if a.catalogPath != "-" && hasPipedInput(a.stdin) {
			return a.stdin, noop, nil
		}
		return nil, nil, &CLIError{
			Type:    "arguments",
			Message: "no formula given",
			Hint:    "Pass the formula as an argument, with --file <path>, or pipe it on stdin",
		}
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, ferrors.Wrap(ferrors.ErrFormulaRead, fmt.Sprintf("error opening file %s", file), err).
			WithContext("path", file)
	}
	return f, f.Close, nil
}

// hasPipedInput detects if there's data piped to r. Readers that are not
// files (tests, embedding callers) always count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
