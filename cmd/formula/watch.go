package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

func (a *app) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <formula-file>",
		Short: "Re-validate a formula file every time it is written",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.file
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" || path == "-" {
				return &CLIError{
					Type:    "arguments",
					Message: "watch needs a formula file",
					Hint:    "Run formula watch <path> or formula watch --file <path>",
				}
			}
			return a.watch(cmd.Context(), path)
		},
	}
}

// watch prints the status of path once and again after each write until ctx
// is done. The parent directory is watched so editors that replace the file
// are followed.
func (a *app) watch(ctx context.Context, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrFormulaRead, "invalid path", err).WithContext("path", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.Wrap(ferrors.ErrWatcherFailure, "failed to create watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return ferrors.Wrap(ferrors.ErrWatcherFailure, "failed to watch directory", err).
			WithContext("path", filepath.Dir(target))
	}

	a.logger.Debug("watching formula", "path", target)
	if err := a.report(target); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := a.report(target); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			a.logger.Debug("watch stopped", "path", target)
			return nil
		}
	}
}

// report validates the current content of path. A file that vanished
// between the event and the read is reported and skipped.
func (a *app) report(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			a.logger.Warn("formula file missing", "path", path)
			return nil
		}
		return ferrors.Wrap(ferrors.ErrFormulaRead, "failed to read formula", err).WithContext("path", path)
	}

	steps := a.engine.Steps(strings.TrimSpace(string(data)))
	res := a.engine.Validate(steps)
	status := validation.Status(res, len(steps))

	_, _ = fmt.Fprintf(a.stdout, "%s: ", filepath.Base(path))
	a.printStatus(status)
	a.printValidation(res)
	return nil
}
