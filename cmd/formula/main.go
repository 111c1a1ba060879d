// Command formula parses, validates and converts formulas against a catalog
// of variables, goals and quadrenniums.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/catalog"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/engine"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/parser"
)

// Exit code constants
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitInvalidFormula   = 3
	ExitCatalogError     = 4
)

const (
	envCatalog = "FORMULA_CATALOG"
	envDebug   = "FORMULA_DEBUG"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries the flags and streams shared by every subcommand
type app struct {
	catalogPath string
	file        string
	format      string
	debug       bool
	noColor     bool
	maxDepth    int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *slog.Logger
	engine *engine.Engine
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		FormatError(stderr, err, ShouldUseColor(a.noColor, stderr))
		return exitCode(err)
	}
	return ExitSuccess
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "formula [command]",
		Short:         "Parse, validate and convert indicator formulas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.catalogPath, "catalog", "c", os.Getenv(envCatalog), "Catalog document with variables, goals and quadrenniums (JSON or YAML, - for stdin)")
	flags.StringVarP(&a.file, "file", "f", "", "Read the formula from a file (- for stdin)")
	flags.StringVar(&a.format, "format", "text", "Output format: text, json or cbor")
	flags.BoolVar(&a.debug, "debug", envBool(envDebug), "Enable debug output")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.IntVar(&a.maxDepth, "max-depth", 0, "Maximum expression nesting (0 for no limit)")

	root.AddCommand(
		a.parseCommand(),
		a.validateCommand(),
		a.astCommand(),
		a.stepsCommand(),
		a.fingerprintCommand(),
		a.saveCommand(),
		a.checkCommand(),
		a.watchCommand(),
	)
	return root
}

// setup builds the logger and loads the catalog before any subcommand runs
func (a *app) setup() error {
	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && (attr.Key == slog.TimeKey || attr.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return attr
		},
	}))

	if a.catalogPath == catalog.StdinPath && a.file == "-" {
		return &CLIError{
			Type:    "arguments",
			Message: "catalog and formula cannot both be read from stdin",
			Hint:    "Pass the formula as an argument or with --file <path>",
		}
	}

	c := catalog.Empty()
	if a.catalogPath != "" {
		loaded, err := catalog.Load(a.catalogPath, catalog.WithLogger(a.logger), catalog.WithStdin(a.stdin))
		if err != nil {
			return err
		}
		c = loaded
	}
	a.logger.Debug("catalog loaded", "source", c.Source, "version", c.Version, "variables", len(c.Lookups.Variables))

	var popts []parser.ParserOpt
	if a.maxDepth > 0 {
		popts = append(popts, parser.WithMaxDepth(a.maxDepth))
	}
	a.engine = engine.FromCatalog(c, engine.WithLogger(a.logger), engine.WithParserOptions(popts...))
	return nil
}

func envBool(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}
