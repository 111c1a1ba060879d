// Package engine is the entry point used by editor and evaluator callers.
// It binds one snapshot of lookup collections to every formula stage.
package engine

import (
	"log/slog"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/ast"
	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/catalog"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/parser"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/resolver"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/stepgen"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

// Engine runs the formula stages against one lookup snapshot. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	lookups    *formula.Lookups
	index      *formula.Index
	logger     *slog.Logger
	parserOpts []parser.ParserOpt
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger routes debug events of every stage to logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithParserOptions passes options to the AST builder
func WithParserOptions(opts ...parser.ParserOpt) Option {
	return func(e *Engine) {
		e.parserOpts = append(e.parserOpts, opts...)
	}
}

// New creates an Engine over lookups. A nil lookups resolves nothing.
func New(lookups *formula.Lookups, opts ...Option) *Engine {
	if lookups == nil {
		lookups = &formula.Lookups{}
	}
	e := &Engine{
		lookups: lookups,
		index:   formula.NewIndex(lookups),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromCatalog creates an Engine over a loaded catalog, reusing its index.
func FromCatalog(c *catalog.Catalog, opts ...Option) *Engine {
	e := New(c.Lookups, opts...)
	e.index = c.Index
	return e
}

// Lookups returns the snapshot the engine resolves against.
func (e *Engine) Lookups() *formula.Lookups {
	return e.lookups
}

func (e *Engine) resolver() *resolver.Resolver {
	return resolver.NewWithIndex(e.index, resolver.WithLogger(e.logger))
}

// Resolve maps a single token, as inserted by a chip, to a step.
func (e *Engine) Resolve(token string) (formula.Step, bool) {
	return e.resolver().Resolve(token)
}

// Parse converts a persisted formula string into steps, reporting
// placeholders and dropped input.
func (e *Engine) Parse(text string) resolver.Result {
	return e.resolver().Parse(text)
}

// Steps converts a persisted formula string into steps.
func (e *Engine) Steps(text string) []formula.Step {
	res := e.Parse(text)
	if res.Steps == nil {
		return []formula.Step{}
	}
	return res.Steps
}

// Validate checks the structure of steps.
func (e *Engine) Validate(steps []formula.Step) validation.Result {
	return validation.Validate(steps)
}

// Status returns the status bar message for steps.
func (e *Engine) Status(steps []formula.Step) validation.StatusMessage {
	return validation.Status(validation.Validate(steps), len(steps))
}

// BuildAST builds the evaluator tree for steps.
func (e *Engine) BuildAST(steps []formula.Step) ast.Node {
	opts := append([]parser.ParserOpt{parser.WithLogger(e.logger)}, e.parserOpts...)
	return parser.Build(steps, opts...)
}

// StepsFromAST renders n back into editor steps.
func (e *Engine) StepsFromAST(n ast.Node) []formula.Step {
	return stepgen.FromASTWithIndex(n, e.index, stepgen.WithLogger(e.logger))
}

// Suggest ranks known ids close to an unresolved reference.
func (e *Engine) Suggest(kind formula.Kind, id string) []string {
	return catalog.Suggest(e.index, kind, id)
}

// CheckRecursion reports a circular chain among variable formulas.
func (e *Engine) CheckRecursion() error {
	if err := validation.ValidateNoRecursion(e.lookups); err != nil {
		return ferrors.Wrap(ferrors.ErrRecursive, "circular variable formulas", err)
	}
	return nil
}

// Saved is the outcome of saving a formula: the persisted string, the
// evaluator tree and its fingerprint.
type Saved struct {
	Formula     string   `json:"formula"`
	AST         ast.Node `json:"ast"`
	Fingerprint string   `json:"fingerprint"`
}

// Save serializes steps and builds their AST. Steps the validator does not
// accept, or that build into error nodes, are rejected with a
// FORMULA_NOT_SAVABLE error carrying the first reason.
func (e *Engine) Save(steps []formula.Step) (*Saved, error) {
	res := validation.Validate(steps)
	if !res.CanSave {
		return nil, ferrors.NewNotSavableError(notSavableReason(res))
	}

	tree := e.BuildAST(steps)
	if msgs := ast.Errors(tree); len(msgs) > 0 {
		return nil, ferrors.NewNotSavableError(msgs[0])
	}

	fp, err := ast.Fingerprint(tree)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrNotSavable, "fingerprint failed", err)
	}

	saved := &Saved{
		Formula:     formula.Serialize(steps),
		AST:         tree,
		Fingerprint: fp,
	}
	e.logger.Debug("formula saved", "formula", saved.Formula, "fingerprint", fp)
	return saved, nil
}

func notSavableReason(res validation.Result) string {
	switch {
	case len(res.Errors) > 0:
		return res.Errors[0]
	case len(res.Warnings) > 0:
		return res.Warnings[0]
	}
	return validation.MsgIncomplete
}
