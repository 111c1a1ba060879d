// Package stepgen turns an AST back into editor steps, re-resolving every
// referenced id against the lookup collections.
package stepgen

import (
	"log/slog"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/ast"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/invariant"
)

// Option configures a generator
type Option func(*generator)

// WithLogger routes debug events (placeholders, dropped error nodes) to logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// FromAST renders n as a step sequence. Parentheses are inserted only where
// precedence requires them, so building the result again yields n.
func FromAST(n ast.Node, lookups *formula.Lookups, opts ...Option) []formula.Step {
	return FromASTWithIndex(n, formula.NewIndex(lookups), opts...)
}

// FromASTWithIndex is FromAST over a prebuilt index.
func FromASTWithIndex(n ast.Node, index *formula.Index, opts ...Option) []formula.Step {
	invariant.NotNil(index, "index")
	g := &generator{
		index:  index,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.node(n)
	if g.steps == nil {
		return []formula.Step{}
	}
	return g.steps
}

type generator struct {
	index  *formula.Index
	logger *slog.Logger
	steps  []formula.Step
}

func (g *generator) emit(s formula.Step) {
	g.steps = append(g.steps, s)
}

func (g *generator) node(n ast.Node) {
	switch n := n.(type) {
	case nil:
		return

	case *ast.Binary:
		prec := ast.Precedence(n.Op)
		g.operand(n.Left, func(child int) bool { return child < prec })
		g.operator(n.Op)
		// Equal precedence on the right keeps a-(b-c) and a/(b/c) intact.
		g.operand(n.Right, func(child int) bool { return child <= prec })

	case *ast.Call:
		g.emit(formula.Call(n.Func))
		for i, arg := range n.Args {
			if i > 0 {
				g.emit(formula.Sep())
			}
			g.node(arg)
		}
		g.emit(formula.Close())

	case *ast.Ref:
		g.emit(formula.Var(g.variable(n.Value)))

	case *ast.RefAdvance:
		g.emit(formula.AdvanceStep{Variable: g.variable(n.Value)})

	case *ast.Const:
		g.emit(formula.Const(ast.FormatNumber(n.Value)))

	case *ast.GoalVar:
		goal, ok := g.index.GoalVariable(n.Value)
		if !ok {
			goal = g.placeholderGoal(formula.KindGoalVariable, n.Value)
		}
		g.emit(formula.GoalVariableStep{Goal: goal})

	case *ast.GoalInd:
		goal, ok := g.index.GoalIndicator(n.Value)
		if !ok {
			goal = g.placeholderGoal(formula.KindGoalIndicator, n.Value)
		}
		g.emit(formula.GoalIndicatorStep{Goal: goal})

	case *ast.QuadVar:
		quad, ok := g.index.QuadVariable(n.Value)
		if !ok {
			quad = g.placeholderQuad(formula.KindQuadVariable, n.Value)
		}
		g.emit(formula.QuadVariableStep{Quadrennium: quad})

	case *ast.QuadInd:
		quad, ok := g.index.QuadIndicator(n.Value)
		if !ok {
			quad = g.placeholderQuad(formula.KindQuadIndicator, n.Value)
		}
		g.emit(formula.QuadIndicatorStep{Quadrennium: quad})

	case *ast.Baseline:
		g.emit(formula.BaselineStep{})

	case *ast.Error:
		g.logger.Debug("error node dropped", "message", n.Message)
	}
}

// operand renders child, grouping it when wrap accepts its precedence
func (g *generator) operand(child ast.Node, wrap func(int) bool) {
	b, ok := child.(*ast.Binary)
	if !ok || !wrap(ast.Precedence(b.Op)) {
		g.node(child)
		return
	}
	g.emit(formula.Open())
	g.node(child)
	g.emit(formula.Close())
}

func (g *generator) operator(op string) {
	if c, ok := formula.ComparisonByOp(op); ok {
		g.emit(formula.Cmp(c.Symbol))
		return
	}
	g.emit(formula.Op(op))
}

func (g *generator) variable(id string) formula.Variable {
	if v, ok := g.index.Variable(id); ok {
		return v
	}
	g.logger.Debug("unresolved reference", "kind", formula.KindVariable, "id", id)
	return formula.PlaceholderVariable(id, formula.UnknownName)
}

func (g *generator) placeholderGoal(kind formula.Kind, id string) formula.Goal {
	g.logger.Debug("unresolved reference", "kind", kind, "id", id)
	return formula.PlaceholderGoal(id, formula.PlaceholderLabel(kind, id))
}

func (g *generator) placeholderQuad(kind formula.Kind, id string) formula.Quadrennium {
	g.logger.Debug("unresolved reference", "kind", kind, "id", id)
	return formula.PlaceholderQuadrennium(id, formula.PlaceholderLabel(kind, id))
}
