// Package resolver turns raw formula tokens into typed editor steps,
// resolving bracketed references against the lookup collections.
package resolver

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/invariant"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/lexer"
)

var (
	constantRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)
	functionRegex = regexp.MustCompile(`(?i)^(SUM|AVG|MAX|MIN|IF)\($`)
	taggedRegex   = regexp.MustCompile(`^\[(MV|MI|QV|QI|AV):(.+)\]$`)
	bracketRegex  = regexp.MustCompile(`^\[(.+)\]$`)
)

// Unresolved is a reference whose id no lookup collection contained. The
// step built for it carries a placeholder entity.
type Unresolved struct {
	Kind  formula.Kind
	ID    string
	Index int // position in the step sequence
}

// Result is the outcome of parsing one formula string
type Result struct {
	Steps      []formula.Step
	Unresolved []Unresolved
	Skipped    []lexer.Span
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger routes debug events (unresolved ids, dropped tokens) to logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver maps tokens to steps against one snapshot of lookup collections
type Resolver struct {
	index  *formula.Index
	logger *slog.Logger
}

// New creates a Resolver over lookups. A nil lookups resolves nothing.
func New(lookups *formula.Lookups, opts ...Option) *Resolver {
	return NewWithIndex(formula.NewIndex(lookups), opts...)
}

// NewWithIndex creates a Resolver over a prebuilt index
func NewWithIndex(index *formula.Index, opts ...Option) *Resolver {
	invariant.NotNil(index, "index")
	r := &Resolver{
		index:  index,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps one raw token to a step. It returns false for tokens that
// match no rule; those are dropped by callers.
func (r *Resolver) Resolve(token string) (formula.Step, bool) {
	step, _, ok := r.resolve(token)
	return step, ok
}

// resolve also reports whether the step carries a placeholder entity
func (r *Resolver) resolve(token string) (formula.Step, bool, bool) {
	if token == formula.BaselineToken {
		return formula.BaselineStep{}, false, true
	}

	if m := taggedRegex.FindStringSubmatch(token); m != nil {
		step, placeholder := r.tagged(m[1], m[2])
		return step, placeholder, true
	}

	if m := bracketRegex.FindStringSubmatch(token); m != nil {
		id := m[1]
		if v, ok := r.index.Variable(id); ok {
			return formula.VariableStep{Variable: v}, false, true
		}
		return formula.VariableStep{Variable: formula.PlaceholderVariable(id, id)}, true, true
	}

	if m := functionRegex.FindStringSubmatch(token); m != nil {
		return formula.Call(m[1]), false, true
	}

	switch {
	case formula.IsArithmetic(token):
		return formula.Op(token), false, true
	case isComparison(token):
		return formula.Cmp(token), false, true
	case token == ",":
		return formula.Sep(), false, true
	case token == "(":
		return formula.Open(), false, true
	case token == ")":
		return formula.Close(), false, true
	case constantRegex.MatchString(token):
		return formula.Const(token), false, true
	}

	return nil, false, false
}

func isComparison(token string) bool {
	_, ok := formula.ComparisonBySymbol(token)
	return ok
}

func (r *Resolver) tagged(prefix, id string) (formula.Step, bool) {
	switch prefix {
	case formula.PrefixGoalVariable:
		if g, ok := r.index.GoalVariable(id); ok {
			return formula.GoalVariableStep{Goal: g}, false
		}
		return formula.GoalVariableStep{Goal: placeholderGoal(formula.KindGoalVariable, id)}, true

	case formula.PrefixGoalIndicator:
		if g, ok := r.index.GoalIndicator(id); ok {
			return formula.GoalIndicatorStep{Goal: g}, false
		}
		return formula.GoalIndicatorStep{Goal: placeholderGoal(formula.KindGoalIndicator, id)}, true

	case formula.PrefixQuadVariable:
		if q, ok := r.index.QuadVariable(id); ok {
			return formula.QuadVariableStep{Quadrennium: q}, false
		}
		return formula.QuadVariableStep{Quadrennium: placeholderQuad(formula.KindQuadVariable, id)}, true

	case formula.PrefixQuadIndicator:
		if q, ok := r.index.QuadIndicator(id); ok {
			return formula.QuadIndicatorStep{Quadrennium: q}, false
		}
		return formula.QuadIndicatorStep{Quadrennium: placeholderQuad(formula.KindQuadIndicator, id)}, true
	}

	invariant.Invariant(prefix == formula.PrefixAdvance, "unhandled reference prefix %q", prefix)
	if v, ok := r.index.Variable(id); ok {
		return formula.AdvanceStep{Variable: v}, false
	}
	return formula.AdvanceStep{Variable: formula.PlaceholderVariable(id, formula.UnknownName)}, true
}

func placeholderGoal(kind formula.Kind, id string) formula.Goal {
	return formula.PlaceholderGoal(id, formula.PlaceholderLabel(kind, id))
}

func placeholderQuad(kind formula.Kind, id string) formula.Quadrennium {
	return formula.PlaceholderQuadrennium(id, formula.PlaceholderLabel(kind, id))
}

// Parse tokenizes text and resolves every token, reporting placeholders and
// dropped input alongside the steps.
func (r *Resolver) Parse(text string) Result {
	tokens, skipped := lexer.Scan(text, lexer.WithLogger(r.logger))

	res := Result{
		Steps:   make([]formula.Step, 0, len(tokens)),
		Skipped: skipped,
	}
	for _, tok := range tokens {
		step, placeholder, ok := r.resolve(tok.Text)
		if !ok {
			r.logger.Debug("token dropped", "token", tok.Text, "column", tok.Position.Column)
			continue
		}
		if placeholder {
			u := Unresolved{Kind: step.Kind(), ID: referenceID(step), Index: len(res.Steps)}
			res.Unresolved = append(res.Unresolved, u)
			r.logger.Debug("unresolved reference", "kind", string(u.Kind), "id", u.ID)
		}
		res.Steps = append(res.Steps, step)
	}
	return res
}

// ParseFormulaString converts a persisted formula string into editor steps.
// Unrecognized input is dropped silently.
func ParseFormulaString(text string, lookups *formula.Lookups) []formula.Step {
	text = strings.TrimSpace(text)
	if text == "" {
		return []formula.Step{}
	}
	return New(lookups).Parse(text).Steps
}

// referenceID returns the entity id a reference step points at
func referenceID(s formula.Step) string {
	switch v := s.(type) {
	case formula.VariableStep:
		return v.Variable.ID
	case formula.AdvanceStep:
		return v.Variable.ID
	case formula.GoalVariableStep:
		return v.Goal.ID
	case formula.GoalIndicatorStep:
		return v.Goal.ID
	case formula.QuadVariableStep:
		return v.Quadrennium.ID
	case formula.QuadIndicatorStep:
		return v.Quadrennium.ID
	}
	return ""
}
