package parser

import (
	"fmt"
	"log/slog"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// tokenType is the builder's view of a step
type tokenType int

const (
	tokEOF tokenType = iota
	tokConst
	tokGoalVar
	tokGoalInd
	tokQuadVar
	tokQuadInd
	tokBaseline
	tokRef
	tokRefAdvance
	tokOperator
	tokComparison
	tokFunction
	tokLParen
	tokRParen
	tokComma
)

var tokenNames = [...]string{
	tokEOF:        "EOF",
	tokConst:      "const",
	tokGoalVar:    "goal_var",
	tokGoalInd:    "goal_ind",
	tokQuadVar:    "quad_var",
	tokQuadInd:    "quad_ind",
	tokBaseline:   "baseline",
	tokRef:        "ref",
	tokRefAdvance: "ref_advance",
	tokOperator:   "operator",
	tokComparison: "comparison",
	tokFunction:   "function",
	tokLParen:     "(",
	tokRParen:     ")",
	tokComma:      ",",
}

func (t tokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// token is one step reduced to what the grammar needs. Comparison
// operators carry their ASCII form.
type token struct {
	typ      tokenType
	value    string
	variable formula.Variable
}

const baselineValue = "LINEA_BASE"

// tokenize maps steps to builder tokens. Steps with an unknown symbol are
// dropped.
func tokenize(steps []formula.Step, logger *slog.Logger) []token {
	tokens := make([]token, 0, len(steps))

	for i, step := range steps {
		tok, ok := toToken(step)
		if !ok {
			logger.Debug("dropped step", "index", i, "kind", kindOf(step), "token", tokenText(step))
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

func toToken(step formula.Step) (token, bool) {
	switch s := step.(type) {
	case formula.ConstantStep:
		return token{typ: tokConst, value: s.Value}, true
	case formula.GoalVariableStep:
		return token{typ: tokGoalVar, value: s.Goal.ID}, true
	case formula.GoalIndicatorStep:
		return token{typ: tokGoalInd, value: s.Goal.ID}, true
	case formula.QuadVariableStep:
		return token{typ: tokQuadVar, value: s.Quadrennium.ID}, true
	case formula.QuadIndicatorStep:
		return token{typ: tokQuadInd, value: s.Quadrennium.ID}, true
	case formula.BaselineStep:
		return token{typ: tokBaseline, value: baselineValue}, true
	case formula.VariableStep:
		return token{typ: tokRef, value: s.Variable.ID, variable: s.Variable}, true
	case formula.AdvanceStep:
		return token{typ: tokRefAdvance, value: s.Variable.ID}, true
	case formula.OperatorStep:
		if formula.IsArithmetic(s.Symbol) {
			return token{typ: tokOperator, value: s.Symbol}, true
		}
	case formula.ComparisonStep:
		if c, ok := formula.ComparisonBySymbol(s.Symbol); ok {
			return token{typ: tokComparison, value: c.Op}, true
		}
		if c, ok := formula.ComparisonByOp(s.Symbol); ok {
			return token{typ: tokComparison, value: c.Op}, true
		}
	case formula.FunctionStep:
		return token{typ: tokFunction, value: s.Function.Name}, true
	case formula.ParenStep:
		switch s.Symbol {
		case "(":
			return token{typ: tokLParen, value: "("}, true
		case ")":
			return token{typ: tokRParen, value: ")"}, true
		}
	case formula.SeparatorStep:
		return token{typ: tokComma, value: ","}, true
	}
	return token{}, false
}

func kindOf(s formula.Step) string {
	if s == nil {
		return "<nil>"
	}
	return string(s.Kind())
}

func tokenText(s formula.Step) string {
	if s == nil {
		return ""
	}
	return s.Token()
}
