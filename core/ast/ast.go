// Package ast defines the evaluator-facing tree built from a formula.
//
// Every node is one of a closed set of pointer types; a type switch over
// Node is exhaustive when it covers the types in this file.
package ast

import (
	"strconv"
	"strings"
)

// Kind is the wire discriminator of a node.
type Kind string

const (
	KindBinary     Kind = "binary"
	KindCall       Kind = "call"
	KindRef        Kind = "ref"
	KindConst      Kind = "const"
	KindGoalVar    Kind = "goal_var"
	KindGoalInd    Kind = "goal_ind"
	KindQuadVar    Kind = "quad_var"
	KindQuadInd    Kind = "quad_ind"
	KindBaseline   Kind = "baseline"
	KindRefAdvance Kind = "ref_advance"
	KindError      Kind = "error"
)

// Node represents any node in the AST
type Node interface {
	Kind() Kind
	String() string
	node()
}

// Binary is an arithmetic or comparison operation. Comparison operators use
// their ASCII form: = != > < >= <=.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Call is a function application.
type Call struct {
	Func string
	Args []Node
}

// Ref references a variable by id. SubFormula holds the tree of the
// variable's own formula when it has one.
type Ref struct {
	Value      string
	SubFormula Node
}

// Const is a numeric literal.
type Const struct {
	Value float64
}

// GoalVar references a variable goal.
type GoalVar struct{ Value string }

// GoalInd references an indicator goal.
type GoalInd struct{ Value string }

// QuadVar references a variable quadrennium.
type QuadVar struct{ Value string }

// QuadInd references an indicator quadrennium.
type QuadInd struct{ Value string }

// Baseline references the baseline value.
type Baseline struct{ Value string }

// RefAdvance references the recorded advance of a variable.
type RefAdvance struct{ Value string }

// Error marks a subtree that could not be built. The evaluator treats it as
// "cannot evaluate".
type Error struct {
	Message string
}

func (*Binary) Kind() Kind     { return KindBinary }
func (*Call) Kind() Kind       { return KindCall }
func (*Ref) Kind() Kind        { return KindRef }
func (*Const) Kind() Kind      { return KindConst }
func (*GoalVar) Kind() Kind    { return KindGoalVar }
func (*GoalInd) Kind() Kind    { return KindGoalInd }
func (*QuadVar) Kind() Kind    { return KindQuadVar }
func (*QuadInd) Kind() Kind    { return KindQuadInd }
func (*Baseline) Kind() Kind   { return KindBaseline }
func (*RefAdvance) Kind() Kind { return KindRefAdvance }
func (*Error) Kind() Kind      { return KindError }

func (*Binary) node()     {}
func (*Call) node()       {}
func (*Ref) node()        {}
func (*Const) node()      {}
func (*GoalVar) node()    {}
func (*GoalInd) node()    {}
func (*QuadVar) node()    {}
func (*QuadInd) node()    {}
func (*Baseline) node()   {}
func (*RefAdvance) node() {}
func (*Error) node()      {}

func (n *Binary) String() string {
	return "(" + n.Op + " " + str(n.Left) + " " + str(n.Right) + ")"
}

func (n *Call) String() string {
	parts := make([]string, 0, len(n.Args)+1)
	parts = append(parts, n.Func)
	for _, a := range n.Args {
		parts = append(parts, str(a))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (n *Ref) String() string {
	if n.SubFormula != nil {
		return "[" + n.Value + " = " + n.SubFormula.String() + "]"
	}
	return "[" + n.Value + "]"
}

func (n *Const) String() string { return FormatNumber(n.Value) }

func (n *GoalVar) String() string    { return "[MV:" + n.Value + "]" }
func (n *GoalInd) String() string    { return "[MI:" + n.Value + "]" }
func (n *QuadVar) String() string    { return "[QV:" + n.Value + "]" }
func (n *QuadInd) String() string    { return "[QI:" + n.Value + "]" }
func (n *Baseline) String() string   { return "[LINEA_BASE]" }
func (n *RefAdvance) String() string { return "[AV:" + n.Value + "]" }
func (n *Error) String() string      { return "error(" + strconv.Quote(n.Message) + ")" }

func str(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// FormatNumber renders v with the fewest digits that parse back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Operator precedence levels, lowest first
const (
	PrecNone = iota
	PrecComparison
	PrecAdditive
	PrecMultiplicative
)

// Precedence returns the binding level of a binary operator, or PrecNone
// for an unknown operator.
func Precedence(op string) int {
	switch op {
	case "=", "!=", ">", "<", ">=", "<=":
		return PrecComparison
	case "+", "-":
		return PrecAdditive
	case "*", "/":
		return PrecMultiplicative
	}
	return PrecNone
}

// IsComparison reports whether op is a comparison operator.
func IsComparison(op string) bool {
	return Precedence(op) == PrecComparison
}
