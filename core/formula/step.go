package formula

import "strings"

// Kind names a Step variant. The values are the wire discriminators used in
// the editor JSON.
type Kind string

const (
	KindVariable      Kind = "variable"
	KindGoalVariable  Kind = "goal_variable"
	KindGoalIndicator Kind = "goal_indicator"
	KindQuadVariable  Kind = "quadrennium_variable"
	KindQuadIndicator Kind = "quadrennium_indicator"
	KindBaseline      Kind = "baseline"
	KindFunction      Kind = "function"
	KindOperator      Kind = "operator"
	KindComparison    Kind = "comparison"
	KindConstant      Kind = "constant"
	KindSeparator     Kind = "separator"
	KindParenthesis   Kind = "parenthesis"
	KindAdvance       Kind = "advance"
)

// Step is one chip of the formula editor. Every variant is a value type;
// order inside a sequence is the linear token stream.
type Step interface {
	Kind() Kind
	// Token is the persisted form of the step.
	Token() string
	// Label is the human-readable chip text.
	Label() string
	isStep()
}

// VariableStep references a variable, possibly carrying its own formula.
type VariableStep struct {
	Variable Variable
}

// GoalVariableStep references a variable goal: [MV:id].
type GoalVariableStep struct {
	Goal Goal
}

// GoalIndicatorStep references an indicator goal: [MI:id].
type GoalIndicatorStep struct {
	Goal Goal
}

// QuadVariableStep references a variable quadrennium: [QV:id].
type QuadVariableStep struct {
	Quadrennium Quadrennium
}

// QuadIndicatorStep references an indicator quadrennium: [QI:id].
type QuadIndicatorStep struct {
	Quadrennium Quadrennium
}

// BaselineStep references the baseline value: [LINEA_BASE].
type BaselineStep struct{}

// FunctionStep opens a function call: SUM(.
type FunctionStep struct {
	Function Function
}

// OperatorStep is an arithmetic operator.
type OperatorStep struct {
	Symbol string
}

// ComparisonStep is a comparison operator in its persisted symbol.
type ComparisonStep struct {
	Symbol string
}

// ConstantStep is a decimal literal. The value stays textual until the AST
// builder converts it.
type ConstantStep struct {
	Value string
}

// SeparatorStep separates function arguments.
type SeparatorStep struct{}

// ParenStep is an opening or closing parenthesis.
type ParenStep struct {
	Symbol string
}

// AdvanceStep references a variable's progress value: [AV:id].
type AdvanceStep struct {
	Variable Variable
}

func (VariableStep) Kind() Kind      { return KindVariable }
func (GoalVariableStep) Kind() Kind  { return KindGoalVariable }
func (GoalIndicatorStep) Kind() Kind { return KindGoalIndicator }
func (QuadVariableStep) Kind() Kind  { return KindQuadVariable }
func (QuadIndicatorStep) Kind() Kind { return KindQuadIndicator }
func (BaselineStep) Kind() Kind      { return KindBaseline }
func (FunctionStep) Kind() Kind      { return KindFunction }
func (OperatorStep) Kind() Kind      { return KindOperator }
func (ComparisonStep) Kind() Kind    { return KindComparison }
func (ConstantStep) Kind() Kind      { return KindConstant }
func (SeparatorStep) Kind() Kind     { return KindSeparator }
func (ParenStep) Kind() Kind         { return KindParenthesis }
func (AdvanceStep) Kind() Kind       { return KindAdvance }

func (s VariableStep) Token() string      { return "[" + s.Variable.ID + "]" }
func (s GoalVariableStep) Token() string  { return tagged(PrefixGoalVariable, s.Goal.ID) }
func (s GoalIndicatorStep) Token() string { return tagged(PrefixGoalIndicator, s.Goal.ID) }
func (s QuadVariableStep) Token() string  { return tagged(PrefixQuadVariable, s.Quadrennium.ID) }
func (s QuadIndicatorStep) Token() string { return tagged(PrefixQuadIndicator, s.Quadrennium.ID) }
func (BaselineStep) Token() string        { return BaselineToken }
func (s FunctionStep) Token() string      { return strings.ToUpper(s.Function.Name) + "(" }
func (s OperatorStep) Token() string      { return s.Symbol }
func (s ComparisonStep) Token() string    { return s.Symbol }
func (s ConstantStep) Token() string      { return s.Value }
func (SeparatorStep) Token() string       { return "," }
func (s ParenStep) Token() string         { return s.Symbol }
func (s AdvanceStep) Token() string       { return tagged(PrefixAdvance, s.Variable.ID) }

func tagged(prefix, id string) string {
	return "[" + prefix + ":" + id + "]"
}

func (s VariableStep) Label() string {
	if s.Variable.Name != "" {
		return s.Variable.Name
	}
	return s.Variable.ID
}

func (s GoalVariableStep) Label() string {
	return goalLabel(s.Goal, KindGoalVariable)
}

func (s GoalIndicatorStep) Label() string {
	return goalLabel(s.Goal, KindGoalIndicator)
}

func (s QuadVariableStep) Label() string {
	return quadLabel(s.Quadrennium, KindQuadVariable)
}

func (s QuadIndicatorStep) Label() string {
	return quadLabel(s.Quadrennium, KindQuadIndicator)
}

func (BaselineStep) Label() string { return BaselineName }

func (s FunctionStep) Label() string {
	if s.Function.Label != "" {
		return s.Function.Label
	}
	return s.Function.Name
}

func (s OperatorStep) Label() string { return s.Symbol }

func (s ComparisonStep) Label() string {
	if c, ok := ComparisonBySymbol(s.Symbol); ok {
		return c.Label
	}
	return s.Symbol
}

func (s ConstantStep) Label() string { return s.Value }
func (SeparatorStep) Label() string  { return "," }
func (s ParenStep) Label() string    { return s.Symbol }

func (s AdvanceStep) Label() string {
	if s.Variable.Placeholder || s.Variable.Name == "" {
		return PlaceholderLabel(KindAdvance, s.Variable.ID)
	}
	return "Avance " + s.Variable.Name
}

func goalLabel(g Goal, kind Kind) string {
	if g.Label != "" {
		return g.Label
	}
	return PlaceholderLabel(kind, g.ID)
}

func quadLabel(q Quadrennium, kind Kind) string {
	if q.Label != "" {
		return q.Label
	}
	return PlaceholderLabel(kind, q.ID)
}

func (VariableStep) isStep()      {}
func (GoalVariableStep) isStep()  {}
func (GoalIndicatorStep) isStep() {}
func (QuadVariableStep) isStep()  {}
func (QuadIndicatorStep) isStep() {}
func (BaselineStep) isStep()      {}
func (FunctionStep) isStep()      {}
func (OperatorStep) isStep()      {}
func (ComparisonStep) isStep()    {}
func (ConstantStep) isStep()      {}
func (SeparatorStep) isStep()     {}
func (ParenStep) isStep()         {}
func (AdvanceStep) isStep()       {}

// Convenience constructors.

// Op returns an arithmetic operator step.
func Op(sym string) OperatorStep { return OperatorStep{Symbol: sym} }

// Cmp returns a comparison step for a persisted symbol.
func Cmp(sym string) ComparisonStep { return ComparisonStep{Symbol: sym} }

// Const returns a constant step.
func Const(value string) ConstantStep { return ConstantStep{Value: value} }

// Open returns an opening parenthesis step.
func Open() ParenStep { return ParenStep{Symbol: "("} }

// Close returns a closing parenthesis step.
func Close() ParenStep { return ParenStep{Symbol: ")"} }

// Sep returns a separator step.
func Sep() SeparatorStep { return SeparatorStep{} }

// Call returns a function step for name. Unknown names keep the name as label.
func Call(name string) FunctionStep {
	if f, ok := LookupFunction(name); ok {
		return FunctionStep{Function: f}
	}
	return FunctionStep{Function: Function{Name: strings.ToUpper(name), Label: name}}
}

// Var returns a variable step.
func Var(v Variable) VariableStep { return VariableStep{Variable: v} }

// IsValue reports whether s produces a value: a reference, a constant or the
// baseline.
func IsValue(s Step) bool {
	switch s.(type) {
	case VariableStep, AdvanceStep, ConstantStep,
		GoalVariableStep, GoalIndicatorStep,
		QuadVariableStep, QuadIndicatorStep, BaselineStep:
		return true
	}
	return false
}

// IsOperator reports whether s is an arithmetic or comparison operator.
func IsOperator(s Step) bool {
	switch s.(type) {
	case OperatorStep, ComparisonStep:
		return true
	}
	return false
}

// IsOpenParen reports whether s is "(".
func IsOpenParen(s Step) bool {
	p, ok := s.(ParenStep)
	return ok && p.Symbol == "("
}

// IsCloseParen reports whether s is ")".
func IsCloseParen(s Step) bool {
	p, ok := s.(ParenStep)
	return ok && p.Symbol == ")"
}

// Opens reports whether s opens a nesting level: a function or "(".
func Opens(s Step) bool {
	if _, ok := s.(FunctionStep); ok {
		return true
	}
	return IsOpenParen(s)
}
