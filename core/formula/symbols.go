package formula

import "strings"

// Function describes one of the aggregate or conditional functions a formula
// may call.
type Function struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var functions = []Function{
	{Name: "SUM", Label: "Suma", Description: "Suma de los argumentos"},
	{Name: "AVG", Label: "Promedio", Description: "Promedio de los argumentos"},
	{Name: "MAX", Label: "Máximo", Description: "Mayor de los argumentos"},
	{Name: "MIN", Label: "Mínimo", Description: "Menor de los argumentos"},
	{Name: "IF", Label: "Si", Description: "IF(condición, valor si verdadero, valor si falso)"},
}

// Functions returns the supported function descriptors.
func Functions() []Function {
	out := make([]Function, len(functions))
	copy(out, functions)
	return out
}

// LookupFunction finds a function descriptor by name, ignoring case.
func LookupFunction(name string) (Function, bool) {
	for _, f := range functions {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Function{}, false
}

// Arithmetic operator symbols.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
)

// IsArithmetic reports whether sym is one of the four arithmetic operators.
func IsArithmetic(sym string) bool {
	switch sym {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// IsUnary reports whether an arithmetic operator may start an expression.
func IsUnary(sym string) bool {
	return sym == OpAdd || sym == OpSub
}

// Comparison maps a persisted comparison symbol to its evaluator operator.
type Comparison struct {
	Symbol string // as written in the formula string: ≠
	Op     string // as emitted in the AST: !=
	Label  string
}

var comparisons = []Comparison{
	{Symbol: "=", Op: "=", Label: "igual a"},
	{Symbol: "≠", Op: "!=", Label: "distinto de"},
	{Symbol: ">", Op: ">", Label: "mayor que"},
	{Symbol: "<", Op: "<", Label: "menor que"},
	{Symbol: "≥", Op: ">=", Label: "mayor o igual que"},
	{Symbol: "≤", Op: "<=", Label: "menor o igual que"},
}

// ComparisonBySymbol finds a comparison by its persisted symbol.
func ComparisonBySymbol(sym string) (Comparison, bool) {
	for _, c := range comparisons {
		if c.Symbol == sym {
			return c, true
		}
	}
	return Comparison{}, false
}

// ComparisonByOp finds a comparison by its AST operator.
func ComparisonByOp(op string) (Comparison, bool) {
	for _, c := range comparisons {
		if c.Op == op {
			return c, true
		}
	}
	return Comparison{}, false
}

// Reserved wire prefixes for tagged references.
const (
	PrefixGoalVariable  = "MV"
	PrefixGoalIndicator = "MI"
	PrefixQuadVariable  = "QV"
	PrefixQuadIndicator = "QI"
	PrefixAdvance       = "AV"

	BaselineToken = "[LINEA_BASE]"
)
