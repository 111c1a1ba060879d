// Package validation checks the structure of an editor step sequence and
// derives the status shown to the planner.
package validation

import (
	"fmt"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// Validator messages
const (
	MsgUnopenedClose         = "Paréntesis de cierre sin abrir"
	MsgConsecutiveOperators  = "Operadores consecutivos no permitidos"
	MsgLeadingOperator       = "La fórmula no puede iniciar con un operador (solo se permite + o -)"
	MsgOperatorAfterOpen     = "Operador no permitido después de abrir una función o paréntesis (solo se permite + o -)"
	MsgSeparatorOutOfContext = "Separador fuera de contexto: solo se usa entre argumentos de una función"
	MsgConsecutiveSeparators = "Separadores consecutivos no permitidos"

	MsgTrailingOperator  = "La fórmula termina con un operador: agregue un valor"
	MsgTrailingOpen      = "La fórmula termina con una función o paréntesis abierto: agregue un argumento"
	MsgTrailingSeparator = "La fórmula termina con un separador: agregue el siguiente argumento"
	MsgIncomplete        = "La fórmula está incompleta"
)

func msgFunctionWithoutArgs(name string) string {
	return fmt.Sprintf("Función %s sin argumentos", name)
}

func msgUnclosed(n int) string {
	return fmt.Sprintf("%d paréntesis sin cerrar", n)
}

// Result is the structural verdict over one step sequence. It is computed
// fresh for every version of the sequence.
type Result struct {
	IsValid    bool     `json:"isValid"`
	IsComplete bool     `json:"isComplete"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	CanSave    bool     `json:"canSave"`
}

// frame is one open function call or parenthesis
type frame struct {
	index     int
	hasArgs   bool
	name      string
	parenOnly bool
}

type validator struct {
	balance  int
	stack    []frame
	errors   []string
	warnings []string
}

// Validate scans steps once and reports errors, warnings and completeness.
// An empty sequence is incomplete but carries no errors.
func Validate(steps []formula.Step) Result {
	v := &validator{}
	var prev formula.Step

	for i, step := range steps {
		v.step(i, step, prev)
		prev = step
	}

	if v.balance > 0 {
		v.errors = append(v.errors, msgUnclosed(v.balance))
	}

	complete := false
	if prev != nil {
		complete = formula.IsValue(prev) || formula.IsCloseParen(prev)
		if !complete {
			v.warnings = append(v.warnings, trailingWarning(prev))
		}
	}

	res := Result{
		IsValid:    len(v.errors) == 0,
		IsComplete: complete,
		Errors:     v.errors,
		Warnings:   v.warnings,
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	res.CanSave = res.IsValid && res.IsComplete
	return res
}

func (v *validator) step(i int, step, prev formula.Step) {
	switch s := step.(type) {
	case formula.FunctionStep:
		v.balance++
		v.stack = append(v.stack, frame{index: i, name: s.Function.Name})

	case formula.ParenStep:
		if formula.IsOpenParen(s) {
			v.balance++
			v.stack = append(v.stack, frame{index: i, parenOnly: true})
			return
		}
		v.close()

	case formula.OperatorStep:
		v.operator(s.Symbol, prev)

	case formula.ComparisonStep:
		v.operator(s.Symbol, prev)

	case formula.SeparatorStep:
		if !v.insideFunction() {
			v.warnings = append(v.warnings, MsgSeparatorOutOfContext)
		}
		if _, ok := prev.(formula.SeparatorStep); ok {
			v.errors = append(v.errors, MsgConsecutiveSeparators)
		}

	default:
		if formula.IsValue(step) && len(v.stack) > 0 {
			v.stack[len(v.stack)-1].hasArgs = true
		}
	}
}

func (v *validator) close() {
	v.balance--
	if v.balance < 0 {
		v.errors = append(v.errors, MsgUnopenedClose)
	}
	if len(v.stack) == 0 {
		return
	}

	top := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]

	if !top.parenOnly && !top.hasArgs {
		v.errors = append(v.errors, msgFunctionWithoutArgs(top.name))
	}
	// A value inside a nested group is also an argument of the enclosing call.
	if top.hasArgs && len(v.stack) > 0 {
		v.stack[len(v.stack)-1].hasArgs = true
	}
}

func (v *validator) operator(sym string, prev formula.Step) {
	unary := formula.IsUnary(sym)

	switch {
	case prev == nil:
		if !unary {
			v.errors = append(v.errors, MsgLeadingOperator)
		}
	case formula.IsOperator(prev):
		v.errors = append(v.errors, MsgConsecutiveOperators)
	case formula.Opens(prev):
		if !unary {
			v.errors = append(v.errors, MsgOperatorAfterOpen)
		}
	}
}

// insideFunction reports whether any open frame is a function call
func (v *validator) insideFunction() bool {
	for _, f := range v.stack {
		if !f.parenOnly {
			return true
		}
	}
	return false
}

func trailingWarning(last formula.Step) string {
	switch {
	case formula.IsOperator(last):
		return MsgTrailingOperator
	case formula.Opens(last):
		return MsgTrailingOpen
	}
	if _, ok := last.(formula.SeparatorStep); ok {
		return MsgTrailingSeparator
	}
	return MsgIncomplete
}
