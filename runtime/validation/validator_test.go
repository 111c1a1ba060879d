package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

func v(id string) formula.Step { return formula.Var(formula.Variable{ID: id, Name: id}) }
func c(n string) formula.Step  { return formula.Const(n) }

func TestValidate_Empty(t *testing.T) {
	res := Validate(nil)

	assert.False(t, res.IsComplete)
	assert.False(t, res.CanSave)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_FunctionWithoutArguments(t *testing.T) {
	res := Validate([]formula.Step{formula.Call("SUM"), formula.Close()})

	assert.False(t, res.IsValid)
	assert.False(t, res.CanSave)
	require.Len(t, res.Errors, 1)
	assert.Regexp(t, "sin argumentos", res.Errors[0])
	assert.Equal(t, "Función SUM sin argumentos", res.Errors[0])
}

func TestValidate_WellFormed(t *testing.T) {
	tests := []struct {
		name  string
		steps []formula.Step
	}{
		{
			name:  "single value",
			steps: []formula.Step{c("1")},
		},
		{
			name:  "sum times constant",
			steps: []formula.Step{formula.Call("SUM"), v("v1"), formula.Sep(), v("v2"), formula.Close(), formula.Op("*"), c("1.2")},
		},
		{
			name:  "grouped argument counts for enclosing call",
			steps: []formula.Step{formula.Call("SUM"), formula.Open(), c("1"), formula.Close(), formula.Close()},
		},
		{
			name:  "leading unary minus",
			steps: []formula.Step{formula.Op("-"), v("v1")},
		},
		{
			name:  "unary plus after open paren",
			steps: []formula.Step{formula.Open(), formula.Op("+"), c("2"), formula.Close()},
		},
		{
			name:  "comparison with baseline",
			steps: []formula.Step{v("v1"), formula.Cmp("≥"), formula.BaselineStep{}},
		},
		{
			name:  "nested calls",
			steps: []formula.Step{formula.Call("MAX"), formula.Call("AVG"), c("1"), formula.Sep(), c("2"), formula.Close(), formula.Sep(), c("3"), formula.Close()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.steps)

			assert.True(t, res.IsValid, "errors: %v", res.Errors)
			assert.True(t, res.IsComplete)
			assert.True(t, res.CanSave)
			assert.Empty(t, res.Errors)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		steps  []formula.Step
		errors []string
	}{
		{
			name:   "close without open",
			steps:  []formula.Step{formula.Close(), c("1")},
			errors: []string{MsgUnopenedClose},
		},
		{
			name:   "leading multiply",
			steps:  []formula.Step{formula.Op("*"), c("1")},
			errors: []string{MsgLeadingOperator},
		},
		{
			name:   "leading comparison",
			steps:  []formula.Step{formula.Cmp("="), c("1")},
			errors: []string{MsgLeadingOperator},
		},
		{
			name:   "consecutive operators",
			steps:  []formula.Step{c("1"), formula.Op("+"), formula.Op("*"), c("2")},
			errors: []string{MsgConsecutiveOperators},
		},
		{
			name:   "operator then comparison",
			steps:  []formula.Step{c("1"), formula.Cmp(">"), formula.Op("-"), c("2")},
			errors: []string{MsgConsecutiveOperators},
		},
		{
			name:   "divide after open paren",
			steps:  []formula.Step{formula.Open(), formula.Op("/"), c("2"), formula.Close()},
			errors: []string{MsgOperatorAfterOpen},
		},
		{
			name:   "multiply after function",
			steps:  []formula.Step{formula.Call("SUM"), formula.Op("*"), c("2"), formula.Close()},
			errors: []string{MsgOperatorAfterOpen},
		},
		{
			name:   "consecutive separators",
			steps:  []formula.Step{formula.Call("SUM"), c("1"), formula.Sep(), formula.Sep(), c("2"), formula.Close()},
			errors: []string{MsgConsecutiveSeparators},
		},
		{
			name:   "unclosed groups",
			steps:  []formula.Step{formula.Open(), formula.Open(), c("1")},
			errors: []string{"2 paréntesis sin cerrar"},
		},
		{
			name:   "empty inner function",
			steps:  []formula.Step{formula.Call("SUM"), c("1"), formula.Sep(), formula.Call("MIN"), formula.Close(), formula.Close()},
			errors: []string{"Función MIN sin argumentos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.steps)

			assert.False(t, res.IsValid)
			assert.False(t, res.CanSave)
			assert.Equal(t, tt.errors, res.Errors)
		})
	}
}

func TestValidate_SeparatorOutsideFunction(t *testing.T) {
	res := Validate([]formula.Step{formula.Open(), c("1"), formula.Sep(), c("2"), formula.Close()})

	assert.True(t, res.IsValid)
	assert.True(t, res.IsComplete)
	assert.Equal(t, []string{MsgSeparatorOutOfContext}, res.Warnings)
}

func TestValidate_SeparatorInsideGroupOfFunction(t *testing.T) {
	res := Validate([]formula.Step{formula.Call("SUM"), formula.Open(), c("1"), formula.Sep(), c("2"), formula.Close(), formula.Close()})

	assert.Empty(t, res.Warnings)
}

func TestValidate_Incomplete(t *testing.T) {
	tests := []struct {
		name     string
		steps    []formula.Step
		errors   []string
		warnings []string
	}{
		{
			name:     "trailing operator",
			steps:    []formula.Step{c("1"), formula.Op("+")},
			errors:   []string{},
			warnings: []string{MsgTrailingOperator},
		},
		{
			name:     "trailing comparison",
			steps:    []formula.Step{c("1"), formula.Cmp("≤")},
			errors:   []string{},
			warnings: []string{MsgTrailingOperator},
		},
		{
			name:     "trailing function",
			steps:    []formula.Step{formula.Call("AVG")},
			errors:   []string{"1 paréntesis sin cerrar"},
			warnings: []string{MsgTrailingOpen},
		},
		{
			name:     "trailing open paren",
			steps:    []formula.Step{c("2"), formula.Op("*"), formula.Open()},
			errors:   []string{"1 paréntesis sin cerrar"},
			warnings: []string{MsgTrailingOpen},
		},
		{
			name:     "trailing separator",
			steps:    []formula.Step{formula.Call("SUM"), c("1"), formula.Sep()},
			errors:   []string{"1 paréntesis sin cerrar"},
			warnings: []string{MsgTrailingSeparator},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.steps)

			assert.False(t, res.IsComplete)
			assert.False(t, res.CanSave)
			assert.Equal(t, tt.errors, res.Errors)
			assert.Equal(t, tt.warnings, res.Warnings)
		})
	}
}

func TestValidate_CanSaveIsValidAndComplete(t *testing.T) {
	inputs := [][]formula.Step{
		{},
		{c("1")},
		{c("1"), formula.Op("+")},
		{formula.Close()},
		{formula.Open(), c("1")},
		{formula.Call("IF"), v("a"), formula.Cmp(">"), c("0"), formula.Sep(), c("1"), formula.Sep(), c("0"), formula.Close()},
	}

	for _, steps := range inputs {
		res := Validate(steps)
		assert.Equal(t, res.IsValid && res.IsComplete, res.CanSave, "steps: %s", formula.Serialize(steps))
		assert.Equal(t, len(res.Errors) == 0, res.IsValid)
	}
}
