package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

func withFormula(id string, steps ...formula.Step) formula.Variable {
	return formula.Variable{ID: id, Name: id, Formula: steps}
}

func TestValidateNoRecursion_SelfReference(t *testing.T) {
	lookups := &formula.Lookups{Variables: []formula.Variable{
		withFormula("a", v("a"), formula.Op("+"), c("1")),
	}}

	err := ValidateNoRecursion(lookups)
	require.Error(t, err, "should detect recursion")

	var recursionErr *RecursionError
	require.ErrorAs(t, err, &recursionErr)
	assert.Equal(t, "a", recursionErr.Variable)
	assert.Equal(t, []string{"a", "a"}, recursionErr.Cycle)
	assert.Equal(t, "Referencia circular: a -> a", recursionErr.Message)
}

func TestValidateNoRecursion_IndirectReference(t *testing.T) {
	lookups := &formula.Lookups{Variables: []formula.Variable{
		withFormula("a", v("b")),
		withFormula("b", formula.Call("SUM"), v("c"), formula.Sep(), c("2"), formula.Close()),
		withFormula("c", v("a"), formula.Op("*"), c("2")),
	}}

	err := ValidateNoRecursion(lookups)

	var recursionErr *RecursionError
	require.ErrorAs(t, err, &recursionErr)
	assert.Equal(t, []string{"a", "b", "c", "a"}, recursionErr.Cycle)
	assert.Contains(t, recursionErr.Error(), "a -> b -> c -> a")
}

func TestValidateNoRecursion_CycleNotThroughStart(t *testing.T) {
	lookups := &formula.Lookups{Variables: []formula.Variable{
		withFormula("root", v("x")),
		withFormula("x", v("y")),
		withFormula("y", v("x")),
	}}

	var recursionErr *RecursionError
	require.ErrorAs(t, ValidateNoRecursion(lookups), &recursionErr)
	assert.Equal(t, []string{"x", "y", "x"}, recursionErr.Cycle)
}

func TestValidateNoRecursion_Acyclic(t *testing.T) {
	lookups := &formula.Lookups{Variables: []formula.Variable{
		withFormula("total", v("a"), formula.Op("+"), v("b"), formula.Op("+"), v("a")),
		withFormula("a", v("b"), formula.Op("*"), c("2")),
		{ID: "b", Name: "b"},
	}}

	assert.NoError(t, ValidateNoRecursion(lookups))
}

func TestValidateNoRecursion_UnknownReference(t *testing.T) {
	lookups := &formula.Lookups{Variables: []formula.Variable{
		withFormula("a", v("missing")),
	}}

	assert.NoError(t, ValidateNoRecursion(lookups))
	assert.NoError(t, ValidateNoRecursion(nil))
}
