// Package formula holds the data model shared by every stage of the formula
// engine: the domain entities referenced by a formula, the read-only lookup
// collections they are resolved against, and the Step sum type used by the
// chip-based editor.
package formula

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount is a goal or quadrennium value. It is kept as text so that
// placeholders can carry "?" and so that decimal values survive a round trip
// untouched. JSON numbers and strings both decode into it.
type Amount string

// UnknownAmount is the value carried by placeholder entities.
const UnknownAmount Amount = "?"

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// Variable is a planning variable. A variable may carry its own formula, in
// which case references to it expand into a sub-formula in the AST.
type Variable struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Formula     Steps  `json:"formula,omitempty"`
	FormulaText string `json:"formulaText,omitempty"`

	Goals        []Goal        `json:"goals,omitempty"`
	Quadrenniums []Quadrennium `json:"quadrenniums,omitempty"`

	// Placeholder marks an entity synthesized for an id that no lookup
	// collection contained.
	Placeholder bool `json:"placeholder,omitempty"`
}

// HasFormula reports whether the variable carries a non-empty formula.
func (v Variable) HasFormula() bool {
	return len(v.Formula) > 0
}

// Goal is a target value of a variable or indicator for a given year.
type Goal struct {
	ID          string `json:"id"`
	Year        int    `json:"year,omitempty"`
	Value       Amount `json:"value"`
	Label       string `json:"label,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Quadrennium is a four-year target of a variable or indicator.
type Quadrennium struct {
	ID          string `json:"id"`
	StartYear   int    `json:"startYear,omitempty"`
	EndYear     int    `json:"endYear,omitempty"`
	Value       Amount `json:"value"`
	Label       string `json:"label,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Labels generated for entities that could not be resolved.
const (
	UnknownName  = "Desconocido"
	BaselineName = "Línea Base"
)

// PlaceholderVariable synthesizes a variable for an unresolved id.
func PlaceholderVariable(id, name string) Variable {
	return Variable{ID: id, Name: name, Placeholder: true}
}

// PlaceholderGoal synthesizes a goal for an unresolved id.
func PlaceholderGoal(id, label string) Goal {
	return Goal{ID: id, Value: UnknownAmount, Label: label, Placeholder: true}
}

// PlaceholderQuadrennium synthesizes a quadrennium for an unresolved id.
func PlaceholderQuadrennium(id, label string) Quadrennium {
	return Quadrennium{ID: id, Value: UnknownAmount, Label: label, Placeholder: true}
}

// PlaceholderLabel returns the display label generated for an unresolved
// reference of the given kind.
func PlaceholderLabel(kind Kind, id string) string {
	switch kind {
	case KindGoalVariable:
		return fmt.Sprintf("Meta Var [%s]", id)
	case KindGoalIndicator:
		return fmt.Sprintf("Meta Ind [%s]", id)
	case KindQuadVariable:
		return fmt.Sprintf("Cuatrienio Var [%s]", id)
	case KindQuadIndicator:
		return fmt.Sprintf("Cuatrienio Ind [%s]", id)
	case KindAdvance:
		return fmt.Sprintf("Avance [%s]", id)
	default:
		return id
	}
}
