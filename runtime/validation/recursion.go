package validation

import (
	"fmt"
	"strings"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// RecursionError reports a variable whose formula reaches itself through
// variable references.
type RecursionError struct {
	Variable string   // The variable where the cycle closes
	Cycle    []string // The cycle path (e.g., ["a", "b", "a"])
	Message  string
}

func (e *RecursionError) Error() string {
	return e.Message
}

// ValidateNoRecursion checks that no variable formula in lookups references
// itself, directly or transitively. Variables are visited in lookup order so
// the reported cycle is stable.
func ValidateNoRecursion(lookups *formula.Lookups) error {
	if lookups == nil {
		return nil
	}

	variables := make(map[string]formula.Variable, len(lookups.Variables))
	for _, v := range lookups.Variables {
		if _, seen := variables[v.ID]; !seen {
			variables[v.ID] = v
		}
	}

	for _, v := range lookups.Variables {
		if err := detectRecursion(v.ID, variables, nil, make(map[string]bool)); err != nil {
			return err
		}
	}

	return nil
}

// detectRecursion performs depth-first search over variable references
func detectRecursion(id string, variables map[string]formula.Variable, path []string, visiting map[string]bool) error {
	if visiting[id] {
		start := 0
		for i, p := range path {
			if p == id {
				start = i
				break
			}
		}

		cycle := make([]string, 0, len(path)-start+1)
		cycle = append(cycle, path[start:]...)
		cycle = append(cycle, id)

		return &RecursionError{
			Variable: id,
			Cycle:    cycle,
			Message:  fmt.Sprintf("Referencia circular: %s", strings.Join(cycle, " -> ")),
		}
	}

	v, exists := variables[id]
	if !exists {
		// Unknown references resolve to placeholders without a formula
		return nil
	}

	visiting[id] = true
	next := append(path[:len(path):len(path)], id)

	for _, ref := range findVariableReferences(v.Formula) {
		if err := detectRecursion(ref, variables, next, visiting); err != nil {
			return err
		}
	}

	delete(visiting, id)
	return nil
}

// findVariableReferences lists the ids of variable steps in order, without
// duplicates.
func findVariableReferences(steps formula.Steps) []string {
	var refs []string
	seen := make(map[string]bool)

	for _, s := range steps {
		vs, ok := s.(formula.VariableStep)
		if !ok || seen[vs.Variable.ID] {
			continue
		}
		seen[vs.Variable.ID] = true
		refs = append(refs, vs.Variable.ID)
	}

	return refs
}
