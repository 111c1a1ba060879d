package catalog

import (
	stderrors "errors"
	"log/slog"
	"strings"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/resolver"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

// expandFormulas builds the step formula of every variable that only has a
// formulaText. Referenced variables are expanded first so the embedded
// entities carry their own formulas.
func expandFormulas(l *formula.Lookups, logger *slog.Logger) error {
	// References only; placeholders are enough to find the graph edges.
	shallow := formula.Lookups{Variables: make([]formula.Variable, len(l.Variables))}
	pending := make(map[int]string)
	position := make(map[string]int)

	for i, v := range l.Variables {
		shallow.Variables[i] = v
		if _, seen := position[v.ID]; !seen {
			position[v.ID] = i
		}
		if v.HasFormula() || strings.TrimSpace(v.FormulaText) == "" {
			continue
		}
		shallow.Variables[i].Formula = resolver.ParseFormulaString(v.FormulaText, nil)
		pending[i] = v.FormulaText
	}

	if err := validation.ValidateNoRecursion(&shallow); err != nil {
		fe := ferrors.Wrap(ferrors.ErrRecursive, "circular variable formulas", err)
		var re *validation.RecursionError
		if stderrors.As(err, &re) {
			fe = fe.WithContext("cycle", re.Cycle)
		}
		return fe
	}

	done := make(map[int]bool)
	var expand func(i int)
	expand = func(i int) {
		if done[i] {
			return
		}
		done[i] = true

		text, ok := pending[i]
		if !ok {
			return
		}
		for _, id := range variableRefs(shallow.Variables[i].Formula) {
			if j, known := position[id]; known {
				expand(j)
			}
		}

		res := resolver.New(l, resolver.WithLogger(logger)).Parse(text)
		l.Variables[i].Formula = res.Steps
		logger.Debug("formula expanded",
			"variable", l.Variables[i].ID,
			"steps", len(res.Steps),
			"unresolved", len(res.Unresolved),
			"skipped", len(res.Skipped))
	}

	for i := range l.Variables {
		expand(i)
	}
	return nil
}

func variableRefs(steps formula.Steps) []string {
	var ids []string
	for _, s := range steps {
		if vs, ok := s.(formula.VariableStep); ok {
			ids = append(ids, vs.Variable.ID)
		}
	}
	return ids
}
