package formula

import "sort"

// Lookups are the read-only reference collections a formula is resolved
// against. Every collection is optional; a nil *Lookups behaves as empty.
type Lookups struct {
	Variables             []Variable               `json:"variables,omitempty"`
	GoalsVariables        []Goal                   `json:"goalsVariables,omitempty"`
	GoalsIndicators       []Goal                   `json:"goalsIndicators,omitempty"`
	VariableQuadrenniums  map[string][]Quadrennium `json:"variableQuadrenniums,omitempty"`
	IndicatorQuadrenniums []Quadrennium            `json:"indicatorQuadrenniums,omitempty"`
}

// Index maps ids to entities for one resolution pass.
//
// Resolution order is the top-level collection first, then each variable's
// nested collection in variable order; the first entity seen for an id wins.
type Index struct {
	variables map[string]Variable
	goalVars  map[string]Goal
	goalInds  map[string]Goal
	quadVars  map[string]Quadrennium
	quadInds  map[string]Quadrennium

	// ids in insertion order, for suggestions
	order map[Kind][]string
}

// NewIndex builds an Index over l. A nil l yields an empty index.
func NewIndex(l *Lookups) *Index {
	ix := &Index{
		variables: make(map[string]Variable),
		goalVars:  make(map[string]Goal),
		goalInds:  make(map[string]Goal),
		quadVars:  make(map[string]Quadrennium),
		quadInds:  make(map[string]Quadrennium),
		order:     make(map[Kind][]string),
	}
	if l == nil {
		return ix
	}

	for _, v := range l.Variables {
		if _, seen := ix.variables[v.ID]; !seen {
			ix.variables[v.ID] = v
			ix.order[KindVariable] = append(ix.order[KindVariable], v.ID)
		}
	}

	for _, g := range l.GoalsVariables {
		ix.addGoal(ix.goalVars, KindGoalVariable, g)
	}
	for _, v := range l.Variables {
		for _, g := range v.Goals {
			ix.addGoal(ix.goalVars, KindGoalVariable, g)
		}
	}
	for _, g := range l.GoalsIndicators {
		ix.addGoal(ix.goalInds, KindGoalIndicator, g)
	}

	// Map iteration order is random, so walk the keys sorted.
	keys := make([]string, 0, len(l.VariableQuadrenniums))
	for k := range l.VariableQuadrenniums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, q := range l.VariableQuadrenniums[k] {
			ix.addQuad(ix.quadVars, KindQuadVariable, q)
		}
	}
	for _, v := range l.Variables {
		for _, q := range v.Quadrenniums {
			ix.addQuad(ix.quadVars, KindQuadVariable, q)
		}
	}
	for _, q := range l.IndicatorQuadrenniums {
		ix.addQuad(ix.quadInds, KindQuadIndicator, q)
	}

	return ix
}

func (ix *Index) addGoal(m map[string]Goal, kind Kind, g Goal) {
	if _, seen := m[g.ID]; seen {
		return
	}
	m[g.ID] = g
	ix.order[kind] = append(ix.order[kind], g.ID)
}

func (ix *Index) addQuad(m map[string]Quadrennium, kind Kind, q Quadrennium) {
	if _, seen := m[q.ID]; seen {
		return
	}
	m[q.ID] = q
	ix.order[kind] = append(ix.order[kind], q.ID)
}

// Variable looks up a variable by id.
func (ix *Index) Variable(id string) (Variable, bool) {
	v, ok := ix.variables[id]
	return v, ok
}

// GoalVariable looks up a variable goal, falling back to nested variable goals.
func (ix *Index) GoalVariable(id string) (Goal, bool) {
	g, ok := ix.goalVars[id]
	return g, ok
}

// GoalIndicator looks up an indicator goal.
func (ix *Index) GoalIndicator(id string) (Goal, bool) {
	g, ok := ix.goalInds[id]
	return g, ok
}

// QuadVariable looks up a variable quadrennium, falling back to nested
// variable quadrenniums.
func (ix *Index) QuadVariable(id string) (Quadrennium, bool) {
	q, ok := ix.quadVars[id]
	return q, ok
}

// QuadIndicator looks up an indicator quadrennium.
func (ix *Index) QuadIndicator(id string) (Quadrennium, bool) {
	q, ok := ix.quadInds[id]
	return q, ok
}

// IDs returns the known ids for a reference kind in resolution order.
// Advance references resolve against variables.
func (ix *Index) IDs(kind Kind) []string {
	if kind == KindAdvance {
		kind = KindVariable
	}
	ids := ix.order[kind]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
