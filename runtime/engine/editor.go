package engine

import (
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/invariant"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

// State is the editor view after a mutation.
type State struct {
	Steps      []formula.Step
	Validation validation.Result
	Status     validation.StatusMessage
}

// Editor holds the step list of one formula being composed. Every mutation
// re-runs the validator. An Editor is not safe for concurrent use.
type Editor struct {
	engine *Engine
	steps  []formula.Step
}

// NewEditor starts an editor with a copy of initial.
func (e *Engine) NewEditor(initial ...formula.Step) *Editor {
	return &Editor{
		engine: e,
		steps:  append([]formula.Step(nil), initial...),
	}
}

// EditFormula starts an editor on a persisted formula string.
func (e *Engine) EditFormula(text string) *Editor {
	return e.NewEditor(e.Steps(text)...)
}

// Steps returns a copy of the current steps.
func (ed *Editor) Steps() []formula.Step {
	out := make([]formula.Step, len(ed.steps))
	copy(out, ed.steps)
	return out
}

// Len returns the number of steps.
func (ed *Editor) Len() int {
	return len(ed.steps)
}

// String returns the persisted form of the current steps.
func (ed *Editor) String() string {
	return formula.Serialize(ed.steps)
}

// State validates the current steps.
func (ed *Editor) State() State {
	res := validation.Validate(ed.steps)
	return State{
		Steps:      ed.Steps(),
		Validation: res,
		Status:     validation.Status(res, len(ed.steps)),
	}
}

// Append adds steps at the end.
func (ed *Editor) Append(steps ...formula.Step) State {
	ed.steps = append(ed.steps, steps...)
	return ed.State()
}

// AppendToken resolves token and appends the step. Tokens that match no
// rule leave the editor unchanged and report false.
func (ed *Editor) AppendToken(token string) (State, bool) {
	step, ok := ed.engine.Resolve(token)
	if !ok {
		return ed.State(), false
	}
	return ed.Append(step), true
}

// Insert adds steps before index i. i equal to Len appends.
func (ed *Editor) Insert(i int, steps ...formula.Step) State {
	invariant.Precondition(i >= 0 && i <= len(ed.steps), "insert index %d out of range [0,%d]", i, len(ed.steps))

	out := make([]formula.Step, 0, len(ed.steps)+len(steps))
	out = append(out, ed.steps[:i]...)
	out = append(out, steps...)
	out = append(out, ed.steps[i:]...)
	ed.steps = out
	return ed.State()
}

// Remove deletes the step at index i.
func (ed *Editor) Remove(i int) State {
	invariant.Precondition(i >= 0 && i < len(ed.steps), "remove index %d out of range [0,%d)", i, len(ed.steps))

	ed.steps = append(ed.steps[:i:i], ed.steps[i+1:]...)
	return ed.State()
}

// Replace swaps the step at index i.
func (ed *Editor) Replace(i int, step formula.Step) State {
	invariant.Precondition(i >= 0 && i < len(ed.steps), "replace index %d out of range [0,%d)", i, len(ed.steps))

	ed.steps[i] = step
	return ed.State()
}

// Clear removes every step.
func (ed *Editor) Clear() State {
	ed.steps = nil
	return ed.State()
}

// Save saves the current steps through the engine.
func (ed *Editor) Save() (*Saved, error) {
	return ed.engine.Save(ed.steps)
}
