package formula

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Steps is an ordered step sequence. It marshals to the editor JSON form:
//
//	[{"type":"variable","label":"Población","value":{"id":"v1","name":"Población"}},
//	 {"type":"operator","label":"+","value":"+"}]
type Steps []Step

// Serialize renders steps as a persisted formula string, joining tokens with
// single spaces.
func Serialize(steps []Step) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, s.Token())
	}
	return strings.Join(parts, " ")
}

// String returns the persisted form of the sequence.
func (s Steps) String() string {
	return Serialize(s)
}

type wireStep struct {
	Type  Kind            `json:"type"`
	Label string          `json:"label,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalStep encodes one step into its editor JSON form.
func MarshalStep(s Step) ([]byte, error) {
	var payload interface{}
	switch v := s.(type) {
	case VariableStep:
		payload = v.Variable
	case AdvanceStep:
		payload = v.Variable
	case GoalVariableStep:
		payload = v.Goal
	case GoalIndicatorStep:
		payload = v.Goal
	case QuadVariableStep:
		payload = v.Quadrennium
	case QuadIndicatorStep:
		payload = v.Quadrennium
	case BaselineStep:
		payload = BaselineName
	case FunctionStep:
		payload = v.Function
	case OperatorStep, ComparisonStep, ConstantStep, SeparatorStep, ParenStep:
		payload = s.Token()
	default:
		return nil, fmt.Errorf("unsupported step type %T", s)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireStep{Type: s.Kind(), Label: s.Label(), Value: raw})
}

// UnmarshalStep decodes one step from its editor JSON form.
func UnmarshalStep(data []byte) (Step, error) {
	var w wireStep
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	decode := func(dst interface{}) error {
		if len(w.Value) == 0 {
			return fmt.Errorf("step %q: missing value", w.Type)
		}
		if err := json.Unmarshal(w.Value, dst); err != nil {
			return fmt.Errorf("step %q: %w", w.Type, err)
		}
		return nil
	}

	switch w.Type {
	case KindVariable, KindAdvance:
		var v Variable
		if err := decode(&v); err != nil {
			return nil, err
		}
		if w.Type == KindAdvance {
			return AdvanceStep{Variable: v}, nil
		}
		return VariableStep{Variable: v}, nil

	case KindGoalVariable, KindGoalIndicator:
		var g Goal
		if err := decode(&g); err != nil {
			return nil, err
		}
		if w.Type == KindGoalIndicator {
			return GoalIndicatorStep{Goal: g}, nil
		}
		return GoalVariableStep{Goal: g}, nil

	case KindQuadVariable, KindQuadIndicator:
		var q Quadrennium
		if err := decode(&q); err != nil {
			return nil, err
		}
		if w.Type == KindQuadIndicator {
			return QuadIndicatorStep{Quadrennium: q}, nil
		}
		return QuadVariableStep{Quadrennium: q}, nil

	case KindBaseline:
		return BaselineStep{}, nil

	case KindFunction:
		var f Function
		if err := decode(&f); err != nil {
			return nil, err
		}
		if known, ok := LookupFunction(f.Name); ok {
			return FunctionStep{Function: known}, nil
		}
		return FunctionStep{Function: f}, nil

	case KindSeparator:
		return SeparatorStep{}, nil
	}

	var sym string
	if err := decode(&sym); err != nil {
		return nil, err
	}
	switch w.Type {
	case KindOperator:
		if !IsArithmetic(sym) {
			return nil, fmt.Errorf("step %q: unknown operator %q", w.Type, sym)
		}
		return OperatorStep{Symbol: sym}, nil
	case KindComparison:
		if _, ok := ComparisonBySymbol(sym); !ok {
			return nil, fmt.Errorf("step %q: unknown comparison %q", w.Type, sym)
		}
		return ComparisonStep{Symbol: sym}, nil
	case KindConstant:
		return ConstantStep{Value: sym}, nil
	case KindParenthesis:
		if sym != "(" && sym != ")" {
			return nil, fmt.Errorf("step %q: invalid parenthesis %q", w.Type, sym)
		}
		return ParenStep{Symbol: sym}, nil
	}

	return nil, fmt.Errorf("unknown step type %q", w.Type)
}

// MarshalJSON encodes the sequence as a JSON array of steps.
func (s Steps) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(s))
	for i, step := range s {
		b, err := MarshalStep(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		items = append(items, b)
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes a JSON array of steps.
func (s *Steps) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Steps, 0, len(items))
	for i, item := range items {
		step, err := UnmarshalStep(item)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, step)
	}
	*s = out
	return nil
}
