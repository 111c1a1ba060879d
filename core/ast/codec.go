package ast

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
)

// The JSON shape is {"kind": ..., <fields>}:
//
//	binary      op, left, right
//	call        func, args
//	ref         value, subFormula (omitted when absent)
//	const       value (number)
//	error       message
//	others      value (string id)

func (n *Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Op    string `json:"op"`
		Left  Node   `json:"left"`
		Right Node   `json:"right"`
	}{KindBinary, n.Op, n.Left, n.Right})
}

func (n *Call) MarshalJSON() ([]byte, error) {
	args := n.Args
	if args == nil {
		args = []Node{}
	}
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Func string `json:"func"`
		Args []Node `json:"args"`
	}{KindCall, n.Func, args})
}

func (n *Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       Kind   `json:"kind"`
		Value      string `json:"value"`
		SubFormula Node   `json:"subFormula,omitempty"`
	}{KindRef, n.Value, n.SubFormula})
}

func (n *Const) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind    `json:"kind"`
		Value float64 `json:"value"`
	}{KindConst, n.Value})
}

func (n *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Message string `json:"message"`
	}{KindError, n.Message})
}

func (n *GoalVar) MarshalJSON() ([]byte, error)    { return leafJSON(KindGoalVar, n.Value) }
func (n *GoalInd) MarshalJSON() ([]byte, error)    { return leafJSON(KindGoalInd, n.Value) }
func (n *QuadVar) MarshalJSON() ([]byte, error)    { return leafJSON(KindQuadVar, n.Value) }
func (n *QuadInd) MarshalJSON() ([]byte, error)    { return leafJSON(KindQuadInd, n.Value) }
func (n *Baseline) MarshalJSON() ([]byte, error)   { return leafJSON(KindBaseline, n.Value) }
func (n *RefAdvance) MarshalJSON() ([]byte, error) { return leafJSON(KindRefAdvance, n.Value) }

func leafJSON(kind Kind, value string) ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Value string `json:"value"`
	}{kind, value})
}

// UnmarshalJSON decodes a tree written by MarshalJSON.
func UnmarshalJSON(data []byte) (Node, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrASTDecode, "invalid JSON", err)
	}
	n, err := fromTree(tree)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrASTDecode, "invalid tree", err)
	}
	return n, nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: sorted map keys, shortest floats
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("ast: cbor encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("ast: cbor decoder: %v", err))
	}
}

// MarshalCBOR produces the deterministic CBOR encoding of n. Equal trees
// encode to identical bytes.
func MarshalCBOR(n Node) ([]byte, error) {
	data, err := encMode.Marshal(toTree(n))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalCBOR decodes a tree written by MarshalCBOR.
func UnmarshalCBOR(data []byte) (Node, error) {
	var tree any
	if err := decMode.Unmarshal(data, &tree); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrASTDecode, "invalid CBOR", err)
	}
	n, err := fromTree(tree)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrASTDecode, "invalid tree", err)
	}
	return n, nil
}

// Fingerprint computes the BLAKE2b-256 hash of the canonical CBOR encoding.
// Returns hex-encoded hash: "blake2b:a3f8b2c1d4e5f6a7..."
func Fingerprint(n Node) (string, error) {
	data, err := MarshalCBOR(n)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("blake2b:%x", sum), nil
}

// toTree converts n to the generic map form shared by both encodings
func toTree(n Node) any {
	switch n := n.(type) {
	case nil:
		return nil
	case *Binary:
		return map[string]any{"kind": string(KindBinary), "op": n.Op, "left": toTree(n.Left), "right": toTree(n.Right)}
	case *Call:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = toTree(a)
		}
		return map[string]any{"kind": string(KindCall), "func": n.Func, "args": args}
	case *Ref:
		m := map[string]any{"kind": string(KindRef), "value": n.Value}
		if n.SubFormula != nil {
			m["subFormula"] = toTree(n.SubFormula)
		}
		return m
	case *Const:
		return map[string]any{"kind": string(KindConst), "value": n.Value}
	case *Error:
		return map[string]any{"kind": string(KindError), "message": n.Message}
	case *GoalVar:
		return leafTree(KindGoalVar, n.Value)
	case *GoalInd:
		return leafTree(KindGoalInd, n.Value)
	case *QuadVar:
		return leafTree(KindQuadVar, n.Value)
	case *QuadInd:
		return leafTree(KindQuadInd, n.Value)
	case *Baseline:
		return leafTree(KindBaseline, n.Value)
	case *RefAdvance:
		return leafTree(KindRefAdvance, n.Value)
	}
	panic(fmt.Sprintf("ast: unknown node type %T", n))
}

func leafTree(kind Kind, value string) map[string]any {
	return map[string]any{"kind": string(kind), "value": value}
}

func fromTree(v any) (Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("node must be an object, got %T", v)
	}
	kind, _ := m["kind"].(string)

	switch Kind(kind) {
	case KindBinary:
		op, _ := m["op"].(string)
		if Precedence(op) == PrecNone {
			return nil, fmt.Errorf("binary: unknown operator %q", op)
		}
		left, err := fromTree(m["left"])
		if err != nil {
			return nil, fmt.Errorf("binary left: %w", err)
		}
		right, err := fromTree(m["right"])
		if err != nil {
			return nil, fmt.Errorf("binary right: %w", err)
		}
		return &Binary{Op: op, Left: left, Right: right}, nil

	case KindCall:
		fn, _ := m["func"].(string)
		raw, _ := m["args"].([]any)
		var args []Node
		for i, a := range raw {
			arg, err := fromTree(a)
			if err != nil {
				return nil, fmt.Errorf("call %s arg %d: %w", fn, i, err)
			}
			args = append(args, arg)
		}
		return &Call{Func: fn, Args: args}, nil

	case KindRef:
		ref := &Ref{Value: stringField(m, "value")}
		if sub, present := m["subFormula"]; present && sub != nil {
			n, err := fromTree(sub)
			if err != nil {
				return nil, fmt.Errorf("ref %s subFormula: %w", ref.Value, err)
			}
			ref.SubFormula = n
		}
		return ref, nil

	case KindConst:
		num, err := number(m["value"])
		if err != nil {
			return nil, fmt.Errorf("const: %w", err)
		}
		return &Const{Value: num}, nil

	case KindError:
		return &Error{Message: stringField(m, "message")}, nil
	case KindGoalVar:
		return &GoalVar{Value: stringField(m, "value")}, nil
	case KindGoalInd:
		return &GoalInd{Value: stringField(m, "value")}, nil
	case KindQuadVar:
		return &QuadVar{Value: stringField(m, "value")}, nil
	case KindQuadInd:
		return &QuadInd{Value: stringField(m, "value")}, nil
	case KindBaseline:
		return &Baseline{Value: stringField(m, "value")}, nil
	case KindRefAdvance:
		return &RefAdvance{Value: stringField(m, "value")}, nil
	}

	return nil, fmt.Errorf("unknown node kind %q", kind)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("value must be a number, got %T", v)
}
