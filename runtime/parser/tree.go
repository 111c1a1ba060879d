package parser

import "github.com/amaury-medina-tass/spd-frontend-sub001/core/ast"

// Tree represents the result of building
type Tree struct {
	Root      ast.Node
	Telemetry *BuildTelemetry // Builder metrics (nil if disabled)
}

// Errors returns the messages of the error nodes in the tree.
func (t *Tree) Errors() []string {
	return ast.Errors(t.Root)
}
