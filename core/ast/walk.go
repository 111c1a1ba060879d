package ast

// Walk visits n and its children depth-first. Returning false from fn skips
// the children of the visited node. Sub-formulas of references are visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Ref:
		Walk(n.SubFormula, fn)
	}
}

// Errors returns the messages of every error node under n, in visit order.
func Errors(n Node) []string {
	var msgs []string
	Walk(n, func(n Node) bool {
		if e, ok := n.(*Error); ok {
			msgs = append(msgs, e.Message)
		}
		return true
	})
	return msgs
}

// References returns the ids of every variable reference under n, including
// those inside sub-formulas, in visit order.
func References(n Node) []string {
	var ids []string
	Walk(n, func(n Node) bool {
		if r, ok := n.(*Ref); ok {
			ids = append(ids, r.Value)
		}
		return true
	})
	return ids
}
