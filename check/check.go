// Package check contains the read-only validation passes that guard the rest
// of the pipeline against malformed trees.
package check

import (
	"fmt"
	"midend/ir"
	"midend/passes"
)

// Names the passes are registered under
const (
	NilCheckName = "nilchk"
	AcyclicName  = "acyclic"
)

// NilCheck verifies that every node reachable from the root has the slot shape
// its kind requires and that references carry a name.  It fails with a
// summary of the problems found.
func NilCheck(m *ir.Module) passes.PassResult {
	var problems []string

	seen := map[ir.NodeID]bool{}
	stack := []ir.NodeID{m.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[id] {
			continue
		}
		seen[id] = true

		kind := m.Kind(id)
		count, variadic := kind.Shape()
		n := m.NumChildren(id)
		if variadic && n < count {
			problems = append(problems, fmt.Sprintf("%s has %d slots, want at least %d", describe(m, id), n, count))
		} else if !variadic && n != count {
			problems = append(problems, fmt.Sprintf("%s has %d slots, want %d", describe(m, id), n, count))
		}

		if (kind == ir.KindIdentifier || kind == ir.KindLet) && m.NodeName(id) == "" {
			problems = append(problems, fmt.Sprintf("%s has no name", describe(m, id)))
		}

		for i := n - 1; i >= 0; i-- {
			child := m.Child(id, i)
			if !m.Valid(child) {
				problems = append(problems, fmt.Sprintf("%s slot %d holds no node", describe(m, id), i))
				continue
			}

			stack = append(stack, child)
		}
	}

	return summarize(problems)
}

// Enumeration of DFS colours
const (
	white = iota
	grey
	black
)

// Acyclic verifies that no node reachable from the root is its own ancestor.
// The same node may be held by several slots as long as none of them is
// inside the node itself.
func Acyclic(m *ir.Module) passes.PassResult {
	colour := map[ir.NodeID]int{}

	var visit func(id ir.NodeID) (ir.NodeID, bool)
	visit = func(id ir.NodeID) (ir.NodeID, bool) {
		switch colour[id] {
		case grey:
			return id, false
		case black:
			return ir.NoNode, true
		}

		colour[id] = grey
		for i := 0; i < m.NumChildren(id); i++ {
			if culprit, ok := visit(m.Child(id, i)); !ok {
				return culprit, false
			}
		}

		colour[id] = black
		return ir.NoNode, true
	}

	if culprit, ok := visit(m.Root()); !ok {
		return passes.Failed("%s is its own ancestor", describe(m, culprit))
	}

	return passes.Succeeded()
}

// -----------------------------------------------------------------------------

// describe returns a short human readable description of a node
func describe(m *ir.Module, id ir.NodeID) string {
	kind := m.Kind(id)
	if kind.Named() && m.NodeName(id) != "" {
		return fmt.Sprintf("%s `%s` (node %d)", kind, m.NodeName(id), id)
	}

	return fmt.Sprintf("%s node %d", kind, id)
}

func summarize(problems []string) passes.PassResult {
	switch len(problems) {
	case 0:
		return passes.Succeeded()
	case 1:
		return passes.Failed("%s", problems[0])
	default:
		return passes.Failed("%s (and %d more)", problems[0], len(problems)-1)
	}
}
