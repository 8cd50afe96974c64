// Package hoist implements the flattening pass that relocates every nested
// extern block and function definition to the module's root sequence, so that
// later phases can assume all linkable symbols are direct children of the root.
package hoist

import (
	"fmt"
	"midend/ir"
	"midend/passes"
	"midend/walk"
)

// PassName is the name the pass is registered under
const PassName = "hoist"

// Transform runs the hoisting pass on a module.  It always succeeds.
func Transform(m *ir.Module) passes.PassResult {
	hoistExterns(m)

	q := &qualifier{m: m, named: make(map[ir.NodeID]bool)}
	q.qualify(m.RootSlot(), "")
	hoistFunctions(m, q.found)

	return passes.Succeeded()
}

// hoistExterns moves every extern block that is not already a direct child of
// the root to the end of the root, leaving a void placeholder behind
func hoistExterns(m *ir.Module) {
	for _, slot := range walk.Collect(m.RootSlot(), walk.OfKind(ir.KindExtern)) {
		id := slot.Get()
		if m.IsRootChild(id) {
			continue
		}

		slot.Set(m.NewVoid())
		m.Append(m.Root(), id)
	}
}

// -----------------------------------------------------------------------------

// qualifier assigns scope-qualified names to function definitions and collects
// their slots in discovery order
type qualifier struct {
	m *ir.Module

	// counter numbers the synthetic names given to unnamed functions
	counter int

	// named holds the functions that have already been given their qualified
	// name.  A function held by several slots is named (and its body walked)
	// only where it is first discovered.
	named map[ir.NodeID]bool

	found []ir.Slot
}

// qualify walks the subtree held by `start` with `scope` as the enclosing
// lexical scope.  Function bodies are walked by an explicit recursive call
// carrying the function's qualified name, so the generic traversal is told to
// skip the function's children.  Prototypes inside externs keep their names.
func (q *qualifier) qualify(start ir.Slot, scope string) {
	walk.Traverse(start, walk.PreOrder, func(_ ir.NodeID, slot ir.Slot) walk.Signal {
		id := slot.Get()

		switch q.m.Kind(id) {
		case ir.KindExtern:
			return walk.SkipChildren
		case ir.KindFunction:
			q.found = append(q.found, slot)
			if q.named[id] {
				return walk.SkipChildren
			}
			q.named[id] = true

			name := q.m.NodeName(id)
			if name == "" {
				name = fmt.Sprintf("$_%d", q.counter)
				q.counter++
			}

			if scope != "" {
				name = scope + "::" + name
			}

			q.m.SetNodeName(id, name)

			if q.m.NumChildren(id) > 0 {
				q.qualify(q.m.ChildSlot(id, 0), name)
			}

			return walk.SkipChildren
		}

		return walk.Proceed
	})
}

// hoistFunctions replaces each collected function slot with a reference to the
// function's qualified name and makes sure exactly one root slot holds the
// definition.  A definition that an earlier run already placed in the root is
// left where it is; every other slot holding the same node gets a reference.
func hoistFunctions(m *ir.Module, slots []ir.Slot) {
	defined := make(map[ir.NodeID]bool)

	for _, slot := range slots {
		id := slot.Get()
		if m.Kind(id) != ir.KindFunction {
			continue
		}

		if defined[id] {
			slot.Set(m.NewIdentifier(m.NodeName(id)))
			continue
		}

		hoisted := m.HasFlag(id, ir.FlagHoisted)
		if hoisted && slot.Parent() == m.Root() {
			defined[id] = true
			continue
		}

		slot.Set(m.NewIdentifier(m.NodeName(id)))

		// the root slot holding this definition is discovered later
		if hoisted && m.IsRootChild(id) {
			continue
		}

		m.SetFlag(id, ir.FlagHoisted)
		m.Append(m.Root(), id)
		defined[id] = true
	}
}
