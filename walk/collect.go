package walk

import "midend/ir"

// Collect performs a pre-order traversal from `start` and returns, in
// discovery order, every slot whose node satisfies `pred`.  The returned slots
// are live: reading them later yields their current contents.
func Collect(start ir.Slot, pred func(m *ir.Module, id ir.NodeID) bool) []ir.Slot {
	var slots []ir.Slot
	m := start.Module()

	Traverse(start, PreOrder, func(_ ir.NodeID, slot ir.Slot) Signal {
		if pred(m, slot.Get()) {
			slots = append(slots, slot)
		}

		return Proceed
	})

	return slots
}

// OfKind returns a predicate for `Collect` matching nodes of the given kind
func OfKind(kind ir.Kind) func(*ir.Module, ir.NodeID) bool {
	return func(m *ir.Module, id ir.NodeID) bool {
		return m.Kind(id) == kind
	}
}
