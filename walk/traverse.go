package walk

import "midend/ir"

// Order is the order in which a traversal visits a node relative to its
// children
type Order int

// Enumeration of traversal orders
const (
	PreOrder  = Order(iota) // node before its children
	PostOrder               // children before their node
)

// Signal is returned by a visitor to control how the traversal proceeds
type Signal int

// Enumeration of visitor signals
const (
	// Proceed recurses into the current contents of the visited slot
	Proceed = Signal(iota)

	// SkipChildren treats the visited node as a leaf for this traversal.  It
	// has no effect in a post-order traversal.
	SkipChildren
)

// VisitFunc is called once per visited slot.  `parent` is the node owning the
// slot or `ir.NoNode` for the slot the traversal started from.  The visitor may
// replace the slot's contents with `slot.Set`; in a pre-order traversal the
// replacement is what gets recursed into.
type VisitFunc func(parent ir.NodeID, slot ir.Slot) Signal

// Traverse walks every node reachable from the node held by `start`, depth
// first, calling `visit` on each slot.  The children of a node are visited in
// slot order.  It returns the number of visits performed (the start slot
// counts as one).  The traversal never copies subtrees and cannot fail; the
// tree reachable from `start` must be acyclic.
func Traverse(start ir.Slot, order Order, visit VisitFunc) int {
	t := &traversal{m: start.Module(), order: order, visit: visit}
	t.walkSlot(ir.NoNode, start)
	return t.count
}

// traversal holds the state of a single call to `Traverse`
type traversal struct {
	m     *ir.Module
	order Order
	visit VisitFunc
	count int
}

func (t *traversal) walkSlot(parent ir.NodeID, slot ir.Slot) {
	if t.order == PreOrder {
		t.count++
		if t.visit(parent, slot) == SkipChildren {
			return
		}

		t.walkChildren(slot.Get())
		return
	}

	t.walkChildren(slot.Get())

	t.count++
	t.visit(parent, slot)
}

// walkChildren walks the child slots of `id` in declaration order.  The slot
// count is read once: slots appended to `id` while its children are being
// walked are not visited.
func (t *traversal) walkChildren(id ir.NodeID) {
	n := t.m.NumChildren(id)
	for i := 0; i < n; i++ {
		t.walkSlot(id, t.m.ChildSlot(id, i))
	}
}
