package ir

import "fmt"

// Slot is an addressable location inside a parent node that holds exactly one
// child handle.  Slots are values: they stay valid while the parent keeps at
// least `index+1` children, regardless of how the held handle changes.
type Slot struct {
	m      *Module
	parent NodeID
	index  int
}

// Get returns the handle currently held by the slot
func (s Slot) Get() NodeID {
	if s.parent == NoNode {
		return s.m.root
	}

	return s.m.at(s.parent).children[s.index]
}

// Set replaces the handle held by the slot.  The new handle must refer to a
// node of the same module; the root slot only accepts sequences.  The old
// subtree is not copied or freed.
func (s Slot) Set(id NodeID) {
	if !s.m.Valid(id) {
		panic(fmt.Sprintf("ir: cannot store invalid handle %d in a slot", id))
	}

	if s.parent == NoNode {
		if s.m.Kind(id) != KindSequence {
			panic(fmt.Sprintf("ir: module root must be a sequence, not %s", s.m.Kind(id)))
		}

		s.m.root = id
		return
	}

	s.m.at(s.parent).children[s.index] = id
}

// Parent returns the node owning the slot (`NoNode` for the root slot)
func (s Slot) Parent() NodeID {
	return s.parent
}

// Index returns the position of the slot within its parent (-1 for the root
// slot)
func (s Slot) Index() int {
	return s.index
}

// Module returns the module the slot belongs to
func (s Slot) Module() *Module {
	return s.m
}

func (s Slot) String() string {
	if s.parent == NoNode {
		return "root"
	}

	return fmt.Sprintf("%d[%d]", s.parent, s.index)
}
