package ir

import (
	"fmt"
	"sort"
)

// Module is the unit of compilation state passed through the pass pipeline.
// It owns the node arena for one translation unit.  A module must only be
// transformed by one goroutine at a time.
type Module struct {
	// Name is the name of the module (usually derived from its source file)
	Name string

	// Strings stores the interned names used by the module's nodes
	Strings *Interner

	// nodes is the node arena.  Index zero is reserved so that `NoNode` never
	// refers to a real node.
	nodes []node

	// root is the handle of the top-level sequence
	root NodeID

	// executed is the set of group names that have completed successfully
	// for this module.  It only ever grows.
	executed map[string]struct{}
}

// NewModule creates a new module whose root is an empty sequence
func NewModule(name string) *Module {
	m := &Module{
		Name:     name,
		Strings:  NewInterner(),
		nodes:    make([]node, 1, 64),
		executed: make(map[string]struct{}),
	}

	m.root = m.NewSequence()
	return m
}

// Root returns the handle of the root sequence
func (m *Module) Root() NodeID {
	return m.root
}

// RootSlot returns the slot holding the root sequence
func (m *Module) RootSlot() Slot {
	return Slot{m: m, parent: NoNode, index: -1}
}

// Size returns the number of nodes in the arena.  Nodes that are no longer
// reachable from the root are still counted.
func (m *Module) Size() int {
	return len(m.nodes) - 1
}

// Valid reports whether `id` is a handle to a node of this module
func (m *Module) Valid(id NodeID) bool {
	return id != NoNode && int(id) < len(m.nodes)
}

// -----------------------------------------------------------------------------

// HasExecuted reports whether the group `name` has completed successfully for
// this module
func (m *Module) HasExecuted(name string) bool {
	_, ok := m.executed[name]
	return ok
}

// MarkExecuted records that the group `name` completed successfully
func (m *Module) MarkExecuted(name string) {
	m.executed[name] = struct{}{}
}

// ExecutedGroups returns the names of all executed groups in sorted order
func (m *Module) ExecutedGroups() []string {
	names := make([]string, 0, len(m.executed))
	for name := range m.executed {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// NewNode adds a node of any kind to the arena.  The children must be valid
// handles but their count is not checked against the kind's shape: this is
// what front ends use and malformed shapes are reported by validation passes.
func (m *Module) NewNode(kind Kind, name string, children ...NodeID) NodeID {
	for _, child := range children {
		if !m.Valid(child) {
			panic(fmt.Sprintf("ir: invalid child handle %d for new %s node", child, kind))
		}
	}

	m.nodes = append(m.nodes, node{
		kind:     kind,
		name:     m.Strings.Intern(name),
		children: append([]NodeID(nil), children...),
	})

	return NodeID(len(m.nodes) - 1)
}

// NewSequence creates a sequence node
func (m *Module) NewSequence(children ...NodeID) NodeID {
	return m.NewNode(KindSequence, "", children...)
}

// NewFunction creates a function definition with the given body
func (m *Module) NewFunction(name string, body NodeID) NodeID {
	return m.NewNode(KindFunction, name, body)
}

// NewExtern creates an extern block holding the given prototypes
func (m *Module) NewExtern(name string, protos ...NodeID) NodeID {
	return m.NewNode(KindExtern, name, protos...)
}

// NewIdentifier creates a reference to a named symbol
func (m *Module) NewIdentifier(name string) NodeID {
	return m.NewNode(KindIdentifier, name)
}

// NewVoid creates a void placeholder
func (m *Module) NewVoid() NodeID {
	return m.NewNode(KindVoid, "")
}

// NewCall creates a call node
func (m *Module) NewCall(callee NodeID, args ...NodeID) NodeID {
	return m.NewNode(KindCall, "", append([]NodeID{callee}, args...)...)
}

// NewLet creates a named binding
func (m *Module) NewLet(name string, value NodeID) NodeID {
	return m.NewNode(KindLet, name, value)
}

// NewLiteral creates a literal whose value is stored as source text
func (m *Module) NewLiteral(text string) NodeID {
	return m.NewNode(KindLiteral, text)
}

// -----------------------------------------------------------------------------

// Kind returns the kind of a node
func (m *Module) Kind(id NodeID) Kind {
	return m.at(id).kind
}

// NodeName returns the name of a node (empty for unnamed kinds)
func (m *Module) NodeName(id NodeID) string {
	return m.Strings.Lookup(m.at(id).name)
}

// SetNodeName renames a node
func (m *Module) SetNodeName(id NodeID, name string) {
	m.at(id).name = m.Strings.Intern(name)
}

// HasFlag checks if a node has a given flag
func (m *Module) HasFlag(id NodeID, flag Flag) bool {
	return m.at(id).flags&flag != 0
}

// SetFlag sets a flag on a node
func (m *Module) SetFlag(id NodeID, flag Flag) {
	m.at(id).flags |= flag
}

// NumChildren returns the number of child slots of a node
func (m *Module) NumChildren(id NodeID) int {
	return len(m.at(id).children)
}

// Child returns the handle held by the i'th child slot of a node
func (m *Module) Child(id NodeID, i int) NodeID {
	return m.at(id).children[i]
}

// Children returns a copy of the handles held by a node's child slots
func (m *Module) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), m.at(id).children...)
}

// ChildSlot returns the i'th child slot of a node
func (m *Module) ChildSlot(id NodeID, i int) Slot {
	if i < 0 || i >= m.NumChildren(id) {
		panic(fmt.Sprintf("ir: %s node %d has no slot %d", m.Kind(id), id, i))
	}

	return Slot{m: m, parent: id, index: i}
}

// Append adds a new child slot holding `child` to the end of a sequence or
// extern node.  It returns the new slot.
func (m *Module) Append(parent, child NodeID) Slot {
	if _, variadic := m.Kind(parent).Shape(); !variadic {
		panic(fmt.Sprintf("ir: cannot append to %s node", m.Kind(parent)))
	}

	if !m.Valid(child) {
		panic(fmt.Sprintf("ir: cannot append invalid handle %d", child))
	}

	n := m.at(parent)
	n.children = append(n.children, child)
	return Slot{m: m, parent: parent, index: len(n.children) - 1}
}

// IsRootChild reports whether `id` is held directly by one of the root
// sequence's slots.  Comparison is by node identity.
func (m *Module) IsRootChild(id NodeID) bool {
	for _, child := range m.at(m.root).children {
		if child == id {
			return true
		}
	}

	return false
}

// at returns the arena record for a handle
func (m *Module) at(id NodeID) *node {
	if !m.Valid(id) {
		panic(fmt.Sprintf("ir: invalid node handle %d", id))
	}

	return &m.nodes[id]
}
