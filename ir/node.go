package ir

import "fmt"

// NodeID is a handle to a node stored in a module's node arena.  Handles are
// only meaningful relative to the module that created them.
type NodeID uint32

// NoNode is the zero handle.  It is never held by a slot: it only appears as
// the parent of a module's root slot.
const NoNode NodeID = 0

// Kind is the discriminant of an IR node
type Kind int

// Enumeration of node kinds
const (
	KindSequence   = Kind(iota) // ordered list of nodes
	KindFunction                // named function definition (one body slot)
	KindExtern                  // external linkage block (prototype slots)
	KindIdentifier              // reference to a named symbol
	KindVoid                    // placeholder left behind by rewrites
	KindCall                    // callee slot followed by argument slots
	KindLet                     // named binding (one value slot)
	KindLiteral                 // literal value stored as its source text
)

var kindNames = map[Kind]string{
	KindSequence:   "seq",
	KindFunction:   "function",
	KindExtern:     "extern",
	KindIdentifier: "ident",
	KindVoid:       "void",
	KindCall:       "call",
	KindLet:        "let",
	KindLiteral:    "lit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// KindFromString converts the textual name of a kind (as produced by
// `Kind.String`) back into a kind.
func KindFromString(name string) (Kind, bool) {
	for k, kname := range kindNames {
		if kname == name {
			return k, true
		}
	}

	return 0, false
}

// Shape returns the number of child slots a node of the given kind must have.
// If `variadic` is true, the count is a minimum rather than an exact number.
func (k Kind) Shape() (count int, variadic bool) {
	switch k {
	case KindSequence, KindExtern:
		return 0, true
	case KindCall:
		return 1, true
	case KindFunction, KindLet:
		return 1, false
	default:
		return 0, false
	}
}

// Named reports whether nodes of this kind carry a name
func (k Kind) Named() bool {
	switch k {
	case KindFunction, KindExtern, KindIdentifier, KindLet, KindLiteral:
		return true
	}

	return false
}

// Flag is a bit field of node attributes set by passes
type Flag uint8

// Enumeration of node flags
const (
	// FlagHoisted marks a definition that has been relocated to the root
	// sequence by the hoisting pass.
	FlagHoisted Flag = 1 << iota
)

// node is a single record in the node arena
type node struct {
	kind     Kind
	name     Symbol
	flags    Flag
	children []NodeID
}
