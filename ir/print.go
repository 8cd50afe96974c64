package ir

import (
	"fmt"
	"io"
	"strings"
)

// Sprint renders the subtree rooted at `id` as an S-expression, for example
// `(seq (ident f) (function f (seq)))`.  Subtrees that would recurse into one
// of their own ancestors are printed as `<cycle>`.
func Sprint(m *Module, id NodeID) string {
	sb := &strings.Builder{}
	printNode(sb, m, id, map[NodeID]bool{})
	return sb.String()
}

// Fprint writes the S-expression for the whole module followed by a newline
func Fprint(w io.Writer, m *Module) error {
	_, err := fmt.Fprintln(w, Sprint(m, m.Root()))
	return err
}

func printNode(sb *strings.Builder, m *Module, id NodeID, ancestors map[NodeID]bool) {
	if !m.Valid(id) {
		sb.WriteString("<invalid>")
		return
	}

	if ancestors[id] {
		sb.WriteString("<cycle>")
		return
	}

	kind := m.Kind(id)
	sb.WriteString("(" + kind.String())
	if kind.Named() {
		sb.WriteString(" " + m.NodeName(id))
	}

	ancestors[id] = true
	for _, child := range m.at(id).children {
		sb.WriteByte(' ')
		printNode(sb, m, child, ancestors)
	}
	delete(ancestors, id)

	sb.WriteByte(')')
}
