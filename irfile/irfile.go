// Package irfile reads and writes IR modules as YAML documents.  A module file
// lists the children of the root sequence; every node is a mapping with a
// `kind`, an optional `name` and optional `children`:
//
//	module: demo
//	root:
//	  - kind: function
//	    name: main
//	    children:
//	      - kind: seq
//	        children:
//	          - {kind: call, children: [{kind: ident, name: puts}]}
package irfile

import (
	"errors"
	"fmt"
	"io"
	"midend/ir"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlModule represents a module as it is encoded in YAML
type yamlModule struct {
	Module string      `yaml:"module,omitempty"`
	Root   []*yamlNode `yaml:"root"`
}

// yamlNode represents a single node as it is encoded in YAML
type yamlNode struct {
	Kind     string      `yaml:"kind"`
	Name     string      `yaml:"name,omitempty"`
	Children []*yamlNode `yaml:"children,omitempty"`
}

// Load reads a module file.  If the file does not name its module, the file
// name (without extension) is used.
func Load(path string) (*ir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := Decode(f, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Decode reads a module document.  `defaultName` is used when the document
// does not name its module.  Unknown kinds and unknown fields are errors;
// slot shapes are not checked here (that is the job of the validation
// passes).
func Decode(r io.Reader, defaultName string) (*ir.Module, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	ym := &yamlModule{}
	if err := dec.Decode(ym); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty module file")
		}

		return nil, err
	}

	name := ym.Module
	if name == "" {
		name = defaultName
	}

	m := ir.NewModule(name)
	for i, yn := range ym.Root {
		id, err := buildNode(m, yn, fmt.Sprintf("root[%d]", i))
		if err != nil {
			return nil, err
		}

		m.Append(m.Root(), id)
	}

	return m, nil
}

// buildNode adds the node described by `yn` (and its children) to the arena.
// `path` locates the node in the document for error messages.
func buildNode(m *ir.Module, yn *yamlNode, path string) (ir.NodeID, error) {
	if yn == nil {
		return ir.NoNode, fmt.Errorf("%s: empty node", path)
	}

	kind, ok := ir.KindFromString(yn.Kind)
	if !ok {
		return ir.NoNode, fmt.Errorf("%s: unknown node kind `%s`", path, yn.Kind)
	}

	if yn.Name != "" && !kind.Named() {
		return ir.NoNode, fmt.Errorf("%s: %s nodes cannot have a name", path, kind)
	}

	children := make([]ir.NodeID, len(yn.Children))
	for i, ychild := range yn.Children {
		child, err := buildNode(m, ychild, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return ir.NoNode, err
		}

		children[i] = child
	}

	return m.NewNode(kind, yn.Name, children...), nil
}

// -----------------------------------------------------------------------------

// Encode writes a module document.  A node held by several slots is written
// once per slot; a cyclic tree cannot be encoded.
func Encode(w io.Writer, m *ir.Module) error {
	ym := &yamlModule{Module: m.Name}

	ancestors := map[ir.NodeID]bool{m.Root(): true}
	for _, id := range m.Children(m.Root()) {
		yn, err := encodeNode(m, id, ancestors)
		if err != nil {
			return err
		}

		ym.Root = append(ym.Root, yn)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ym); err != nil {
		return err
	}

	return enc.Close()
}

func encodeNode(m *ir.Module, id ir.NodeID, ancestors map[ir.NodeID]bool) (*yamlNode, error) {
	if ancestors[id] {
		return nil, fmt.Errorf("cannot encode cyclic module: %s node %d is its own ancestor", m.Kind(id), id)
	}

	yn := &yamlNode{Kind: m.Kind(id).String(), Name: m.NodeName(id)}

	ancestors[id] = true
	defer delete(ancestors, id)

	for _, child := range m.Children(id) {
		ychild, err := encodeNode(m, child, ancestors)
		if err != nil {
			return nil, err
		}

		yn.Children = append(yn.Children, ychild)
	}

	return yn, nil
}
