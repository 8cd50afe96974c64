package generate

import (
	"fmt"
	"io"
	"midend/ir"
	"midend/passes"
	"midend/walk"
	"strings"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// LinkSymbolsName is the name the linkage pass is registered under
const LinkSymbolsName = "link-symbols"

// Generator converts the linkable symbols of a flattened module into LLVM
// declarations.  Only the symbol table is produced: definitions get a stub
// body so that their linkage can be expressed, and bodies are left to the code
// generator proper.
type Generator struct {
	// mod is the module whose symbols are being emitted
	mod *ir.Module

	// llModule is the LLVM module being built by this generator
	llModule *llvm.Module

	// symbols maps each emitted symbol name to the node that declared it
	symbols map[string]ir.NodeID
}

// NewGenerator creates a new generator for a module
func NewGenerator(m *ir.Module) *Generator {
	return &Generator{
		mod:      m,
		llModule: llvm.NewModule(),
		symbols:  make(map[string]ir.NodeID),
	}
}

// Generate builds the LLVM module.  Every function in the root becomes a
// definition: hoisted nested functions (whose names are scope-qualified) get
// internal linkage, the rest external.  Every function prototype inside a root
// extern block becomes an external declaration.  It is an error for a
// function definition to be anywhere but the root or for two symbols to share
// a name.
func (g *Generator) Generate() (*llvm.Module, error) {
	if err := g.checkFlattened(); err != nil {
		return nil, err
	}

	for _, id := range g.mod.Children(g.mod.Root()) {
		switch g.mod.Kind(id) {
		case ir.KindFunction:
			linkage := enum.LinkageExternal
			if strings.Contains(g.mod.NodeName(id), "::") {
				linkage = enum.LinkageInternal
			}

			fn, err := g.declare(id, linkage)
			if err != nil {
				return nil, err
			}

			fn.NewBlock("entry").NewRet(nil)
		case ir.KindExtern:
			for _, proto := range g.mod.Children(id) {
				if g.mod.Kind(proto) != ir.KindFunction {
					continue
				}

				if _, err := g.declare(proto, enum.LinkageExternal); err != nil {
					return nil, err
				}
			}
		}
	}

	return g.llModule, nil
}

// WriteTo writes the LLVM module source text
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	return g.llModule.WriteTo(w)
}

// declare adds a function symbol to the LLVM module
func (g *Generator) declare(id ir.NodeID, linkage enum.Linkage) (*llvm.Func, error) {
	name := g.mod.NodeName(id)
	if prev, ok := g.symbols[name]; ok {
		return nil, fmt.Errorf("duplicate symbol `%s` (nodes %d and %d)", name, prev, id)
	}
	g.symbols[name] = id

	fn := g.llModule.NewFunc(name, types.Void)
	fn.Linkage = linkage
	return fn, nil
}

// checkFlattened makes sure no function definition is nested below the root
// (prototypes inside extern blocks are fine)
func (g *Generator) checkFlattened() error {
	var nested []string

	walk.Traverse(g.mod.RootSlot(), walk.PreOrder, func(parent ir.NodeID, slot ir.Slot) walk.Signal {
		id := slot.Get()
		switch g.mod.Kind(id) {
		case ir.KindExtern:
			return walk.SkipChildren
		case ir.KindFunction:
			if parent != g.mod.Root() {
				nested = append(nested, g.mod.NodeName(id))
			}
		}

		return walk.Proceed
	})

	if len(nested) > 0 {
		return fmt.Errorf("function `%s` is not at top level; the module must be flattened first", nested[0])
	}

	return nil
}

// -----------------------------------------------------------------------------

// LinkSymbols is the pass form of `Generate`: it fails if the module's
// linkable symbols cannot be emitted
func LinkSymbols(m *ir.Module) passes.PassResult {
	if _, err := NewGenerator(m).Generate(); err != nil {
		return passes.Failed("%s", err)
	}

	return passes.Succeeded()
}
