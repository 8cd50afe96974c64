package generate

import (
	"bytes"
	"strings"
	"testing"

	"midend/ir"

	"github.com/llir/llvm/ir/enum"
)

// flatModule builds the module produced by hoisting `f { g {} }` plus an
// extern block declaring `puts`
func flatModule() *ir.Module {
	m := ir.NewModule("m")
	g := m.NewFunction("f::g", m.NewSequence())
	f := m.NewFunction("f", m.NewSequence(m.NewIdentifier("f::g")))
	m.Append(m.Root(), m.NewIdentifier("f"))
	m.Append(m.Root(), m.NewExtern("libc", m.NewFunction("puts", m.NewSequence())))
	m.Append(m.Root(), f)
	m.Append(m.Root(), g)
	return m
}

func TestGenerate(t *testing.T) {
	gen := NewGenerator(flatModule())
	llm, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []struct {
		name    string
		linkage enum.Linkage
		blocks  int
	}{
		{"puts", enum.LinkageExternal, 0},
		{"f", enum.LinkageExternal, 1},
		{"f::g", enum.LinkageInternal, 1},
	}

	if len(llm.Funcs) != len(want) {
		t.Fatalf("emitted %d functions, want %d", len(llm.Funcs), len(want))
	}
	for i, w := range want {
		fn := llm.Funcs[i]
		if fn.Name() != w.name || fn.Linkage != w.linkage || len(fn.Blocks) != w.blocks {
			t.Errorf("func %d = %s %v (%d blocks), want %s %v (%d blocks)",
				i, fn.Name(), fn.Linkage, len(fn.Blocks), w.name, w.linkage, w.blocks)
		}
	}

	buf := &bytes.Buffer{}
	if _, err := gen.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "@puts") {
		t.Errorf("output missing @puts:\n%s", buf.String())
	}
}

func TestLinkSymbolsDuplicate(t *testing.T) {
	m := flatModule()
	m.Append(m.Root(), m.NewFunction("puts", m.NewSequence()))

	res := LinkSymbols(m)
	if res.Ok() {
		t.Fatal("duplicate symbol not reported")
	}
	if !strings.Contains(res.Diagnostic, "duplicate symbol `puts`") {
		t.Errorf("diagnostic = %q", res.Diagnostic)
	}
}

func TestLinkSymbolsRequiresFlatModule(t *testing.T) {
	m := ir.NewModule("m")
	m.Append(m.Root(), m.NewFunction("f", m.NewSequence(m.NewFunction("g", m.NewSequence()))))

	res := LinkSymbols(m)
	if res.Ok() || !strings.Contains(res.Diagnostic, "function `g` is not at top level") {
		t.Errorf("result = %v %q", res.Status, res.Diagnostic)
	}

	if res := LinkSymbols(flatModule()); !res.Ok() {
		t.Errorf("flat module rejected: %s", res.Diagnostic)
	}
}
