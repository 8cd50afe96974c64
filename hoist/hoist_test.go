package hoist

import (
	"testing"

	"midend/generate"
	"midend/ir"
)

func nestedModule() *ir.Module {
	m := ir.NewModule("m")
	g := m.NewFunction("g", m.NewSequence())
	f := m.NewFunction("f", m.NewSequence(g))
	m.Append(m.Root(), f)
	return m
}

// sharedModule builds a root holding `f` and `h` whose bodies both hold the
// same `g` node
func sharedModule() *ir.Module {
	m := ir.NewModule("m")
	g := m.NewFunction("g", m.NewSequence())
	m.Append(m.Root(), m.NewFunction("f", m.NewSequence(g)))
	m.Append(m.Root(), m.NewFunction("h", m.NewSequence(g)))
	return m
}

func TestNestedFunctions(t *testing.T) {
	m := nestedModule()

	if res := Transform(m); !res.Ok() {
		t.Fatalf("hoist failed: %s", res.Diagnostic)
	}

	want := "(seq (ident f) (function f (seq (ident f::g))) (function f::g (seq)))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
}

func TestIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		build func() *ir.Module
	}{
		{"nested functions", nestedModule},
		{"externs and anonymous functions", func() *ir.Module {
			m := ir.NewModule("m")
			inner := m.NewFunction("", m.NewSequence(m.NewExtern("libm", m.NewFunction("sqrt", m.NewSequence()))))
			m.Append(m.Root(), m.NewExtern("libc"))
			m.Append(m.Root(), m.NewLet("x", m.NewLiteral("1")))
			m.Append(m.Root(), m.NewFunction("main", m.NewSequence(inner, m.NewCall(m.NewIdentifier("main::$_0")))))
			return m
		}},
		{"shared nested function", sharedModule},
		{"function held twice by the root", func() *ir.Module {
			m := ir.NewModule("m")
			f := m.NewFunction("f", m.NewSequence())
			m.Append(m.Root(), f)
			m.Append(m.Root(), f)
			return m
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()
			Transform(m)
			once := ir.Sprint(m, m.Root())
			size := m.NumChildren(m.Root())

			Transform(m)
			if twice := ir.Sprint(m, m.Root()); twice != once {
				t.Errorf("second run changed the tree:\nonce  %s\ntwice %s", once, twice)
			}
			if m.NumChildren(m.Root()) != size {
				t.Error("second run appended to the root")
			}
		})
	}
}

func TestExterns(t *testing.T) {
	m := ir.NewModule("m")
	top := m.NewExtern("libc")
	nested := m.NewExtern("libm", m.NewFunction("sqrt", m.NewSequence()))
	m.Append(m.Root(), top)
	m.Append(m.Root(), m.NewSequence(nested))

	Transform(m)

	// prototypes inside the extern keep their names and stay in place
	want := "(seq (extern libc) (seq (void)) (extern libm (function sqrt (seq))))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
	if m.Child(m.Root(), 0) != top || m.Child(m.Root(), 2) != nested {
		t.Error("extern identity not preserved")
	}
}

func TestExternInsideFunction(t *testing.T) {
	m := ir.NewModule("m")
	m.Append(m.Root(), m.NewFunction("f", m.NewSequence(m.NewExtern("libc"))))

	Transform(m)

	want := "(seq (ident f) (extern libc) (function f (seq (void))))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
}

func TestAnonymousFunctionNames(t *testing.T) {
	m := ir.NewModule("m")
	a := m.NewFunction("", m.NewSequence())
	b := m.NewFunction("", m.NewSequence())
	m.Append(m.Root(), m.NewFunction("outer", m.NewSequence(a, b)))
	m.Append(m.Root(), m.NewFunction("", m.NewSequence()))

	Transform(m)

	want := "(seq (ident outer) (ident $_2) (function outer (seq (ident outer::$_0) (ident outer::$_1)))" +
		" (function outer::$_0 (seq)) (function outer::$_1 (seq)) (function $_2 (seq)))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
}

func TestDeepNestingOrder(t *testing.T) {
	m := ir.NewModule("m")
	c := m.NewFunction("c", m.NewSequence())
	b := m.NewFunction("b", m.NewSequence(c))
	a := m.NewFunction("a", m.NewSequence(b, m.NewLet("v", m.NewLiteral("2"))))
	m.Append(m.Root(), a)

	Transform(m)

	want := "(seq (ident a) (function a (seq (ident a::b) (let v (lit 2))))" +
		" (function a::b (seq (ident a::b::c))) (function a::b::c (seq)))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
	for _, id := range []ir.NodeID{a, b, c} {
		if !m.HasFlag(id, ir.FlagHoisted) || !m.IsRootChild(id) {
			t.Errorf("%s not hoisted", m.NodeName(id))
		}
	}
}

func TestSharedFunctionIsNamedOnce(t *testing.T) {
	m := sharedModule()
	Transform(m)

	want := "(seq (ident f) (ident h) (function f (seq (ident f::g)))" +
		" (function f::g (seq)) (function h (seq (ident f::g))))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
}

func TestRootAliasIsDefinedOnce(t *testing.T) {
	m := ir.NewModule("m")
	f := m.NewFunction("f", m.NewSequence())
	m.Append(m.Root(), f)
	m.Append(m.Root(), f)

	Transform(m)

	want := "(seq (ident f) (ident f) (function f (seq)))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}

	if res := generate.LinkSymbols(m); !res.Ok() {
		t.Errorf("link-symbols failed: %s", res.Diagnostic)
	}
}
