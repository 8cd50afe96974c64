package irfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"midend/ir"
)

const nestedDoc = `
module: nested
root:
  - kind: function
    name: f
    children:
      - kind: seq
        children:
          - kind: function
            name: g
            children: [{kind: seq}]
          - kind: call
            children: [{kind: ident, name: g}, {kind: lit, name: 42}]
`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(nestedDoc), "fallback")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.Name != "nested" {
		t.Errorf("name = %q, want nested", m.Name)
	}

	want := "(seq (function f (seq (function g (seq)) (call (ident g) (lit 42)))))"
	if got := ir.Sprint(m, m.Root()); got != want {
		t.Errorf("tree = %s\nwant   %s", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty module file"},
		{"unknown kind", "root:\n  - kind: seq\n    children: [{kind: fn}]\n", "root[0].children[0]: unknown node kind `fn`"},
		{"named void", "root:\n  - {kind: void, name: x}\n", "root[0]: void nodes cannot have a name"},
		{"null node", "root:\n  -\n", "root[0]: empty node"},
		{"unknown field", "root:\n  - {kind: seq, body: []}\n", "field body not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), "m")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	m, err := Decode(strings.NewReader(nestedDoc), "m")
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := Encode(buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	again, err := Decode(buf, "other")
	if err != nil {
		t.Fatalf("Decode encoded module: %v\n%s", err, buf.String())
	}

	if again.Name != m.Name {
		t.Errorf("name = %q, want %q", again.Name, m.Name)
	}
	if got, want := ir.Sprint(again, again.Root()), ir.Sprint(m, m.Root()); got != want {
		t.Errorf("round trip = %s\nwant        %s", got, want)
	}
}

func TestEncodeRejectsCycles(t *testing.T) {
	m := ir.NewModule("m")
	body := m.NewSequence(m.NewVoid())
	fn := m.NewFunction("f", body)
	m.Append(m.Root(), fn)
	m.ChildSlot(body, 0).Set(fn)

	if err := Encode(&bytes.Buffer{}, m); err == nil || !strings.Contains(err.Error(), "cyclic") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadUsesFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.yaml")
	if err := os.WriteFile(path, []byte("root:\n  - {kind: extern, name: libc}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "hello" {
		t.Errorf("name = %q, want hello", m.Name)
	}
	if got := ir.Sprint(m, m.Root()); got != "(seq (extern libc))" {
		t.Errorf("tree = %s", got)
	}
}
