package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"midend/ir"
	"midend/passes"
	"midend/pipeline"
)

const (
	nestedDoc = `
root:
  - kind: function
    name: f
    children:
      - kind: seq
        children:
          - {kind: function, name: g, children: [{kind: seq}]}
`
	malformedDoc = `
root:
  - {kind: function, name: broken}
`
)

func writeModule(t *testing.T, dir, name, doc string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.yaml", nestedDoc)
	writeModule(t, dir, "b.yaml", malformedDoc)
	writeModule(t, dir, "c.yaml", "root: [")
	writeModule(t, dir, "notes.txt", "not a module")

	paths, err := ModulePaths(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}

	d := NewDriver(pipeline.NewRegistry(), pipeline.GroupRoot, 2)
	units, err := d.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a, b, c := units[0], units[1], units[2]

	if !a.Ok() || a.Module.Name != "a" {
		t.Errorf("a: ok = %v, failures = %v", a.Ok(), a.Result.Failures())
	}
	want := "(seq (ident f) (function f (seq (ident f::g))) (function f::g (seq)))"
	if got := ir.Sprint(a.Module, a.Module.Root()); got != want {
		t.Errorf("a tree = %s", got)
	}

	if b.Err != nil || b.Result.Success {
		t.Errorf("b: err = %v, success = %v", b.Err, b.Result.Success)
	}
	if b.Result.Count(passes.UnitPass, "hoist") != 0 {
		t.Error("b was hoisted despite failing validation")
	}

	if c.Err == nil || c.Module != nil || c.Ok() {
		t.Errorf("c: err = %v", c.Err)
	}
}

func TestRunConfigError(t *testing.T) {
	path := writeModule(t, t.TempDir(), "a.yaml", nestedDoc)

	d := NewDriver(pipeline.NewRegistry(), "missing", 0)
	_, err := d.Run(context.Background(), []string{path})
	if !errors.Is(err, passes.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestModulePathsSingleFile(t *testing.T) {
	path := writeModule(t, t.TempDir(), "only.yaml", nestedDoc)

	paths, err := ModulePaths(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("paths = %v", paths)
	}

	if _, err := ModulePaths(filepath.Join(t.TempDir(), "nowhere")); err == nil {
		t.Error("missing path accepted")
	}
}

func TestWatch(t *testing.T) {
	path := writeModule(t, t.TempDir(), "w.yaml", malformedDoc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	units := make(chan *Unit, 64)
	done := make(chan error, 1)

	d := NewDriver(pipeline.NewRegistry(), pipeline.GroupRoot, 1)
	go func() {
		done <- d.Watch(ctx, path, func(u *Unit) { units <- u })
	}()

	select {
	case u := <-units:
		if u.Ok() {
			t.Fatal("malformed module succeeded")
		}
	case <-ctx.Done():
		t.Fatal("no initial run")
	}

	if err := os.WriteFile(path, []byte(nestedDoc), 0644); err != nil {
		t.Fatal(err)
	}

	// a single write may be reported as several events
	for {
		select {
		case u := <-units:
			if u.Ok() {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Watch: %v", err)
				}
				return
			}
		case <-ctx.Done():
			t.Fatal("rewritten module was not rerun")
		}
	}
}

func TestPlanUsesModuleMemo(t *testing.T) {
	d := NewDriver(pipeline.NewRegistry(), pipeline.GroupRoot, 1)

	m := ir.NewModule("m")
	m.MarkExecuted(pipeline.GroupFlatten)

	steps, err := d.Plan(m)
	if err != nil {
		t.Fatal(err)
	}

	for _, step := range steps {
		if step.Unit == passes.UnitPass && step.Name == "hoist" {
			t.Error("plan runs hoist although flatten already executed")
		}
	}
	if len(m.ExecutedGroups()) != 1 {
		t.Error("plan modified the memo")
	}
}
