package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := Init(root); err != nil {
		t.Fatal(err)
	}

	// not a pipeline file, so the search continues upward
	if err := os.WriteFile(filepath.Join(root, "a", "midend.toml"), []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	modulePath := filepath.Join(nested, "m.yaml")
	path, ok := Find(modulePath)
	if !ok || path != filepath.Join(root, "midend.toml") {
		t.Errorf("Find = %q, %v", path, ok)
	}

	path, ok = Find(nested)
	if !ok || path != filepath.Join(root, "midend.toml") {
		t.Errorf("Find(dir) = %q, %v", path, ok)
	}
}

func TestFindUsesEnvironment(t *testing.T) {
	envDir := t.TempDir()
	if _, err := Init(envDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnvVar, envDir)

	path, ok := Find(filepath.Join(t.TempDir(), "m.yaml"))
	if !ok || path != filepath.Join(envDir, "midend.toml") {
		t.Errorf("Find = %q, %v", path, ok)
	}
}
