package build

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotCopiesTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "env")

	for _, f := range []string{"main.go", "connector.yaml", "internal/sync/sync.go"} {
		path := filepath.Join(src, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// entries that must not cross into the build environment
	for _, d := range []string{".git", "dist", "_scratch"} {
		if err := os.MkdirAll(filepath.Join(src, d), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(src, d, "f"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Snapshot(src, dst); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, f := range []string{"main.go", "connector.yaml", "internal/sync/sync.go"} {
		if _, err := os.Stat(filepath.Join(dst, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
	for _, d := range []string{".git", "dist", "_scratch"} {
		if _, err := os.Stat(filepath.Join(dst, d)); !os.IsNotExist(err) {
			t.Errorf("%s leaked into the build environment", d)
		}
	}
}

func TestSnapshotRejectsDirtyEnv(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "env")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, "stale"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Snapshot(src, dst); err == nil {
		t.Fatal("expected error for non-empty environment")
	}
}

func TestTeardown(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "env")
	if err := os.MkdirAll(env, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Teardown(env); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if _, err := os.Stat(env); !os.IsNotExist(err) {
		t.Fatal("environment still present")
	}
}
