package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadManifestParsesGitAndPathDependencies(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, ManifestName, `
name: example
entry: main.proof
dependencies:
  nat_lib:
    path: ../nat_lib
  order_lib:
    git: https://example.invalid/order_lib.git
    tag: v1.0.0
`)
	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "example" || m.Entry != "main.proof" {
		t.Fatalf("got %#v", m)
	}
	if m.Dependencies["nat_lib"].Path != "../nat_lib" {
		t.Errorf("nat_lib: %#v", m.Dependencies["nat_lib"])
	}
	if m.Dependencies["order_lib"].Git == "" || m.Dependencies["order_lib"].Tag != "v1.0.0" {
		t.Errorf("order_lib: %#v", m.Dependencies["order_lib"])
	}
}

func TestLoadManifestRejectsAmbiguousGitRevisionSelector(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, ManifestName, `
name: example
entry: main.proof
dependencies:
  order_lib:
    git: https://example.invalid/order_lib.git
    tag: v1.0.0
    branch: main
`)
	if _, err := LoadManifest(filepath.Join(dir, ManifestName)); err == nil {
		t.Fatal("expected an error for a dependency specifying both tag and branch")
	}
}

func TestFindManifestSearchesAncestors(t *testing.T) {
	root := t.TempDir()
	writeTemp(t, root, ManifestName, "name: example\nentry: main.proof\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, ManifestName)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lock := NewLockfile()
	lock.Put(&LockedPackage{Name: "nat_lib", Source: "path+/x/nat_lib", Checksum: "abc"})

	path := filepath.Join(dir, LockName)
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pkg, ok := loaded.Get("nat_lib")
	if !ok {
		t.Fatal("expected nat_lib to round-trip")
	}
	if pkg.Checksum != "abc" {
		t.Errorf("got checksum %q", pkg.Checksum)
	}
}
