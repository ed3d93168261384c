package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"

	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/parser"
)

// Load parses a single bare .proof file. It rejects a path to proof.yml;
// a manifest-driven project is loaded with LoadProject.
func Load(target string) ([]*ast.File, error) {
	if filepath.Base(target) == ManifestName {
		return nil, fmt.Errorf("load: pass the manifest's directory, not %s directly", ManifestName)
	}
	src, err := os.ReadFile(target)
	if err != nil {
		return nil, err
	}
	f, err := parser.ParseFile(src, target)
	if err != nil {
		return nil, err
	}
	return []*ast.File{f}, nil
}

// LoadProject resolves every dependency named in m (fetching git
// dependencies as needed and updating lock), then parses each dependency's
// .proof files followed by the entry file. Dependencies are loaded in
// order of their names, sorted; the order they are written in proof.yml
// is not kept.
func LoadProject(m *Manifest, lock *Lockfile) ([]*ast.File, error) {
	var files []*ast.File

	names := lo.Keys(m.Dependencies)
	sort.Strings(names)

	for _, name := range names {
		dep := m.Dependencies[name]
		dir, err := Fetch(name, dep, m.CacheDir(), lock)
		if err != nil {
			return nil, err
		}
		depFiles, err := loadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		files = append(files, depFiles...)
	}

	entryPath := m.EntryPath()
	entrySrc, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, err
	}
	entry, err := parser.ParseFile(entrySrc, entryPath)
	if err != nil {
		return nil, err
	}
	files = append(files, entry)
	return files, nil
}

func loadDir(dir string) ([]*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && filepath.Ext(e.Name()) == ".proof"
	})
	sort.Strings(names)

	var files []*ast.File
	for _, name := range names {
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		f, err := parser.ParseFile(src, path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
