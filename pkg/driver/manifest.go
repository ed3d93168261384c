// Package driver wires the lexer, parser, resolver and type checker into
// a multi-file project pipeline: it loads a proof.yml manifest (or a bare
// file), fetches any named dependencies, and checks every declaration in
// order against a shared global environment.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file LoadManifest and FindManifest look for.
const ManifestName = "proof.yml"

// Manifest is the parsed contents of proof.yml.
type Manifest struct {
	Path         string
	Name         string
	Entry        string
	Dependencies map[string]*Dependency
}

// Dependency is one named axiom library: either fetched from git (pinned
// by Rev, Tag or Branch) or used in place from a local Path.
type Dependency struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// IsGit reports whether this dependency is fetched from a git remote.
func (d *Dependency) IsGit() bool { return d != nil && d.Git != "" }

func (d *Dependency) validate(name string) error {
	if d.Path != "" && d.Git != "" {
		return fmt.Errorf("dependency %q: path and git are mutually exclusive", name)
	}
	if d.Git == "" && d.Path == "" {
		return fmt.Errorf("dependency %q: must specify git or path", name)
	}
	if d.Git != "" {
		set := 0
		for _, v := range []string{d.Rev, d.Tag, d.Branch} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("dependency %q: exactly one of rev, tag, branch is required for a git dependency", name)
		}
	}
	return nil
}

type manifestFile struct {
	Name         string                 `yaml:"name"`
	Entry        string                 `yaml:"entry"`
	Dependencies map[string]*Dependency `yaml:"dependencies"`
}

// LoadManifest parses proof.yml from disk.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", abs, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var raw manifestFile
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("manifest: %s is empty", abs)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("manifest: %s: name must be provided", abs)
	}
	if strings.TrimSpace(raw.Entry) == "" {
		return nil, fmt.Errorf("manifest: %s: entry must be provided", abs)
	}
	m := &Manifest{
		Path:         abs,
		Name:         raw.Name,
		Entry:        raw.Entry,
		Dependencies: raw.Dependencies,
	}
	for name, dep := range m.Dependencies {
		if dep == nil {
			return nil, fmt.Errorf("dependency %q: empty specification", name)
		}
		if err := dep.validate(name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FindManifest searches startDir and its ancestors for proof.yml, returning
// its path or an error if none is found by the filesystem root.
func FindManifest(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ManifestName, startDir)
		}
		dir = parent
	}
}

// EntryPath resolves the manifest's entry file relative to the manifest's
// directory.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(filepath.Dir(m.Path), m.Entry)
}

// CacheDir is the directory git dependencies are fetched into, alongside
// the manifest.
func (m *Manifest) CacheDir() string {
	return filepath.Join(filepath.Dir(m.Path), ".proof_cache")
}
