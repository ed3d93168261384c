package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockName is the file WriteLockfile/LoadLockfile read and write, sitting
// next to the manifest.
const LockName = "proof.lock"

// Lockfile pins every git dependency to the exact commit it resolved to, so
// re-running deps install without deps update reuses that commit instead
// of re-resolving its rev/tag/branch.
type Lockfile struct {
	Path      string
	Generated string
	Packages  []*LockedPackage
}

// LockedPackage is one resolved dependency.
type LockedPackage struct {
	Name     string
	Source   string // "git+<url>@<rev|tag|branch>" or "path+<dir>"
	Commit   string
	Checksum string
}

type lockfileDisk struct {
	Generated string            `yaml:"generated"`
	Packages  []lockedPackageV1 `yaml:"packages"`
}

type lockedPackageV1 struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Commit   string `yaml:"commit"`
	Checksum string `yaml:"checksum"`
}

// NewLockfile returns an empty lockfile with no path set; WriteLockfile
// sets it.
func NewLockfile() *Lockfile {
	return &Lockfile{Generated: time.Now().UTC().Format(time.RFC3339)}
}

// LoadLockfile parses proof.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw lockfileDisk
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := &Lockfile{Path: abs, Generated: raw.Generated}
	for _, p := range raw.Packages {
		lock.Packages = append(lock.Packages, &LockedPackage{
			Name: p.Name, Source: p.Source, Commit: p.Commit, Checksum: p.Checksum,
		})
	}
	lock.sort()
	return lock, nil
}

// WriteLockfile serialises the lockfile to path, refreshing its generated
// timestamp.
func WriteLockfile(lock *Lockfile, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	lock.Path = abs
	lock.Generated = time.Now().UTC().Format(time.RFC3339)
	lock.sort()

	disk := lockfileDisk{Generated: lock.Generated}
	for _, p := range lock.Packages {
		disk.Packages = append(disk.Packages, lockedPackageV1{
			Name: p.Name, Source: p.Source, Commit: p.Commit, Checksum: p.Checksum,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(disk); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(abs, buf.Bytes(), 0o644)
}

// Get returns the locked entry for name, if present.
func (l *Lockfile) Get(name string) (*LockedPackage, bool) {
	for _, p := range l.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Put inserts or replaces the locked entry for pkg.Name.
func (l *Lockfile) Put(pkg *LockedPackage) {
	for i, p := range l.Packages {
		if p.Name == pkg.Name {
			l.Packages[i] = pkg
			return
		}
	}
	l.Packages = append(l.Packages, pkg)
}

func (l *Lockfile) sort() {
	sort.SliceStable(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
