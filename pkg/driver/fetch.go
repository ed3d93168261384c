package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetch resolves dep into a local directory, updating lock with its
// resolved commit/checksum. Git dependencies are cloned once per commit
// into cacheDir and reused on subsequent calls; path dependencies are used
// in place.
func Fetch(name string, dep *Dependency, cacheDir string, lock *Lockfile) (string, error) {
	if dep.Path != "" {
		dir := dep.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cacheDir, "..", dep.Path)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		checksum, err := dirChecksum(abs)
		if err != nil {
			return "", fmt.Errorf("dependency %q: %w", name, err)
		}
		lock.Put(&LockedPackage{
			Name:     name,
			Source:   fmt.Sprintf("path+%s", abs),
			Checksum: checksum,
		})
		return abs, nil
	}
	return fetchGit(name, dep, cacheDir, lock)
}

func fetchGit(name string, dep *Dependency, cacheDir string, lock *Lockfile) (string, error) {
	baseDir := filepath.Join(cacheDir, sanitizeName(name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revision, descriptor := gitRevisionFromDependency(dep)

	if existing, ok := lock.Get(name); ok && existing.Commit != "" {
		dir := filepath.Join(baseDir, existing.Commit)
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
		revision = plumbing.Revision(existing.Commit)
	}

	tmpDir, err := os.MkdirTemp(baseDir, "clone-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: dep.Git})
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("dependency %q: git clone %s: %w", name, dep.Git, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("dependency %q: resolve %s: %w", name, descriptor, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("dependency %q: checkout %s: %w", name, hash.String(), err)
	}

	targetDir := filepath.Join(baseDir, hash.String())
	if _, err := os.Stat(targetDir); err == nil {
		os.RemoveAll(tmpDir)
	} else if err := os.Rename(tmpDir, targetDir); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}

	checksum, err := dirChecksum(targetDir)
	if err != nil {
		return "", err
	}
	lock.Put(&LockedPackage{
		Name:     name,
		Source:   fmt.Sprintf("git+%s@%s", dep.Git, descriptor),
		Commit:   hash.String(),
		Checksum: checksum,
	})
	return targetDir, nil
}

func gitRevisionFromDependency(dep *Dependency) (plumbing.Revision, string) {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev), dep.Rev
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag), dep.Tag
	default:
		return plumbing.Revision("refs/heads/" + dep.Branch), dep.Branch
	}
}

func dirChecksum(dir string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".proof") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
