// Command provecheck checks a dependently-typed proof file, or a
// proof.yml-driven multi-file project, against the locally-nameless kernel
// in package kernel.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/driver"
	"github.com/toodols/provecheck/pkg/dump"
)

const cliToolVersion = "provecheck 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}
	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "check":
		return runCheck(args[1:])
	case "deps":
		return runDeps(args[1:])
	case "dump":
		return runDump(args[1:])
	default:
		return runCheck(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  provecheck check [target]       check a .proof file or the project found via proof.yml
  provecheck deps install         resolve and fetch every manifest dependency
  provecheck deps update [name..] re-resolve named (or all) dependencies
  provecheck dump [target] -o f   write the checked environment as JSON to f`)
}

func runCheck(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	files, err := loadTarget(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	results, _, diags := driver.Check(files)
	for _, r := range results {
		if r.Passed {
			fmt.Fprintln(os.Stdout, r.Message)
		}
	}
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return 1
	}
	return 0
}

// loadTarget resolves args[0] (or the current directory) into a parsed
// file set. A directory is checked as the proof.yml project found from it
// upward; an existing file is parsed as a bare .proof file; a path that
// does not exist falls back to the project found from its directory.
func loadTarget(args []string) ([]*ast.File, error) {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		manifestPath, findErr := driver.FindManifest(target)
		if findErr != nil {
			return nil, fmt.Errorf("%s is a directory with no %s: %w", target, driver.ManifestName, findErr)
		}
		return loadProjectFiles(manifestPath)
	}

	if manifestPath, findErr := driver.FindManifest(filepath.Dir(target)); findErr == nil && filepath.Base(target) != driver.ManifestName {
		if _, statErr := os.Stat(target); statErr != nil {
			return loadProjectFiles(manifestPath)
		}
	}

	return driver.Load(target)
}

func loadProjectFiles(manifestPath string) ([]*ast.File, error) {
	m, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	lockPath := filepath.Join(filepath.Dir(m.Path), driver.LockName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		lock = driver.NewLockfile()
	}
	files, err := driver.LoadProject(m, lock)
	if err != nil {
		return nil, err
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		return nil, err
	}
	return files, nil
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "provecheck deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func runDepsInstall() int {
	manifestPath, err := driver.FindManifest(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return 1
	}
	m, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}

	lockPath := filepath.Join(filepath.Dir(m.Path), driver.LockName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
			return 1
		}
		lock = driver.NewLockfile()
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", m.Path)
	fmt.Fprintf(os.Stdout, "Project: %s\n", m.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(m.Dependencies))

	for name, dep := range m.Dependencies {
		dir, err := driver.Fetch(name, dep, m.CacheDir(), lock)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dependency %q: %v\n", name, err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "  %s -> %s\n", name, dir)
	}

	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return 1
	}
	return 0
}

func runDepsUpdate(names []string) int {
	manifestPath, err := driver.FindManifest(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return 1
	}
	m, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}

	lock := driver.NewLockfile()
	targets := names
	if len(targets) == 0 {
		for name := range m.Dependencies {
			targets = append(targets, name)
		}
	}

	for _, name := range targets {
		dep, ok := m.Dependencies[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown dependency %q\n", name)
			return 1
		}
		if _, err := driver.Fetch(name, dep, m.CacheDir(), lock); err != nil {
			fmt.Fprintf(os.Stderr, "dependency %q: %v\n", name, err)
			return 1
		}
	}

	lockPath := filepath.Join(filepath.Dir(m.Path), driver.LockName)
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "updated %d dependencies\n", len(targets))
	return 0
}

func runDump(args []string) int {
	var out string
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			out = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	if out == "" {
		out = "dump.json"
	}

	files, err := loadTarget(rest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	_, g, diags := driver.Check(files)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if len(diags) > 0 {
		return 1
	}

	data, err := dump.MarshalIndent(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render environment dump: %v\n", err)
		return 1
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", out, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", out)
	return 0
}
