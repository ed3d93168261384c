// Package env holds the global environment: the ordered, append-only
// mapping from declared names to their checked declarations.
package env

import (
	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/kernel"
)

// Declaration is one bound name: its declared type, and its defining body
// if it has one (nil means an axiom).
type Declaration struct {
	Name string
	Ty   kernel.Term
	Def  kernel.Term // nil for an axiom
	Span ast.Span
	File string
}

// IsAxiom reports whether this declaration has no defining body.
func (d *Declaration) IsAxiom() bool { return d.Def == nil }

// Env is the ordered global environment. Names are appended only; a
// duplicate name shadows the earlier entry (the declaration is considered
// reparsed), but nothing already resolved against the earlier entry is
// retroactively changed.
type Env struct {
	order []string
	decls map[string]*Declaration
}

// New returns an environment seeded with the two predeclared names: Type
// (an opaque sort whose own "type" is a sentinel never inspected) and
// SORRY (the unsound escape hatch, typed by a sentinel that apply_type
// special-cases).
func New() *Env {
	e := &Env{decls: make(map[string]*Declaration)}
	e.Extend(&Declaration{Name: kernel.TypeName, Ty: kernel.ErrorSentinel{}})
	e.Extend(&Declaration{Name: kernel.SorryName, Ty: kernel.SorrySentinel{}})
	return e
}

// Get looks up a declared name.
func (e *Env) Get(name string) (*Declaration, bool) {
	d, ok := e.decls[name]
	return d, ok
}

// Extend appends a declaration to the environment, in order. A repeated
// name shadows its previous entry in Get, but the name stays at its
// original position in Names for dump stability.
func (e *Env) Extend(d *Declaration) {
	if _, exists := e.decls[d.Name]; !exists {
		e.order = append(e.order, d.Name)
	}
	e.decls[d.Name] = d
}

// Names returns declared names in declaration order.
func (e *Env) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
