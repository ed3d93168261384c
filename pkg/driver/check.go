package driver

import (
	"fmt"

	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/diagnostics"
	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
	"github.com/toodols/provecheck/pkg/printer"
	"github.com/toodols/provecheck/pkg/resolver"
	"github.com/toodols/provecheck/pkg/typechecker"
)

// Result is the outcome of checking one declaration.
type Result struct {
	Name    string
	Axiom   bool // true when the declaration had no := body
	Passed  bool // always false when Axiom: only declarations with a body pass
	Message string
}

// Check runs declarations across files, in order, against a shared global
// environment seeded by env.New, and returns one Result per checked
// declaration plus the environment as it stood at the point of failure (or
// completion). Per the stated error policy, every failure is fatal to the
// run: checking halts at the first failing declaration and nothing after
// it is checked, so the returned environment is never a "partial" one that
// papers over an error earlier in the file.
func Check(files []*ast.File) ([]Result, *env.Env, []diagnostics.Diagnostic) {
	g := env.New()
	var results []Result

	for _, f := range files {
		for _, decl := range f.Decls {
			res, diag := checkOne(f.Path, decl, g)
			results = append(results, res)
			if diag != nil {
				return results, g, []diagnostics.Diagnostic{*diag}
			}
		}
	}
	return results, g, nil
}

func checkOne(file string, decl *ast.Decl, g *env.Env) (Result, *diagnostics.Diagnostic) {
	ty, err := resolver.Resolve(decl.Ty, g)
	if err != nil {
		return Result{Name: decl.Name, Message: err.Error()},
			resolveDiag(file, decl, err)
	}

	var def kernel.Term
	if decl.Def != nil {
		def, err = resolver.Resolve(decl.Def, g)
		if err != nil {
			return Result{Name: decl.Name, Message: err.Error()},
				resolveDiag(file, decl, err)
		}
	}

	if def == nil {
		g.Extend(&env.Declaration{Name: decl.Name, Ty: ty, Span: decl.Span, File: file})
		return Result{Name: decl.Name, Axiom: true}, nil
	}

	ok, terr := typechecker.MemberOf(def, ty, nil, g)
	if terr != nil {
		d := &diagnostics.Diagnostic{
			Kind:    diagnostics.Type,
			Message: terr.Error(),
			File:    file,
			Span:    decl.Span,
		}
		if te, ok := terr.(*typechecker.Error); ok {
			if te.Got != nil {
				d.Got = printer.Print(te.Got)
			}
			if te.Want != nil {
				d.Want = printer.Print(te.Want)
			}
		}
		return Result{Name: decl.Name, Message: terr.Error()}, d
	}
	if !ok {
		synth, _ := typechecker.TypeOf(def, nil, g)
		d := &diagnostics.Diagnostic{
			Kind:    diagnostics.Type,
			Message: fmt.Sprintf("proof %q does not match its declared type", decl.Name),
			File:    file,
			Span:    decl.Span,
			Got:     printer.Print(synth),
			Want:    printer.Print(ty),
		}
		return Result{Name: decl.Name, Message: d.Message}, d
	}

	normalized := kernel.Normalize(def)
	g.Extend(&env.Declaration{Name: decl.Name, Ty: ty, Def: normalized, Span: decl.Span, File: file})
	return Result{
		Name:    decl.Name,
		Passed:  true,
		Message: fmt.Sprintf("Proof '%s' passed", decl.Name),
	}, nil
}

func resolveDiag(file string, decl *ast.Decl, err error) *diagnostics.Diagnostic {
	if rerr, ok := err.(*resolver.Error); ok {
		return &diagnostics.Diagnostic{
			Kind:    diagnostics.Resolve,
			Message: rerr.Message,
			File:    file,
			Span:    ast.Span{Start: rerr.Pos},
		}
	}
	return &diagnostics.Diagnostic{
		Kind:    diagnostics.Resolve,
		Message: err.Error(),
		File:    file,
		Span:    decl.Span,
	}
}
