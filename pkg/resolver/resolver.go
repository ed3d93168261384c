// Package resolver lifts surface ast.Expr into kernel.Term: binder names
// become de Bruijn indices, and identifiers that name a defined global are
// inlined verbatim.
package resolver

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/toodols/provecheck/pkg/ast"
	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
)

// Error is a resolve failure: an identifier is neither in local scope nor
// in the global environment, a Binding appears outside a Lambda/Pi head,
// or a Ref/Error node is found in surface input.
type Error struct {
	Pos     ast.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// scopeEntry is one entry of the bound-name stack; Anon marks an anonymous
// binder (head was a bare expr, not an annotated Binding), which can never
// be found by name.
type scopeEntry struct {
	name string
	anon bool
}

// Resolve lifts a closed surface expression into a kernel term against the
// given global environment.
func Resolve(e ast.Expr, globals *env.Env) (kernel.Term, error) {
	return resolve(e, nil, globals)
}

func resolve(e ast.Expr, bound []scopeEntry, globals *env.Env) (kernel.Term, error) {
	switch n := e.(type) {
	case *ast.Ident:
		return resolveIdent(n, bound, globals)
	case *ast.App:
		fun, err := resolve(n.Fun, bound, globals)
		if err != nil {
			return nil, err
		}
		arg, err := resolve(n.Arg, bound, globals)
		if err != nil {
			return nil, err
		}
		return kernel.App{Fun: fun, Arg: arg}, nil
	case *ast.Lambda:
		head, body, err := resolveBinder(n.Head, n.Body, bound, globals)
		if err != nil {
			return nil, err
		}
		return kernel.Lambda{Head: head, Body: body}, nil
	case *ast.Pi:
		head, body, err := resolveBinder(n.Head, n.Body, bound, globals)
		if err != nil {
			return nil, err
		}
		return kernel.Pi{Head: head, Body: body}, nil
	case *ast.Binding:
		return nil, &Error{Pos: n.Span().Start, Message: "annotated binding used outside a lambda/pi head"}
	case *ast.ErrorExpr:
		return nil, &Error{Pos: n.Span().Start, Message: "parser error node reached the resolver: " + n.Reason}
	default:
		return nil, fmt.Errorf("resolver: unhandled surface expression %T", e)
	}
}

// resolveBinder resolves a Lambda/Pi's (head, body) pair: the head's type
// is resolved in the current scope, then the binder (named or anonymous)
// is pushed before the body is resolved.
func resolveBinder(head, body ast.Expr, bound []scopeEntry, globals *env.Env) (kernel.Term, kernel.Term, error) {
	var resolvedHead kernel.Term
	var entry scopeEntry
	if b, ok := head.(*ast.Binding); ok {
		ty, err := resolve(b.Ty, bound, globals)
		if err != nil {
			return nil, nil, err
		}
		resolvedHead = ty
		entry = scopeEntry{name: b.Name}
	} else {
		ty, err := resolve(head, bound, globals)
		if err != nil {
			return nil, nil, err
		}
		resolvedHead = ty
		entry = scopeEntry{anon: true}
	}

	innerBound := append([]scopeEntry{entry}, bound...)
	resolvedBody, err := resolve(body, innerBound, globals)
	if err != nil {
		return nil, nil, err
	}
	return resolvedHead, resolvedBody, nil
}

// resolveIdent searches bound from innermost to outermost first, then
// falls back to the global environment: a defined global is inlined
// verbatim, an axiom becomes an opaque Ident, and anything else is an
// undefined name.
func resolveIdent(id *ast.Ident, bound []scopeEntry, globals *env.Env) (kernel.Term, error) {
	if i := slices.IndexFunc(bound, func(s scopeEntry) bool {
		return !s.anon && s.name == id.Name
	}); i >= 0 {
		return kernel.Ref{Index: i + 1}, nil
	}

	decl, ok := globals.Get(id.Name)
	if !ok {
		return nil, &Error{Pos: id.Span().Start, Message: fmt.Sprintf("%s not defined", id.Name)}
	}
	if decl.Def != nil {
		return decl.Def, nil
	}
	return kernel.Ident{Name: decl.Name}, nil
}
