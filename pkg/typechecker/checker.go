// Package typechecker implements the two mutually recursive judgements
// that check a kernel.Term against its declared type: type_of (synthesis)
// and apply_type (elimination).
package typechecker

import (
	"fmt"

	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
)

// Error is a typing failure: an ill-formed application, an undefined
// global reached during synthesis, or a shape with no typing rule.
type Error struct {
	Message string
	Got     kernel.Term // synthesised type, when relevant
	Want    kernel.Term // declared/expected type, when relevant
}

func (e *Error) Error() string {
	return e.Message
}

// refs is the stack of binder-head types, indexed the same way Ref
// indices are: refs[0] is the innermost enclosing binder's head type.
type refs []kernel.Term

// TypeOf synthesises the type of e against the global environment and the
// given stack of enclosing binder-head types.
func TypeOf(e kernel.Term, rs refs, globals *env.Env) (kernel.Term, error) {
	switch t := e.(type) {
	case kernel.Ident:
		decl, ok := globals.Get(t.Name)
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("%s not defined", t.Name)}
		}
		return decl.Ty, nil

	case kernel.Ref:
		if t.Index < 1 || t.Index > len(rs) {
			return nil, &Error{Message: fmt.Sprintf("de Bruijn index %d out of range", t.Index)}
		}
		// The stored head type was recorded i binders ago; it crosses i
		// binders on its way back out, so every free Ref inside it must
		// shift by i to keep naming what it named when it was pushed.
		return kernel.Shift(rs[t.Index-1], t.Index), nil

	case kernel.Lambda:
		bodyTy, err := TypeOf(t.Body, append(refs{t.Head}, rs...), globals)
		if err != nil {
			return nil, err
		}
		return kernel.Pi{Head: t.Head, Body: bodyTy}, nil

	case kernel.Pi:
		return kernel.Ident{Name: kernel.TypeName}, nil

	case kernel.App:
		fTy, err := TypeOf(t.Fun, rs, globals)
		if err != nil {
			return nil, err
		}
		return ApplyType(fTy, t.Arg, rs, globals)

	default:
		return nil, &Error{Message: fmt.Sprintf("no typing rule for %T", e)}
	}
}

// ApplyType computes the type of applying a function of synthesised type F
// to argument v.
func ApplyType(f kernel.Term, v kernel.Term, rs refs, globals *env.Env) (kernel.Term, error) {
	switch ft := f.(type) {
	case kernel.Pi:
		ok, err := MemberOf(v, ft.Head, rs, globals)
		if err != nil {
			return nil, err
		}
		if !ok {
			vTy, _ := TypeOf(v, rs, globals)
			return nil, &Error{
				Message: "argument does not match the function's expected type",
				Got:     vTy,
				Want:    ft.Head,
			}
		}
		return kernel.Normalize(kernel.Subst(ft.Body, v, 1)), nil

	case kernel.SorrySentinel:
		return v, nil

	default:
		return nil, &Error{Message: "applied a non-function"}
	}
}

// MemberOf reports whether e synthesises exactly tau, by structural
// equality of the synthesised type against tau. This is a syntactic check,
// not definitional equality: neither side is normalised here.
func MemberOf(e kernel.Term, tau kernel.Term, rs refs, globals *env.Env) (bool, error) {
	ty, err := TypeOf(e, rs, globals)
	if err != nil {
		return false, err
	}
	return kernel.Equal(ty, tau), nil
}
