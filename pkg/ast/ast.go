// Package ast defines the surface syntax produced by the parser: named
// binders, not yet lifted to de Bruijn indices. See pkg/kernel for the
// post-resolution representation.
package ast

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span covers a contiguous range of source text.
type Span struct {
	Start Position
	End   Position
}

// Expr is any surface expression node.
type Expr interface {
	isExpr()
	Span() Span
}

type base struct {
	span Span
}

func (b base) Span() Span { return b.span }

// Ident is an unresolved identifier.
type Ident struct {
	base
	Name string
}

func (*Ident) isExpr() {}

// Id builds an Ident with a zero span, for use in tests and builders.
func Id(name string) *Ident { return &Ident{Name: name} }

// App is a function application.
type App struct {
	base
	Fun Expr
	Arg Expr
}

func (*App) isExpr() {}

// Ap builds an App with a zero span.
func Ap(fun, arg Expr) *App { return &App{Fun: fun, Arg: arg} }

// Binding is an annotated binder: (name : ty). Valid only as the Head of a
// Lambda or Pi.
type Binding struct {
	base
	Name string
	Ty   Expr
}

func (*Binding) isExpr() {}

// Bind builds a Binding with a zero span.
func Bind(name string, ty Expr) *Binding { return &Binding{Name: name, Ty: ty} }

// Lambda is a value abstraction. Head is either a *Binding (annotated) or a
// bare Expr used as the type of an anonymous binder.
type Lambda struct {
	base
	Head Expr
	Body Expr
}

func (*Lambda) isExpr() {}

// Lam builds a Lambda with a zero span.
func Lam(head, body Expr) *Lambda { return &Lambda{Head: head, Body: body} }

// Pi is a dependent function type. Shape mirrors Lambda.
type Pi struct {
	base
	Head Expr
	Body Expr
}

func (*Pi) isExpr() {}

// PiT builds a Pi with a zero span.
func PiT(head, body Expr) *Pi { return &Pi{Head: head, Body: body} }

// ErrorExpr is a parser sentinel: never produced by a well-formed source.
type ErrorExpr struct {
	base
	Reason string
}

func (*ErrorExpr) isExpr() {}

// Err builds an ErrorExpr with a zero span.
func Err(reason string) *ErrorExpr { return &ErrorExpr{Reason: reason} }

// SetSpan attaches a span to a node built through the zero-span
// constructors above, for nodes assembled outside the main parse walk.
func SetSpan(e Expr, span Span) {
	switch n := e.(type) {
	case *Ident:
		n.span = span
	case *App:
		n.span = span
	case *Binding:
		n.span = span
	case *Lambda:
		n.span = span
	case *Pi:
		n.span = span
	case *ErrorExpr:
		n.span = span
	}
}

// Decl is one top-level declaration: name : ty (:= def)?.
type Decl struct {
	Name    string
	Ty      Expr
	Def     Expr // nil when the declaration is an axiom
	Span    Span
	NameEnd Position
}

// File is a parsed sequence of declarations plus the source path they came
// from, for diagnostics across multi-file projects.
type File struct {
	Path  string
	Decls []*Decl
}
