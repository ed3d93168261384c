// Package printer renders kernel.Term values back to source-like text, for
// diagnostics.
package printer

import (
	"fmt"
	"strings"

	"github.com/toodols/provecheck/pkg/kernel"
)

// Print renders a term fully parenthesised: Lambda and Pi show only the
// binder's head type, since binders carry no name past resolution.
func Print(e kernel.Term) string {
	var b strings.Builder
	write(&b, e)
	return b.String()
}

func write(b *strings.Builder, e kernel.Term) {
	switch t := e.(type) {
	case kernel.Ident:
		b.WriteString(t.Name)
	case kernel.Ref:
		fmt.Fprintf(b, "\\%d", t.Index)
	case kernel.App:
		b.WriteByte('(')
		write(b, t.Fun)
		b.WriteByte(' ')
		write(b, t.Arg)
		b.WriteByte(')')
	case kernel.Lambda:
		b.WriteByte('(')
		write(b, t.Head)
		b.WriteString(" => ")
		write(b, t.Body)
		b.WriteByte(')')
	case kernel.Pi:
		b.WriteByte('(')
		write(b, t.Head)
		b.WriteString(" -> ")
		write(b, t.Body)
		b.WriteByte(')')
	case kernel.ErrorSentinel:
		b.WriteString("<Type's type>")
	case kernel.SorrySentinel:
		b.WriteString("<SORRY's type>")
	default:
		fmt.Fprintf(b, "<unprintable %T>", e)
	}
}
