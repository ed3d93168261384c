package kernel

// Shift adds k to the index of every Ref in e. It traverses App, Pi and
// Lambda transparently without adjusting for depth: shifts applied during
// substitution target free references only, and bound references are left
// alone by the substitution algorithm that calls Shift, not by Shift
// itself.
func Shift(e Term, k int) Term {
	switch t := e.(type) {
	case Ref:
		return Ref{Index: t.Index + k}
	case App:
		return App{Fun: Shift(t.Fun, k), Arg: Shift(t.Arg, k)}
	case Lambda:
		return Lambda{Head: Shift(t.Head, k), Body: Shift(t.Body, k)}
	case Pi:
		return Pi{Head: Shift(t.Head, k), Body: Shift(t.Body, k)}
	default:
		return e
	}
}

// Subst replaces the binder at depth inside tail with value, contracting
// the tail's index space. depth begins at 1 (the innermost binder).
//
// The invariant driving this: a free Ref(i) inside value must still name
// the same binder once it is substituted in under tail's own binders. Each
// binder tail crosses on the way to depth adds one level that value's free
// variables now sit under, so the substituted copy of value is shifted up
// by (depth - 1) at the point it replaces Ref(depth).
func Subst(tail Term, value Term, depth int) Term {
	switch t := tail.(type) {
	case Ref:
		switch {
		case t.Index == depth:
			return Shift(value, depth-1)
		case t.Index > depth:
			return Ref{Index: t.Index - 1}
		default:
			return t
		}
	case App:
		return App{Fun: Subst(t.Fun, value, depth), Arg: Subst(t.Arg, value, depth)}
	case Pi:
		return Pi{Head: Subst(t.Head, value, depth), Body: Subst(t.Body, value, depth+1)}
	case Lambda:
		return Lambda{Head: Subst(t.Head, value, depth), Body: Subst(t.Body, value, depth+1)}
	default:
		return tail
	}
}
