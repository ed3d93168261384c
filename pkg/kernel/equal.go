package kernel

// Equal reports whether a and b are structurally identical: same
// constructor, recursively equal components. Ident names compare as
// strings, Ref indices as integers. No alpha-equivalence pass is needed
// because binders are anonymised; no eta.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Ident:
		y, ok := b.(Ident)
		return ok && x.Name == y.Name
	case Ref:
		y, ok := b.(Ref)
		return ok && x.Index == y.Index
	case App:
		y, ok := b.(App)
		return ok && Equal(x.Fun, y.Fun) && Equal(x.Arg, y.Arg)
	case Lambda:
		y, ok := b.(Lambda)
		return ok && Equal(x.Head, y.Head) && Equal(x.Body, y.Body)
	case Pi:
		y, ok := b.(Pi)
		return ok && Equal(x.Head, y.Head) && Equal(x.Body, y.Body)
	case ErrorSentinel:
		_, ok := b.(ErrorSentinel)
		return ok
	case SorrySentinel:
		_, ok := b.(SorrySentinel)
		return ok
	default:
		return false
	}
}
