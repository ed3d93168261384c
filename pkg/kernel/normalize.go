package kernel

// Normalize performs call-by-value beta reduction: arguments are
// normalised first, then App(Lambda(_, body), arg) reduces by substituting
// arg into body at depth 1 and renormalising the result. SORRY applied to
// any argument reduces to that argument unchanged. Normalize traverses
// under binders, normalising the bodies of Lambdas and Pis.
//
// Not proven terminating: the language admits non-terminating terms via
// axioms of arbitrary type. User proofs are expected to be strongly
// normalising in practice.
func Normalize(e Term) Term {
	switch t := e.(type) {
	case App:
		fun := Normalize(t.Fun)
		arg := Normalize(t.Arg)
		if lam, ok := fun.(Lambda); ok {
			return Normalize(Subst(lam.Body, arg, 1))
		}
		if id, ok := fun.(Ident); ok && id.Name == SorryName {
			return arg
		}
		return App{Fun: fun, Arg: arg}
	case Lambda:
		return Lambda{Head: Normalize(t.Head), Body: Normalize(t.Body)}
	case Pi:
		return Pi{Head: Normalize(t.Head), Body: Normalize(t.Body)}
	default:
		return e
	}
}
