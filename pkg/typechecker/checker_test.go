package typechecker

import (
	"testing"

	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
)

func TestTypeOfIdentLooksUpGlobal(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})

	got, err := TypeOf(kernel.Ident{Name: "Nat"}, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := kernel.Ident{Name: kernel.TypeName}
	if !kernel.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestTypeOfIdentFailsWhenUndefined(t *testing.T) {
	g := env.New()
	if _, err := TypeOf(kernel.Ident{Name: "Nat"}, nil, g); err == nil {
		t.Fatal("expected an error for an undefined global")
	}
}

func TestTypeOfLambdaSynthesisesPi(t *testing.T) {
	// (T : Type) => (x : T) => x   :   (T : Type) -> (x : T) -> T
	g := env.New()
	e := kernel.Lambda{
		Head: kernel.Ident{Name: kernel.TypeName},
		Body: kernel.Lambda{Head: kernel.Ref{Index: 1}, Body: kernel.Ref{Index: 1}},
	}
	got, err := TypeOf(e, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// x's stored head type (Ref(1), meaning T) crosses the x binder itself
	// on the way back out of x's body, so it shifts to Ref(2) there.
	want := kernel.Pi{
		Head: kernel.Ident{Name: kernel.TypeName},
		Body: kernel.Pi{Head: kernel.Ref{Index: 1}, Body: kernel.Ref{Index: 2}},
	}
	if !kernel.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestTypeOfPiIsAlwaysType(t *testing.T) {
	g := env.New()
	e := kernel.Pi{Head: kernel.Ident{Name: "Nat"}, Body: kernel.Ident{Name: "Nat"}}
	got, err := TypeOf(e, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := kernel.Ident{Name: kernel.TypeName}
	if !kernel.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestTypeOfRefShiftsStoredHeadType(t *testing.T) {
	// (T : Type) => (x : T) => (y : T) => x: x's stored head type (T,
	// written Ref(1) when x was pushed, one binder up) crosses two more
	// binders (x itself, then y) on its way out to where the body lives,
	// so it must shift to Ref(3) there.
	g := env.New()
	e := kernel.Lambda{
		Head: kernel.Ident{Name: kernel.TypeName}, // T
		Body: kernel.Lambda{
			Head: kernel.Ref{Index: 1}, // x : T
			Body: kernel.Lambda{
				Head: kernel.Ref{Index: 2}, // y : T
				Body: kernel.Ref{Index: 2}, // x
			},
		},
	}
	got, err := TypeOf(e, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := kernel.Pi{
		Head: kernel.Ident{Name: kernel.TypeName},
		Body: kernel.Pi{
			Head: kernel.Ref{Index: 1},
			Body: kernel.Pi{
				Head: kernel.Ref{Index: 2},
				Body: kernel.Ref{Index: 3},
			},
		},
	}
	if !kernel.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestApplyTypeSubstitutesArgumentIntoPiBody(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})
	g.Extend(&env.Declaration{Name: "zero", Ty: kernel.Ident{Name: "Nat"}})

	// id : (T : Type) -> (x : T) -> T, applied to Nat then zero. The
	// return type T is written Ref(2) in the inner Pi's body: it crosses
	// the x binder on the way out from where x lives.
	idTy := kernel.Pi{
		Head: kernel.Ident{Name: kernel.TypeName},
		Body: kernel.Pi{Head: kernel.Ref{Index: 1}, Body: kernel.Ref{Index: 2}},
	}
	afterNat, err := ApplyType(idTy, kernel.Ident{Name: "Nat"}, nil, g)
	if err != nil {
		t.Fatalf("unexpected error applying Nat: %v", err)
	}
	wantAfterNat := kernel.Pi{Head: kernel.Ident{Name: "Nat"}, Body: kernel.Ident{Name: "Nat"}}
	if !kernel.Equal(afterNat, wantAfterNat) {
		t.Fatalf("got %#v, want %#v", afterNat, wantAfterNat)
	}

	afterZero, err := ApplyType(afterNat, kernel.Ident{Name: "zero"}, nil, g)
	if err != nil {
		t.Fatalf("unexpected error applying zero: %v", err)
	}
	wantAfterZero := kernel.Ident{Name: "Nat"}
	if !kernel.Equal(afterZero, wantAfterZero) {
		t.Errorf("got %#v, want %#v", afterZero, wantAfterZero)
	}
}

func TestApplyTypeRejectsArgumentOfWrongType(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})
	g.Extend(&env.Declaration{Name: "Bool", Ty: kernel.Ident{Name: kernel.TypeName}})
	g.Extend(&env.Declaration{Name: "true", Ty: kernel.Ident{Name: "Bool"}})

	f := kernel.Pi{Head: kernel.Ident{Name: "Nat"}, Body: kernel.Ident{Name: "Nat"}}
	_, err := ApplyType(f, kernel.Ident{Name: "true"}, nil, g)
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

func TestApplyTypeSorrySentinelAcceptsAnyArgument(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})

	got, err := ApplyType(kernel.SorrySentinel{}, kernel.Ident{Name: "Nat"}, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kernel.Equal(got, kernel.Ident{Name: "Nat"}) {
		t.Errorf("SORRY applied to Nat should return Nat unchanged, got %#v", got)
	}
}

func TestApplyTypeNonFunctionIsAnError(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})
	if _, err := ApplyType(kernel.Ident{Name: "Nat"}, kernel.Ident{Name: "Nat"}, nil, g); err == nil {
		t.Fatal("expected an error applying a non-Pi, non-SORRY value")
	}
}

func TestMemberOfUsesSyntacticEqualityNotNormalisation(t *testing.T) {
	// member_of compares type_of(e) to tau without normalising tau: e
	// synthesises Nat, so tau = Nat is accepted, but tau = (Type => \1) Nat,
	// which only normalises to Nat, is not.
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})
	g.Extend(&env.Declaration{Name: "zero", Ty: kernel.Ident{Name: "Nat"}})

	ok, err := MemberOf(kernel.Ident{Name: "zero"}, kernel.Ident{Name: "Nat"}, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected zero to be a member of Nat")
	}

	redex := kernel.App{
		Fun: kernel.Lambda{Head: kernel.Ident{Name: kernel.TypeName}, Body: kernel.Ref{Index: 1}},
		Arg: kernel.Ident{Name: "Nat"},
	}
	ok, err = MemberOf(kernel.Ident{Name: "zero"}, redex, nil, g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected an unnormalised type to be compared as written and rejected")
	}
}
