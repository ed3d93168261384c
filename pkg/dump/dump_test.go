package dump

import (
	"encoding/json"
	"testing"

	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
)

func TestToNodeTagsEveryConstructor(t *testing.T) {
	cases := []struct {
		term kernel.Term
		tag  string
	}{
		{kernel.Ident{Name: "Nat"}, "Ident"},
		{kernel.Ref{Index: 2}, "Ref"},
		{kernel.App{Fun: kernel.Ident{Name: "f"}, Arg: kernel.Ident{Name: "x"}}, "App"},
		{kernel.Lambda{Head: kernel.Ident{Name: "T"}, Body: kernel.Ref{Index: 1}}, "Lambda"},
		{kernel.Pi{Head: kernel.Ident{Name: "T"}, Body: kernel.Ref{Index: 1}}, "Pi"},
		{kernel.ErrorSentinel{}, "ErrorSentinel"},
		{kernel.SorrySentinel{}, "SorrySentinel"},
	}
	for _, c := range cases {
		if got := ToNode(c.term).Tag; got != c.tag {
			t.Errorf("ToNode(%#v).Tag = %q, want %q", c.term, got, c.tag)
		}
	}
}

func TestEnvironmentIncludesAxiomsAndDefinitions(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})
	g.Extend(&env.Declaration{Name: "zero", Ty: kernel.Ident{Name: "Nat"}, Def: kernel.Ident{Name: "Nat"}})

	out := Environment(g)
	if out["Nat"].Def != nil {
		t.Error("expected Nat (an axiom) to have no dumped def")
	}
	if out["zero"].Def == nil {
		t.Error("expected zero to have a dumped def")
	}
}

func TestMarshalIndentProducesValidJSON(t *testing.T) {
	g := env.New()
	g.Extend(&env.Declaration{Name: "Nat", Ty: kernel.Ident{Name: kernel.TypeName}})

	data, err := MarshalIndent(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]Entry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("produced invalid JSON: %v", err)
	}
	if _, ok := out["Nat"]; !ok {
		t.Error("expected Nat in the decoded dump")
	}
}
