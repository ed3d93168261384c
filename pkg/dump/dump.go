// Package dump serialises the final global environment to JSON for
// debugging. The schema is advisory, not a stable wire format.
package dump

import (
	"encoding/json"

	"github.com/toodols/provecheck/pkg/env"
	"github.com/toodols/provecheck/pkg/kernel"
)

// Node is a tagged, JSON-friendly rendering of a kernel.Term: Tag names the
// constructor, and only the fields relevant to that constructor are set.
type Node struct {
	Tag   string `json:"tag"`
	Name  string `json:"name,omitempty"`
	Index int    `json:"index,omitempty"`
	Fun   *Node  `json:"fun,omitempty"`
	Arg   *Node  `json:"arg,omitempty"`
	Head  *Node  `json:"head,omitempty"`
	Body  *Node  `json:"body,omitempty"`
}

// Entry is one declared name's dumped form.
type Entry struct {
	Ty  *Node `json:"ty"`
	Def *Node `json:"def,omitempty"`
}

// ToNode renders a kernel.Term as a tagged Node tree.
func ToNode(t kernel.Term) *Node {
	switch n := t.(type) {
	case kernel.Ident:
		return &Node{Tag: "Ident", Name: n.Name}
	case kernel.Ref:
		return &Node{Tag: "Ref", Index: n.Index}
	case kernel.App:
		return &Node{Tag: "App", Fun: ToNode(n.Fun), Arg: ToNode(n.Arg)}
	case kernel.Lambda:
		return &Node{Tag: "Lambda", Head: ToNode(n.Head), Body: ToNode(n.Body)}
	case kernel.Pi:
		return &Node{Tag: "Pi", Head: ToNode(n.Head), Body: ToNode(n.Body)}
	case kernel.ErrorSentinel:
		return &Node{Tag: "ErrorSentinel"}
	case kernel.SorrySentinel:
		return &Node{Tag: "SorrySentinel"}
	default:
		return &Node{Tag: "Unknown"}
	}
}

// Environment renders every declared name to its {ty, def} entry. The
// result is a map, so declaration order is not kept (encoding/json writes
// the names in sorted order).
func Environment(g *env.Env) map[string]Entry {
	out := make(map[string]Entry)
	for _, name := range g.Names() {
		decl, _ := g.Get(name)
		entry := Entry{Ty: ToNode(decl.Ty)}
		if decl.Def != nil {
			entry.Def = ToNode(decl.Def)
		}
		out[name] = entry
	}
	return out
}

// MarshalIndent renders the environment as indented JSON, matching the
// reference tool's dump.json.
func MarshalIndent(g *env.Env) ([]byte, error) {
	return json.MarshalIndent(Environment(g), "", "  ")
}
