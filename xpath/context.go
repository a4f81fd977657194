package xpath

import (
	"fmt"

	"github.com/brejoc/xslt1/environ"
	"github.com/brejoc/xslt1/xml"
)

// Context is the XPath dynamic context: the node being evaluated
// against, its proximity position and context size within whatever
// node-list produced it, and the variable bindings currently in scope.
// xslt threads one of these alongside its own Context, keeping the two
// in sync on every save/restore boundary.
type Context struct {
	Node xml.Node
	Pos  int
	Size int

	vars environ.Environ[Sequence]
}

func NewContext(node xml.Node) *Context {
	return &Context{Node: node, Pos: 1, Size: 1, vars: environ.Empty[Sequence]()}
}

// Sub returns a context for a different node/position/size, sharing
// this context's variable frame (not a new one - XPath evaluation
// inside a single expression doesn't push frames; only xslt's
// variable/with-param handling does, via Nest).
func (c *Context) Sub(node xml.Node, pos, size int) *Context {
	return &Context{Node: node, Pos: pos, Size: size, vars: c.vars}
}

// Nest pushes a fresh, empty variable frame on top of this context's,
// for xsl:variable / xsl:with-param scoping.
func (c *Context) Nest() *Context {
	return &Context{Node: c.Node, Pos: c.Pos, Size: c.Size, vars: environ.Enclosed(c.vars)}
}

func (c *Context) Define(name string, value Sequence) {
	c.vars.Define(name, value)
}

func (c *Context) Resolve(name string) (Sequence, error) {
	v, err := c.vars.Resolve(name)
	if err != nil {
		return Sequence{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// Root walks up to the owning Document and returns a context positioned
// at it.
func (c *Context) Root() *Context {
	n := c.Node
	for n.Parent() != nil {
		n = n.Parent()
	}
	return c.Sub(n, 1, 1)
}

func childAxis(n xml.Node) []xml.Node {
	switch v := n.(type) {
	case *xml.Document:
		return v.Nodes
	case *xml.Element:
		return v.Nodes
	default:
		return nil
	}
}

func attributeAxis(n xml.Node) []xml.Node {
	el, ok := n.(*xml.Element)
	if !ok {
		return nil
	}
	out := make([]xml.Node, len(el.Attrs))
	for i, a := range el.Attrs {
		out[i] = a
	}
	return out
}

func descendantAxis(n xml.Node, includeSelf bool) []xml.Node {
	var out []xml.Node
	if includeSelf {
		out = append(out, n)
	}
	for _, c := range childAxis(n) {
		out = append(out, descendantAxis(c, true)...)
	}
	return out
}

func parentAxis(n xml.Node) []xml.Node {
	if p := n.Parent(); p != nil {
		return []xml.Node{p}
	}
	return nil
}

func ancestorAxis(n xml.Node, includeSelf bool) []xml.Node {
	var out []xml.Node
	if includeSelf {
		out = append(out, n)
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

func followingSiblingAxis(n xml.Node) []xml.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	siblings := childAxis(parent)
	idx := indexOf(siblings, n)
	if idx < 0 {
		return nil
	}
	return siblings[idx+1:]
}

func precedingSiblingAxis(n xml.Node) []xml.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	siblings := childAxis(parent)
	idx := indexOf(siblings, n)
	if idx <= 0 {
		return nil
	}
	out := make([]xml.Node, idx)
	copy(out, siblings[:idx])
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func indexOf(nodes []xml.Node, n xml.Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return -1
}
