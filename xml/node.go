// Package xml implements the in-memory XML tree consumed by the xslt
// package: a small node variant with parent/child links, qualified names
// and namespace declarations. Parsing and serialization live alongside it
// in this package; the apply engine treats the tree itself as opaque.
package xml

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SupportedVersion  = "1.0"
	SupportedEncoding = "UTF-8"
)

type NodeType uint8

const (
	TypeDocument NodeType = 1 << iota
	TypeElement
	TypeText
	TypeCDATA
	TypeComment
	TypeInstruction
	TypeAttribute
	TypeNamespace
)

func (t NodeType) String() string {
	switch t {
	case TypeDocument:
		return "document"
	case TypeElement:
		return "element"
	case TypeText:
		return "text"
	case TypeCDATA:
		return "cdata"
	case TypeComment:
		return "comment"
	case TypeInstruction:
		return "pi"
	case TypeAttribute:
		return "attribute"
	case TypeNamespace:
		return "namespace"
	default:
		return "<>"
	}
}

// Cloner is implemented by nodes that can produce a deep, detached copy
// of themselves (and, for containers, their descendants).
type Cloner interface {
	Clone() Node
}

// Node is the common interface satisfied by every member of the tree
// variant. Attribute values also satisfy it so that they can flow
// through xpath node-sets uniformly with element/text/etc nodes.
type Node interface {
	Type() NodeType
	LocalName() string
	QualifiedName() string
	Value() string
	Parent() Node
	Position() int
	Identity() string

	setParent(Node)
	setPosition(int)
	path() []int
}

// QName is a namespace-aware element/attribute/PI name: a local Name,
// a Space prefix, and its resolved namespace Uri. The parser fills in
// only Name and Uri; names it builds carry an empty Space, because the
// literal prefix is not kept.
type QName struct {
	Name  string
	Space string
	Uri   string
}

func LocalName(name string) QName {
	return QName{Name: name}
}

func QualifiedName(name, space string) QName {
	return QName{Name: name, Space: space}
}

func ExpandedName(name, space, uri string) QName {
	return QName{Name: name, Space: space, Uri: uri}
}

func ParseName(str string) (QName, error) {
	space, name, ok := strings.Cut(str, ":")
	if !ok {
		return QName{Name: space}, nil
	}
	if space == "" || name == "" {
		return QName{}, fmt.Errorf("%s: invalid qualified name", str)
	}
	return QName{Name: name, Space: space}, nil
}

func (q QName) LocalName() string {
	return q.Name
}

func (q QName) QualifiedName() string {
	if q.Space == "" {
		return q.Name
	}
	return q.Space + ":" + q.Name
}

func (q QName) Equal(other QName) bool {
	if q.Uri != "" || other.Uri != "" {
		return q.Uri == other.Uri && q.Name == other.Name
	}
	return q.Space == other.Space && q.Name == other.Name
}

func (q QName) Zero() bool {
	return q.Name == "" && q.Space == ""
}

// NS is one namespace binding in scope at some point in the tree.
type NS struct {
	Prefix string
	Uri    string
}

func (n NS) Default() bool {
	return n.Prefix == ""
}

type baseNode struct {
	parent   Node
	position int
}

func (n *baseNode) setParent(node Node) { n.parent = node }
func (n *baseNode) setPosition(p int)   { n.position = p }
func (n *baseNode) Parent() Node        { return n.parent }
func (n *baseNode) Position() int       { return n.position }

func (n *baseNode) path() []int {
	if n.parent == nil {
		return []int{n.position}
	}
	return append(parentPath(n.parent), n.position)
}

func parentPath(n Node) []int {
	type pathed interface{ path() []int }
	if p, ok := n.(pathed); ok {
		return p.path()
	}
	return nil
}

func identity(prefix string, n Node) string {
	var parts []string
	for _, p := range n.(interface{ path() []int }).path() {
		parts = append(parts, strconv.Itoa(p))
	}
	return fmt.Sprintf("%s(%s)[%s]", prefix, n.QualifiedName(), strings.Join(parts, "/"))
}

func cloneSlice(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if c, ok := n.(Cloner); ok {
			out = append(out, c.Clone())
			continue
		}
		out = append(out, n)
	}
	return out
}

func Before(left, right Node) bool {
	p1, p2 := left.(interface{ path() []int }).path(), right.(interface{ path() []int }).path()
	for i := 0; i < len(p1) && i < len(p2); i++ {
		if p1[i] != p2[i] {
			return p1[i] < p2[i]
		}
	}
	return len(p1) < len(p2)
}
