package xml

import "strings"

// Document is the root container: a DOCTYPE plus a flat list of top-level
// nodes (normally exactly one Element, plus optional Comment/Instruction
// siblings).
type Document struct {
	baseNode
	*DocType
	Version    string
	Encoding   string
	Standalone string

	Nodes []Node
}

type DocType struct {
	Name     string
	PublicID string
	SystemID string
}

func NewDocType(name, public, system string) *DocType {
	return &DocType{Name: name, PublicID: public, SystemID: system}
}

func NewDocument(root Node) *Document {
	doc := EmptyDocument()
	doc.Append(root)
	return doc
}

func EmptyDocument() *Document {
	return &Document{
		Version:  SupportedVersion,
		Encoding: SupportedEncoding,
	}
}

func (d *Document) Type() NodeType        { return TypeDocument }
func (d *Document) LocalName() string     { return "" }
func (d *Document) QualifiedName() string { return "" }
func (d *Document) Identity() string      { return "document" }
func (d *Document) path() []int           { return nil }
func (d *Document) setParent(Node)        {}
func (d *Document) setPosition(int)       {}
func (d *Document) Parent() Node          { return nil }
func (d *Document) Position() int         { return 0 }

func (d *Document) Value() string {
	var sb strings.Builder
	for _, n := range d.Nodes {
		sb.WriteString(n.Value())
	}
	return sb.String()
}

// Root returns the single top-level Element, the document's context node
// for most XPath evaluation, or nil if the document is empty or malformed.
func (d *Document) Root() Node {
	for _, n := range d.Nodes {
		if n.Type() == TypeElement {
			return n
		}
	}
	return nil
}

func (d *Document) Append(n Node) {
	n.setParent(d)
	n.setPosition(len(d.Nodes) + 1)
	d.Nodes = append(d.Nodes, n)
}

func (d *Document) Clone() Node {
	doc := &Document{DocType: d.DocType, Version: d.Version, Encoding: d.Encoding, Standalone: d.Standalone}
	for _, n := range d.Nodes {
		doc.Append(cloneNode(n))
	}
	return doc
}

// Element is a tagged container node: a QName, its attributes, its
// in-scope namespace declarations, and its ordered children.
type Element struct {
	baseNode
	QName

	Attrs []*Attribute
	NS    []NS
	Nodes []Node
}

func NewElement(name QName) *Element {
	return &Element{QName: name}
}

func (e *Element) Type() NodeType   { return TypeElement }
func (e *Element) Identity() string { return identity("element", e) }

func (e *Element) Value() string {
	var sb strings.Builder
	for _, n := range e.Nodes {
		sb.WriteString(n.Value())
	}
	return sb.String()
}

func (e *Element) Leaf() bool {
	return len(e.Nodes) == 0
}

// Copy returns a shallow copy: same name/attrs/namespaces, detached and
// with no children. Clone builds on it and appends deep copies of the
// children afterwards.
func (e *Element) Copy() *Element {
	el := &Element{QName: e.QName}
	el.Attrs = append(el.Attrs, e.Attrs...)
	el.NS = append(el.NS, e.NS...)
	return el
}

// Clone deep-copies the element and every descendant, detached from any
// parent.
func (e *Element) Clone() Node {
	el := e.Copy()
	for _, n := range e.Nodes {
		el.Append(cloneNode(n))
	}
	return el
}

func (e *Element) Append(n Node) {
	if at, ok := n.(*Attribute); ok {
		e.SetAttribute(at)
		return
	}
	n.setParent(e)
	n.setPosition(len(e.Nodes) + 1)
	e.Nodes = append(e.Nodes, n)
}

func (e *Element) SetAttribute(at *Attribute) {
	for i, a := range e.Attrs {
		if a.QName.Equal(at.QName) {
			e.Attrs[i] = at
			at.setParent(e)
			return
		}
	}
	at.setParent(e)
	at.setPosition(len(e.Attrs) + 1)
	e.Attrs = append(e.Attrs, at)
}

func (e *Element) RemoveAttribute(name QName) {
	out := e.Attrs[:0]
	for _, a := range e.Attrs {
		if !a.QName.Equal(name) {
			out = append(out, a)
		}
	}
	e.Attrs = out
}

func (e *Element) GetAttribute(name QName) (*Attribute, bool) {
	for _, a := range e.Attrs {
		if a.QName.Equal(name) {
			return a, true
		}
	}
	return nil, false
}

// ResolveNamespace looks for a binding for prefix in this element's own
// NS table, then its ancestors'.
func (e *Element) ResolveNamespace(prefix string) (string, bool) {
	for _, ns := range e.NS {
		if ns.Prefix == prefix {
			return ns.Uri, true
		}
	}
	if parent, ok := e.Parent().(*Element); ok {
		return parent.ResolveNamespace(prefix)
	}
	return "", false
}

func cloneNode(n Node) Node {
	if c, ok := n.(Cloner); ok {
		return c.Clone()
	}
	return n
}

// Attribute is a name/value pair attached to an Element.
type Attribute struct {
	baseNode
	QName
	Datum string

	DisableOutputEscaping bool
}

func NewAttribute(name QName, value string) *Attribute {
	return &Attribute{QName: name, Datum: value}
}

func (a *Attribute) Type() NodeType   { return TypeAttribute }
func (a *Attribute) Value() string    { return a.Datum }
func (a *Attribute) Identity() string { return identity("attribute", a) }

func (a *Attribute) Clone() Node {
	return &Attribute{QName: a.QName, Datum: a.Datum, DisableOutputEscaping: a.DisableOutputEscaping}
}

// Text is character data. CDATA is distinguished only by serialization
// (written inside a <![CDATA[ ]]> section) and carries the same shape.
type Text struct {
	baseNode
	Content               string
	CData                 bool
	DisableOutputEscaping bool
}

func NewText(content string) *Text {
	return &Text{Content: content}
}

func NewCDATA(content string) *Text {
	return &Text{Content: content, CData: true}
}

func (t *Text) Type() NodeType {
	if t.CData {
		return TypeCDATA
	}
	return TypeText
}

func (t *Text) LocalName() string     { return "" }
func (t *Text) QualifiedName() string { return "" }
func (t *Text) Value() string         { return t.Content }
func (t *Text) Identity() string      { return identity("text", t) }

func (t *Text) Clone() Node {
	return &Text{Content: t.Content, CData: t.CData, DisableOutputEscaping: t.DisableOutputEscaping}
}

// Comment is a <!-- ... --> node.
type Comment struct {
	baseNode
	Content string
}

func NewComment(content string) *Comment {
	return &Comment{Content: content}
}

func (c *Comment) Type() NodeType        { return TypeComment }
func (c *Comment) LocalName() string     { return "" }
func (c *Comment) QualifiedName() string { return "" }
func (c *Comment) Value() string         { return c.Content }
func (c *Comment) Identity() string      { return identity("comment", c) }

func (c *Comment) Clone() Node {
	return &Comment{Content: c.Content}
}

// Instruction is a <?target data?> processing instruction.
type Instruction struct {
	baseNode
	Target string
	Data   string
}

func NewInstruction(target, data string) *Instruction {
	return &Instruction{Target: target, Data: data}
}

func (i *Instruction) Type() NodeType        { return TypeInstruction }
func (i *Instruction) LocalName() string     { return i.Target }
func (i *Instruction) QualifiedName() string { return i.Target }
func (i *Instruction) Value() string         { return i.Data }
func (i *Instruction) Identity() string      { return identity("pi", i) }

func (i *Instruction) Clone() Node {
	return &Instruction{Target: i.Target, Data: i.Data}
}
