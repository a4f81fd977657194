package xslt

import (
	"github.com/brejoc/xslt1/alpha"
	"github.com/brejoc/xslt1/environ"
	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xpath"
)

// Inserter is the result-tree insertion point: either the result
// Document itself (before the root element has been created) or an
// Element once one has. Both xml.Document and xml.Element satisfy it
// with their existing Append method.
type Inserter interface {
	xml.Node
	Append(xml.Node)
}

// Context is the single threaded evaluation context passed down through
// every instruction: which stylesheet node is executing, which source
// node it is executing against, where result output is currently being
// inserted, the node-list/position/size an iterating instruction is
// walking, the XPath dynamic context, the variable-binding stack, the
// chosen output method, and an ExtraDocs map for auxiliary documents
// (no instruction or XPath function populates it).
//
// Instructions that iterate (for-each, apply-templates) or that
// introduce a new variable scope (variable, with-param, call-template)
// derive a new Context value for the nested walk and never mutate the
// one they were given - the zero-copy struct value doubles as the
// save/restore discipline.
type Context struct {
	*Stylesheet

	Instr  xml.Node // the xsl:* node currently executing
	Node   xml.Node // the source node it is executing against
	Insert Inserter
	Result *xml.Document

	NodeList          []xml.Node
	ContextSize       int
	ProximityPosition int

	Mode  string
	Depth int

	Xpath *xpath.Context
	vars  environ.Environ[xpath.Sequence]

	ExtraDocs map[string]*xml.Document

	// NSNames mints fresh namespace prefixes for the copy machinery's
	// search-or-declare policy; shared across every Context value
	// derived from one root so prefixes never collide within one
	// transform.
	NSNames alpha.Namer

	Tracer Tracer
}

// WithInstr returns a copy positioned at a different stylesheet node,
// used when ApplyOneTemplate dispatches an instruction.
func (c *Context) WithInstr(instr xml.Node) *Context {
	cp := *c
	cp.Instr = instr
	return &cp
}

// WithNode returns a copy positioned at a different source node and
// singleton node-list, used for recursive per-node dispatch.
func (c *Context) WithNode(node xml.Node) *Context {
	cp := *c
	cp.Node = node
	cp.NodeList = []xml.Node{node}
	cp.ContextSize = 1
	cp.ProximityPosition = 1
	cp.Xpath = c.Xpath.Sub(node, 1, 1)
	return &cp
}

// WithNodeList returns a copy iterating pos/size over a node-list, the
// save/restore unit for apply-templates/for-each.
func (c *Context) WithNodeList(nodes []xml.Node, pos int) *Context {
	cp := *c
	cp.NodeList = nodes
	cp.ContextSize = len(nodes)
	cp.ProximityPosition = pos
	if pos >= 1 && pos <= len(nodes) {
		cp.Node = nodes[pos-1]
	}
	cp.Xpath = c.Xpath.Sub(cp.Node, pos, len(nodes))
	return &cp
}

// WithMode returns a copy with a different current mode, restored by
// the caller simply discarding the copy once its call returns.
func (c *Context) WithMode(mode string) *Context {
	cp := *c
	cp.Mode = mode
	return &cp
}

// WithInsert returns a copy whose insertion point is ins, used while
// descending into a literal result element's children or handing off
// to an instruction that temporarily narrows where output lands.
func (c *Context) WithInsert(ins Inserter) *Context {
	cp := *c
	cp.Insert = ins
	return &cp
}

// Nest pushes a fresh variable frame, for xsl:variable/with-param
// scoping, and nests the XPath variable frame alongside it so
// $references resolve consistently on both sides.
func (c *Context) Nest() *Context {
	cp := *c
	cp.vars = environ.Enclosed(c.vars)
	cp.Xpath = c.Xpath.Nest()
	cp.Depth = c.Depth + 1
	return &cp
}

func (c *Context) Define(name string, value xpath.Sequence) {
	c.vars.Define(name, value)
	c.Xpath.Define(name, value)
}

func (c *Context) Resolve(name string) (xpath.Sequence, error) {
	return c.vars.Resolve(name)
}

// Enter/Leave/ReportError, and the Query event raised by Eval/Compile,
// delegate to the active Tracer, defaulting to a no-op if none was
// configured.
func (c *Context) tracer() Tracer {
	if c.Tracer == nil {
		return NoopTracer()
	}
	return c.Tracer
}

func (c *Context) Enter() { c.tracer().Enter(c) }
func (c *Context) Leave() { c.tracer().Leave(c) }

func (c *Context) ReportError(err error) {
	c.tracer().Error(c, err)
}

func (c *Context) Eval(expr string) (xpath.Sequence, error) {
	c.tracer().Query(c, expr)
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return xpath.Sequence{}, err
	}
	return compiled.Eval(c.Xpath)
}

func (c *Context) Compile(expr string) (xpath.Expr, error) {
	c.tracer().Query(c, expr)
	return xpath.Compile(expr)
}
