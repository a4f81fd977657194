package xslt

import (
	"fmt"

	"github.com/brejoc/xslt1/alpha"
	"github.com/brejoc/xslt1/environ"
	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xpath"
)

const (
	xsltNamespaceUri = "http://www.w3.org/1999/XSL/Transform"

	defaultMode = ""
)

// Output carries the compiled xsl:output configuration.
type Output struct {
	Method          string
	Encoding        string
	Indent          bool
	OmitXMLDecl     bool
	DoctypePublic   string
	DoctypeSystem   string
}

func defaultOutput() *Output {
	return &Output{Method: "xml", Encoding: xml.SupportedEncoding, Indent: false}
}

// AttributeSet is a named, reusable bag of xsl:attribute children
// merged into a literal result element ahead of its own attributes.
type AttributeSet struct {
	Name  string
	Attrs []xml.Node // xsl:attribute children, executed in order
}

// Template is one compiled xsl:template: an optional name (for
// call-template), an optional match pattern + priority (for template
// rule dispatch), the mode it applies in, and its body. Load leaves
// Params empty: xsl:param defaults stay in the body as instructions.
type Template struct {
	Name     string
	Match    string
	Mode     string
	Priority float64

	matcher Matcher
	Nodes   []xml.Node
	Params  map[string]xpath.Expr
}

func (t *Template) hasMatch() bool {
	return t.matcher != nil
}

// NewTemplate compiles match (empty for a purely named template) into
// a Matcher and, unless priority is explicitly set (a "priority"
// attribute, of any value, was present on xsl:template), its default
// conflict-resolution priority.
func NewTemplate(name, match, mode string, priority float64, explicitPriority bool) (*Template, error) {
	t := &Template{Name: name, Match: match, Mode: mode, Priority: priority}
	if match == "" {
		return t, nil
	}
	m, p, err := compilePattern(match)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", match, err)
	}
	t.matcher = m
	if !explicitPriority {
		t.Priority = p
	}
	return t, nil
}

// Mode groups the templates declared for one mode name (the empty
// string is the default mode) and resolves which template matches a
// given node, by priority then document order of declaration, per the
// XSLT 1.0 conflict-resolution rules.
type Mode struct {
	Name      string
	Templates []*Template
}

func (m *Mode) add(t *Template) {
	m.Templates = append(m.Templates, t)
}

// Match returns the highest-priority template whose pattern matches
// node, preferring the last declared template among equal priorities.
func (m *Mode) Match(node xml.Node) (*Template, bool) {
	var (
		best     *Template
		priority = -1e9
	)
	for _, t := range m.Templates {
		if !t.hasMatch() || !t.matcher.Match(node) {
			continue
		}
		p := t.Priority
		if best == nil || p >= priority {
			best = t
			priority = p
		}
	}
	return best, best != nil
}

// Stylesheet is the minimal compiled representation the apply engine
// dispatches against: named templates, per-mode match templates,
// attribute sets and output configuration. Building one from a parsed
// xsl:stylesheet document is the concern of Load; the apply engine
// itself only ever reads from it.
type Stylesheet struct {
	Modes       map[string]*Mode
	Named       map[string]*Template
	AttrSets    map[string]*AttributeSet
	Output      *Output
	StripSpace  []string // element names (or "*") whose whitespace-only text children are stripped
	PreserveSpace []string

	WrapRoot bool
}

func NewStylesheet() *Stylesheet {
	return &Stylesheet{
		Modes:    map[string]*Mode{defaultMode: {Name: defaultMode}},
		Named:    map[string]*Template{},
		AttrSets: map[string]*AttributeSet{},
		Output:   defaultOutput(),
	}
}

func (s *Stylesheet) mode(name string) *Mode {
	if name == "#default" {
		name = defaultMode
	}
	m, ok := s.Modes[name]
	if !ok {
		m = &Mode{Name: name}
		s.Modes[name] = m
	}
	return m
}

// AddTemplate registers a compiled template under its mode (if it has
// a match pattern) and/or its name (if it has one); a template may
// have both.
func (s *Stylesheet) AddTemplate(t *Template) {
	if t.Match != "" {
		s.mode(t.Mode).add(t)
	}
	if t.Name != "" {
		s.Named[t.Name] = t
	}
}

func (s *Stylesheet) MatchTemplate(mode string, node xml.Node) (*Template, bool) {
	m, ok := s.Modes[mode]
	if !ok {
		return nil, false
	}
	return m.Match(node)
}

func (s *Stylesheet) NamedTemplate(name string) (*Template, error) {
	t, ok := s.Named[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNamedTemplate)
	}
	return t, nil
}

// AttributeSet looks up a declared xsl:attribute-set by name.
func (s *Stylesheet) AttributeSet(name string) (*AttributeSet, bool) {
	as, ok := s.AttrSets[name]
	return as, ok
}

// shouldStrip resolves el against the merged strip-space/preserve-space
// table. An exact qualified-name match is more specific than a "*"
// wildcard and wins regardless of which of the two declarations it came
// from; between two matches of equal specificity, strip-space wins.
func (s *Stylesheet) shouldStrip(el *xml.Element) bool {
	name := el.QualifiedName()
	for _, p := range s.StripSpace {
		if p == name {
			return true
		}
	}
	for _, p := range s.PreserveSpace {
		if p == name {
			return false
		}
	}
	for _, p := range s.StripSpace {
		if p == "*" {
			return true
		}
	}
	for _, p := range s.PreserveSpace {
		if p == "*" {
			return false
		}
	}
	return false
}

// createRootContext builds the initial Context for Apply: source
// document as context node, an empty result tree whose root insertion
// point is the document itself.
func (s *Stylesheet) createRootContext(source *xml.Document, tracer Tracer) *Context {
	result := xml.EmptyDocument()
	xctx := xpath.NewContext(source)
	ctx := &Context{
		Stylesheet:        s,
		Node:              source,
		Insert:            result,
		Result:            result,
		NodeList:          []xml.Node{source},
		ContextSize:       1,
		ProximityPosition: 1,
		Mode:              defaultMode,
		Xpath:             xctx,
		vars:              environ.Empty[xpath.Sequence](),
		ExtraDocs:         map[string]*xml.Document{},
		NSNames:           alpha.NewLowerString(2),
		Tracer:            tracer,
	}
	return ctx
}
