package xslt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brejoc/xslt1/xml"
)

// ImportResolver fetches the document an xsl:import/xsl:include href
// refers to. The apply engine has no filesystem opinion of its own;
// cmd/xslt1 supplies one backed by os.Open relative to the directory of
// the stylesheet named on its command line (nested imports included).
type ImportResolver func(href string) (*xml.Document, error)

// Load compiles a parsed xsl:stylesheet (or xsl:transform, its
// synonym) document into a Stylesheet, resolving any xsl:import/
// xsl:include children through resolve. A nil resolve is fine for a
// self-contained stylesheet; an import/include href then fails with
// ErrUnresolvedPrefix's sibling, a plain "no resolver configured"
// error.
func Load(doc *xml.Document, resolve ImportResolver) (*Stylesheet, error) {
	root, ok := doc.Root().(*xml.Element)
	if !ok {
		return nil, fmt.Errorf("load: empty document")
	}
	if root.Uri != xsltNamespaceUri || (root.LocalName() != "stylesheet" && root.LocalName() != "transform") {
		return nil, fmt.Errorf("load: root element is not xsl:stylesheet")
	}
	stripStylesheetWhitespace(root)

	style := NewStylesheet()
	if err := loadInto(style, root, resolve); err != nil {
		return nil, err
	}
	return style, nil
}

// stripStylesheetWhitespace drops whitespace-only text nodes from the
// stylesheet tree itself, the XSLT 1.0 default for the *source* of a
// stylesheet (distinct from the source document's own strip-space/
// preserve-space table): template authors rely on this so that
// formatting the stylesheet for readability doesn't leak stray text
// nodes into every result. xsl:text is the one element exempt, since
// its whole point is emitting exact whitespace.
func stripStylesheetWhitespace(el *xml.Element) {
	if child, ok := isXSLTInstruction(el); ok && child.LocalName() == "text" {
		return
	}
	kept := el.Nodes[:0]
	for _, n := range el.Nodes {
		if t, ok := n.(*xml.Text); ok && !t.CData && isBlank(t.Content) {
			continue
		}
		kept = append(kept, n)
	}
	el.Nodes = kept
	for _, n := range el.Nodes {
		if child, ok := n.(*xml.Element); ok {
			stripStylesheetWhitespace(child)
		}
	}
}

func loadInto(style *Stylesheet, root *xml.Element, resolve ImportResolver) error {
	for _, n := range root.Nodes {
		el, ok := isXSLTInstruction(n)
		if !ok {
			continue
		}
		switch el.LocalName() {
		case "import", "include":
			if err := loadImport(style, el, resolve); err != nil {
				return err
			}
		case "template":
			tpl, err := loadTemplate(el)
			if err != nil {
				return err
			}
			style.AddTemplate(tpl)
		case "output":
			loadOutput(style.Output, el)
		case "strip-space":
			style.StripSpace = append(style.StripSpace, splitNames(el)...)
		case "preserve-space":
			style.PreserveSpace = append(style.PreserveSpace, splitNames(el)...)
		case "attribute-set":
			as, err := loadAttributeSet(el)
			if err != nil {
				return err
			}
			style.AttrSets[as.Name] = as
		}
	}
	return nil
}

func loadImport(style *Stylesheet, el *xml.Element, resolve ImportResolver) error {
	href, err := requireAttr(el, "href")
	if err != nil {
		return err
	}
	if resolve == nil {
		return fmt.Errorf("%s: %w", href, ErrUnresolvedImport)
	}
	doc, err := resolve(href)
	if err != nil {
		return fmt.Errorf("%s: %w", href, err)
	}
	root, ok := doc.Root().(*xml.Element)
	if !ok {
		return fmt.Errorf("%s: empty imported document", href)
	}
	return loadInto(style, root, resolve)
}

func loadTemplate(el *xml.Element) (*Template, error) {
	name, _ := attr(el, "name")
	match, _ := attr(el, "match")
	mode, _ := attr(el, "mode")
	mode = normalizeMode(mode)

	var priority float64
	explicit := false
	if raw, ok := attr(el, "priority"); ok {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("priority %q: %w", raw, err)
		}
		priority = p
		explicit = true
	}
	tpl, err := NewTemplate(name, match, mode, priority, explicit)
	if err != nil {
		return nil, err
	}
	tpl.Nodes = stripParams(el.Nodes)
	return tpl, nil
}

// stripParams leaves xsl:param children in place: executeParam already
// knows how to suppress its default when a with-param supplied one, so
// a template's body is instantiated whole, params included, same as
// every other instruction in its sequence.
func stripParams(nodes []xml.Node) []xml.Node {
	return nodes
}

func loadOutput(out *Output, el *xml.Element) {
	if v, ok := attr(el, "method"); ok {
		out.Method = v
	}
	if v, ok := attr(el, "encoding"); ok {
		out.Encoding = v
	}
	if v, ok := attr(el, "indent"); ok {
		out.Indent = v == "yes"
	}
	if v, ok := attr(el, "omit-xml-declaration"); ok {
		out.OmitXMLDecl = v == "yes"
	}
	if v, ok := attr(el, "doctype-public"); ok {
		out.DoctypePublic = v
	}
	if v, ok := attr(el, "doctype-system"); ok {
		out.DoctypeSystem = v
	}
}

func splitNames(el *xml.Element) []string {
	v, ok := attr(el, "elements")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func loadAttributeSet(el *xml.Element) (*AttributeSet, error) {
	name, err := requireAttr(el, "name")
	if err != nil {
		return nil, err
	}
	as := &AttributeSet{Name: name}
	for _, n := range el.Nodes {
		child, ok := isXSLTInstruction(n)
		if !ok || child.LocalName() != "attribute" {
			continue
		}
		as.Attrs = append(as.Attrs, child)
	}
	return as, nil
}
