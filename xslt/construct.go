package xslt

import (
	"fmt"
	"strings"

	"github.com/brejoc/xslt1/xml"
)

// executeAttribute implements xsl:attribute: name is an attribute-value
// template, an optional namespace AVT asks for a specific URI (bound
// through the search-or-declare policy, see attributeQName), the
// content is instantiated into a detached fragment and coerced to a
// string, and attaching it once ctx.Insert already has any children is
// an instruction-local ordering error.
func executeAttribute(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	rawName, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	name, err := evalAVT(ctx, rawName)
	if err != nil {
		return err
	}
	if name == "xmlns" || strings.HasPrefix(name, "xmlns:") {
		return fmt.Errorf("%s: %w", name, ErrForbiddenName)
	}

	target, ok := ctx.Insert.(*xml.Element)
	if !ok {
		return fmt.Errorf("%w", ErrAttributeOrder)
	}
	if len(target.Nodes) > 0 {
		return fmt.Errorf("%w", ErrAttributeOrder)
	}

	qn, err := attributeQName(ctx, target, name, el)
	if err != nil {
		return err
	}

	val, err := instantiateToString(ctx, el.Nodes)
	if err != nil {
		return err
	}
	target.SetAttribute(xml.NewAttribute(qn, val))
	return nil
}

// attributeQName resolves the name produced by xsl:attribute/xsl:element
// against an optional namespace AVT: if given, the URI is searched for
// among in-scope declarations and reused, or else declared fresh;
// without one, an unprefixed name is left without a namespace.
func attributeQName(ctx *Context, target *xml.Element, name string, el *xml.Element) (xml.QName, error) {
	qn, err := xml.ParseName(name)
	if err != nil {
		return xml.QName{}, err
	}
	rawNS, ok := attr(el, "namespace")
	if !ok {
		return qn, nil
	}
	uri, err := evalAVT(ctx, rawNS)
	if err != nil {
		return xml.QName{}, err
	}
	if uri == "" {
		return xml.QName{Name: qn.Name}, nil
	}
	prefix, declare := resolveNamespaceForCopy(ctx, target, uri)
	if declare {
		prefix, _ = ctx.NSNames.Next()
		target.NS = append(target.NS, xml.NS{Prefix: prefix, Uri: uri})
	}
	return xml.QName{Name: qn.Name, Space: prefix, Uri: uri}, nil
}

// instantiateToString runs body into a detached fragment and returns
// its concatenated string value, the mechanism xsl:attribute, xsl:comment
// and xsl:processing-instruction share for computing their textual
// content from a template body instead of a select expression.
func instantiateToString(ctx *Context, body []xml.Node) (string, error) {
	frag := xml.NewElement(xml.LocalName("#fragment"))
	if err := ApplyOneTemplate(ctx.WithInsert(frag), body); err != nil {
		return "", err
	}
	return frag.Value(), nil
}

// executeComment implements xsl:comment: the instantiated content may
// not contain "--" or end in "-", checked here as an instruction-local
// error rather than at the XML layer.
func executeComment(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	content, err := instantiateToString(ctx, el.Nodes)
	if err != nil {
		return err
	}
	if strings.Contains(content, "--") || strings.HasSuffix(content, "-") {
		return fmt.Errorf("%s: %w", content, ErrMalformedComment)
	}
	ctx.Insert.Append(xml.NewComment(content))
	return nil
}

// executePI implements xsl:processing-instruction: name is an
// attribute-value template, content may not contain "?>".
func executePI(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	rawName, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	name, err := evalAVT(ctx, rawName)
	if err != nil {
		return err
	}
	if strings.EqualFold(name, "xml") {
		return fmt.Errorf("%s: %w", name, ErrForbiddenName)
	}
	content, err := instantiateToString(ctx, el.Nodes)
	if err != nil {
		return err
	}
	if strings.Contains(content, "?>") {
		return fmt.Errorf("%s: %w", content, ErrMalformedPI)
	}
	ctx.Insert.Append(xml.NewInstruction(name, content))
	return nil
}

// executeElement implements xsl:element: name and namespace are
// attribute-value templates; the created element's own namespace
// search-or-declare policy mirrors a literal result element's.
func executeElement(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	rawName, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	name, err := evalAVT(ctx, rawName)
	if err != nil {
		return err
	}
	qn, err := xml.ParseName(name)
	if err != nil {
		return err
	}

	created := &xml.Element{}
	if rawNS, ok := attr(el, "namespace"); ok {
		uri, err := evalAVT(ctx, rawNS)
		if err != nil {
			return err
		}
		if uri == "" {
			created.QName = xml.QName{Name: qn.Name}
		} else {
			prefix, declare := resolveNamespaceForCopy(ctx, created, uri)
			if declare {
				prefix, _ = ctx.NSNames.Next()
				created.NS = append(created.NS, xml.NS{Prefix: prefix, Uri: uri})
			}
			created.QName = xml.QName{Name: qn.Name, Space: prefix, Uri: uri}
		}
	} else if qn.Space == "" {
		created.QName = xml.QName{Name: qn.Name}
	} else {
		uri, ok := resolveStylesheetPrefix(el, qn.Space)
		if !ok {
			return fmt.Errorf("%s: %w", qn.Space, ErrUnresolvedPrefix)
		}
		prefix, declare := resolveNamespaceForCopy(ctx, created, uri)
		if declare {
			prefix, _ = ctx.NSNames.Next()
			created.NS = append(created.NS, xml.NS{Prefix: prefix, Uri: uri})
		}
		created.QName = xml.QName{Name: qn.Name, Space: prefix, Uri: uri}
	}

	if asName, ok := attr(el, "use-attribute-sets"); ok {
		if err := applyAttributeSets(ctx, created, asName); err != nil {
			return err
		}
	}
	ctx.Insert.Append(created)
	return ApplyOneTemplate(ctx.WithInsert(created), el.Nodes)
}

// resolveStylesheetPrefix resolves a prefix written literally on
// xsl:element's name attribute against the stylesheet source element's
// own in-scope namespaces, since an unprefixed AVT result cannot carry
// one through evalAVT.
func resolveStylesheetPrefix(el *xml.Element, prefix string) (string, bool) {
	return el.ResolveNamespace(prefix)
}

// executeMessage implements xsl:message: the instantiated content is
// routed through the active Tracer; terminate="yes" aborts the
// transform.
func executeMessage(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	content, err := instantiateToString(ctx, el.Nodes)
	if err != nil {
		return err
	}
	ctx.tracer().Message(ctx, content)
	if term, ok := attr(el, "terminate"); ok {
		switch term {
		case "yes":
			return ErrTerminate
		case "no":
		default:
			return fmt.Errorf("%s: %w", term, ErrUnknownMessage)
		}
	}
	return nil
}

// executeTextInstruction implements xsl:text: its content is emitted
// as a single Text node exactly as written, immune to the stylesheet's
// own whitespace stripping (stripStylesheetWhitespace exempts xsl:text
// for this reason).
func executeTextInstruction(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	t := xml.NewText(el.Value())
	if doe, ok := attr(el, "disable-output-escaping"); ok && doe == "yes" {
		t.DisableOutputEscaping = true
	}
	ctx.Insert.Append(t)
	return nil
}
