package xslt

import (
	"strings"

	"github.com/brejoc/xslt1/xml"
)

// copyLiteralElement copies a literal result element into the result
// tree: its namespace-declaration list is carried verbatim, its own
// namespace is resolved by the search-or-declare policy,
// xsl:use-attribute-sets is merged ahead of its own attributes, and its
// attributes are run through the attribute-value-template processor.
func copyLiteralElement(ctx *Context, src *xml.Element) (*xml.Element, error) {
	copyEl := &xml.Element{}
	copyEl.NS = append(copyEl.NS, src.NS...)
	copyEl.QName = resolveCopyName(ctx, copyEl, src.QName)

	if as, ok := src.GetAttribute(xml.ExpandedName("use-attribute-sets", "", xsltNamespaceUri)); ok {
		if err := applyAttributeSets(ctx, copyEl, as.Datum); err != nil {
			return nil, err
		}
	}
	for _, a := range src.Attrs {
		if a.Uri == xsltNamespaceUri {
			continue
		}
		val, err := evalAVT(ctx, a.Datum)
		if err != nil {
			return nil, err
		}
		aName := resolveAttrName(ctx, copyEl, a.QName)
		copyEl.SetAttribute(xml.NewAttribute(aName, val))
	}
	ctx.Insert.Append(copyEl)
	return copyEl, nil
}

// resolveCopyName resolves a literal element's own namespace per the
// search-or-declare policy: reuse the current insertion point's
// namespace pointer when its URI already matches, else search the
// result tree upward for a declaration of that URI, else declare a
// fresh one (minted via alpha, since the xml package does not retain
// the source's literal prefix spelling past parsing).
func resolveCopyName(ctx *Context, copyEl *xml.Element, src xml.QName) xml.QName {
	if src.Uri == "" {
		return xml.QName{Name: src.Name}
	}
	if insEl, ok := ctx.Insert.(*xml.Element); ok && insEl.Uri == src.Uri {
		return xml.QName{Name: src.Name, Space: insEl.Space, Uri: src.Uri}
	}
	prefix, declare := resolveNamespaceForCopy(ctx, copyEl, src.Uri)
	if declare {
		prefix, _ = ctx.NSNames.Next()
		copyEl.NS = append(copyEl.NS, xml.NS{Prefix: prefix, Uri: src.Uri})
	}
	return xml.QName{Name: src.Name, Space: prefix, Uri: src.Uri}
}

// resolveAttrName mirrors resolveCopyName for an attribute: attributes
// never inherit the ambient default namespace, so an existing
// declaration must carry an explicit (non-empty) prefix to be reused.
func resolveAttrName(ctx *Context, copyEl *xml.Element, src xml.QName) xml.QName {
	if src.Uri == "" {
		return xml.QName{Name: src.Name}
	}
	prefix, declare := resolveNamespaceForCopy(ctx, copyEl, src.Uri)
	if declare || prefix == "" {
		prefix, _ = ctx.NSNames.Next()
		copyEl.NS = append(copyEl.NS, xml.NS{Prefix: prefix, Uri: src.Uri})
	}
	return xml.QName{Name: src.Name, Space: prefix, Uri: src.Uri}
}

// resolveNamespaceForCopy searches the copy's own (just-copied)
// namespace list, then the result tree upward from the insertion
// point, for an existing declaration of uri.
func resolveNamespaceForCopy(ctx *Context, copyEl *xml.Element, uri string) (prefix string, declare bool) {
	for _, ns := range copyEl.NS {
		if ns.Uri == uri {
			return ns.Prefix, false
		}
	}
	if insEl, ok := ctx.Insert.(*xml.Element); ok {
		if p, ok := findPrefixForURI(insEl, uri); ok {
			return p, false
		}
	}
	return "", true
}

func findPrefixForURI(start *xml.Element, uri string) (string, bool) {
	for e := start; e != nil; {
		for _, ns := range e.NS {
			if ns.Uri == uri {
				return ns.Prefix, true
			}
		}
		p, ok := e.Parent().(*xml.Element)
		if !ok {
			break
		}
		e = p
	}
	return "", false
}

// applyAttributeSets runs the xsl:attribute children of each named
// attribute set (space-separated names, xsl:use-attribute-sets'
// grammar) against target, ahead of the element's own attributes.
func applyAttributeSets(ctx *Context, target *xml.Element, names string) error {
	for _, name := range strings.Fields(names) {
		as, ok := ctx.AttributeSet(name)
		if !ok {
			continue
		}
		if err := ApplyOneTemplate(ctx.WithInsert(target), as.Attrs); err != nil {
			return err
		}
	}
	return nil
}

func copyText(ctx *Context, t *xml.Text) {
	ctx.Insert.Append(t.Clone())
}

func copyComment(ctx *Context, c *xml.Comment) {
	ctx.Insert.Append(c.Clone())
}

func copyInstruction(ctx *Context, i *xml.Instruction) {
	ctx.Insert.Append(i.Clone())
}

// executeCopy implements xsl:copy: a shallow copy of the current
// node's identity (name/namespace for an element, full value for a
// leaf kind), with the instruction's own body instantiated as the
// copy's children when the node is an element or document.
func executeCopy(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	switch n := ctx.Node.(type) {
	case *xml.Element:
		copyEl := &xml.Element{}
		copyEl.NS = append(copyEl.NS, n.NS...)
		copyEl.QName = resolveCopyName(ctx, copyEl, n.QName)
		if asName, ok := attr(el, "use-attribute-sets"); ok {
			if err := applyAttributeSets(ctx, copyEl, asName); err != nil {
				return err
			}
		}
		ctx.Insert.Append(copyEl)
		return ApplyOneTemplate(ctx.WithInsert(copyEl), el.Nodes)
	case *xml.Document:
		return ApplyOneTemplate(ctx, el.Nodes)
	case *xml.Text:
		copyText(ctx, n)
	case *xml.Comment:
		copyComment(ctx, n)
	case *xml.Instruction:
		copyInstruction(ctx, n)
	case *xml.Attribute:
		ctx.Insert.Append(n.Clone())
	}
	return nil
}

// executeCopyOf implements xsl:copy-of: select must evaluate to a
// node-set (each member deep-cloned and appended) or any other type
// (coerced to a string and appended as a single Text node).
func executeCopyOf(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	sel, err := requireAttr(el, "select")
	if err != nil {
		return err
	}
	seq, err := ctx.Eval(sel)
	if err != nil {
		return err
	}
	if !seq.IsNodeSet() {
		ctx.Insert.Append(xml.NewText(seq.String()))
		return nil
	}
	for _, n := range seq.Sorted() {
		if c, ok := n.(xml.Cloner); ok {
			ctx.Insert.Append(c.Clone())
			continue
		}
		ctx.Insert.Append(n)
	}
	return nil
}
