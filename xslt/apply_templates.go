package xslt

import "github.com/brejoc/xslt1/xml"

// childrenOf returns n's direct children for the two container kinds
// (Document, Element) the tree supports; every other node kind is a
// leaf.
func childrenOf(n xml.Node) []xml.Node {
	switch v := n.(type) {
	case *xml.Document:
		return v.Nodes
	case *xml.Element:
		return v.Nodes
	default:
		return nil
	}
}

// filterDefaultNodeSet builds the node-set apply-templates uses when no
// select attribute is given, and that the built-in default template
// rule uses for its implicit iteration: Document, Element, Text and
// CDATA children, with whitespace-only text dropped per the
// strip-space/preserve-space table.
func filterDefaultNodeSet(ctx *Context, children []xml.Node) []xml.Node {
	var out []xml.Node
	for _, c := range children {
		switch n := c.(type) {
		case *xml.Document, *xml.Element:
			out = append(out, c)
		case *xml.Text:
			if !whitespaceStripped(ctx, n) {
				out = append(out, c)
			}
		}
	}
	return out
}

// sortElements returns the leading run of xsl:sort children of body.
func sortElements(body []xml.Node) ([]*xml.Element, []xml.Node) {
	var sorts []*xml.Element
	i := 0
	for ; i < len(body); i++ {
		el, ok := isXSLTInstruction(body[i])
		if !ok || el.LocalName() != "sort" {
			break
		}
		sorts = append(sorts, el)
	}
	return sorts, body[i:]
}

// bindWithParams evaluates a (possibly empty) run of xsl:with-param
// children into one frame shared by every downstream template
// invocation or loop iteration: values are computed once, before
// iteration begins, against the instruction's own context, so every
// invocation it triggers sees the same parameter value.
func bindWithParams(ctx *Context, children []xml.Node) (*Context, error) {
	sub := ctx
	nested := false
	for _, c := range children {
		el, ok := isXSLTInstruction(c)
		if !ok || el.LocalName() != "with-param" {
			ctx.ReportError(&instructionError{name: c.QualifiedName(), err: ErrUnknownInstruction})
			continue
		}
		if !nested {
			sub = sub.Nest()
			nested = true
		}
		if err := bindParamValue(sub, el); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

// executeApplyTemplates implements xsl:apply-templates: select (or the
// built-in default node-set) is sorted per any xsl:sort children, then
// each selected node is dispatched through ProcessNode in turn.
func executeApplyTemplates(ctx *Context) error {
	elem, _ := ctx.Instr.(*xml.Element)

	if mode, ok := attr(elem, "mode"); ok {
		ctx = ctx.WithMode(normalizeMode(mode))
	}

	sorts, rest := sortElements(elem.Nodes)
	sub, err := bindWithParams(ctx, rest)
	if err != nil {
		return err
	}

	var list []xml.Node
	if sel, ok := attr(elem, "select"); ok {
		seq, err := sub.Eval(sel)
		if err != nil {
			return err
		}
		if !seq.IsNodeSet() {
			return ErrWrongType
		}
		list = seq.Sorted()
	} else {
		list = filterDefaultNodeSet(sub, childrenOf(sub.Node))
	}

	list, err = applySortKeys(sub, list, sorts)
	if err != nil {
		return err
	}

	for i := range list {
		iter := sub.WithNodeList(list, i+1)
		if err := ProcessNode(iter); err != nil {
			return err
		}
	}
	return nil
}
