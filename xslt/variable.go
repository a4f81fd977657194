package xslt

import (
	"fmt"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xpath"
)

// evalBoundValue computes the Sequence an xsl:variable/xsl:param/
// xsl:with-param binds: the select expression if given, or else the
// instantiated body wrapped as a single-node result-tree fragment so
// its string-value (the concatenation of its text) is available to
// callers that coerce it with string(), same as an XSLT 1.0 RTF.
func evalBoundValue(ctx *Context, el *xml.Element) (xpath.Sequence, error) {
	if sel, ok := attr(el, "select"); ok {
		if len(el.Nodes) > 0 {
			return xpath.Sequence{}, fmt.Errorf("select attribute can not be used with children")
		}
		return ctx.Eval(sel)
	}
	if len(el.Nodes) == 0 {
		return xpath.StringValue(""), nil
	}
	frag := xml.NewElement(xml.LocalName("#fragment"))
	if err := ApplyOneTemplate(ctx.WithInsert(frag), el.Nodes); err != nil {
		return xpath.Sequence{}, err
	}
	return xpath.NodeSet([]xml.Node{frag}), nil
}

func bindParamValue(ctx *Context, el *xml.Element) error {
	name, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	seq, err := evalBoundValue(ctx, el)
	if err != nil {
		return err
	}
	ctx.Define(name, seq)
	return nil
}

// executeVariable implements xsl:variable: always (re)binds, shadowing
// any outer binding of the same name for the remainder of this
// activation.
func executeVariable(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	return bindParamValue(ctx, el)
}

// executeParam implements xsl:param: binds its default only if no
// enclosing frame (typically a with-param supplied by the caller)
// already carries a value for this name.
func executeParam(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	name, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	if _, err := ctx.Resolve(name); err == nil {
		return nil
	}
	seq, err := evalBoundValue(ctx, el)
	if err != nil {
		return err
	}
	ctx.Define(name, seq)
	return nil
}
