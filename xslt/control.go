package xslt

import (
	"github.com/brejoc/xslt1/xml"
)

// executeIf implements xsl:if: test gates the instruction's own
// children as a template body, no new variable scope.
func executeIf(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	test, err := requireAttr(el, "test")
	if err != nil {
		return err
	}
	seq, err := ctx.Eval(test)
	if err != nil {
		return err
	}
	if !seq.Bool() {
		return nil
	}
	return ApplyOneTemplate(ctx.WithInstr(nil), el.Nodes)
}

// executeForEach implements xsl:for-each: select must be a node-set;
// the node-list/context-size/proximity-position triple is saved by
// virtue of WithNodeList deriving a fresh Context rather than mutating
// ctx, and restored automatically when this call returns.
func executeForEach(ctx *Context) error {
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
		return ErrWrongType
	}
	list := seq.Sorted()

	sorts, body := sortElements(el.Nodes)
	list, err = applySortKeys(ctx, list, sorts)
	if err != nil {
		return err
	}

	for i := range list {
		iter := ctx.WithNodeList(list, i+1)
		if err := ApplyOneTemplate(iter.WithInstr(nil), body); err != nil {
			return err
		}
	}
	return nil
}

// executeChoose implements xsl:choose/xsl:when/xsl:otherwise: the
// first xsl:when whose test is true runs, otherwise xsl:otherwise if
// present, never both.
func executeChoose(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	for _, c := range el.Nodes {
		child, ok := isXSLTInstruction(c)
		if !ok {
			continue
		}
		switch child.LocalName() {
		case "when":
			test, err := requireAttr(child, "test")
			if err != nil {
				return err
			}
			seq, err := ctx.Eval(test)
			if err != nil {
				return err
			}
			if seq.Bool() {
				return ApplyOneTemplate(ctx.WithInstr(nil), child.Nodes)
			}
		case "otherwise":
			return ApplyOneTemplate(ctx.WithInstr(nil), child.Nodes)
		}
	}
	return nil
}
