package xslt

import "github.com/brejoc/xslt1/xml"

// executeValueOf implements xsl:value-of: evaluate select, coerce to
// string, append a Text node at the insertion point. A recognised
// disable-output-escaping value is carried as a policy flag on the
// produced node for the serializer to honour; an unrecognised value is
// a warning that does not change emission.
func executeValueOf(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	sel, err := requireAttr(el, "select")
	if err != nil {
		return err
	}
	seq, err := ctx.Eval(sel)
	if err != nil {
		return err
	}
	t := xml.NewText(seq.String())
	if doe, ok := attr(el, "disable-output-escaping"); ok {
		switch doe {
		case "yes":
			t.DisableOutputEscaping = true
		case "no":
		default:
			ctx.ReportError(&instructionError{name: "disable-output-escaping", err: ErrUnknownMessage})
		}
	}
	ctx.Insert.Append(t)
	return nil
}
