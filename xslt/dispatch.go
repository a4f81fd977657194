package xslt

import (
	"errors"

	"github.com/brejoc/xslt1/xml"
)

// ExecuteFunc is one instruction handler: given a Context positioned at
// the instruction (ctx.Instr) and its source node (ctx.Node), it
// produces output at ctx.Insert and returns an instruction-local error
// if its preconditions aren't met. ApplyOneTemplate reports such errors
// and carries on, except ErrTerminate, which aborts the transform.
type ExecuteFunc func(ctx *Context) error

var executers map[string]ExecuteFunc

func init() {
	executers = map[string]ExecuteFunc{
		"apply-templates":         executeApplyTemplates,
		"call-template":           executeCallTemplate,
		"value-of":                executeValueOf,
		"if":                      executeIf,
		"for-each":                executeForEach,
		"choose":                  executeChoose,
		"attribute":               executeAttribute,
		"comment":                 executeComment,
		"processing-instruction":  executePI,
		"element":                 executeElement,
		"copy":                    executeCopy,
		"copy-of":                executeCopyOf,
		"message":                 executeMessage,
		"text":                    executeTextInstruction,
	}
}

// isXSLTInstruction reports whether n is an element in the XSLT
// namespace, the test the dispatcher uses to tell a stylesheet
// instruction from a literal result element.
func isXSLTInstruction(n xml.Node) (*xml.Element, bool) {
	el, ok := n.(*xml.Element)
	if !ok || el.Uri != xsltNamespaceUri {
		return nil, false
	}
	return el, true
}

// ApplyOneTemplate walks a template body in document order: literal
// result elements are copied and descended into; xsl:variable/xsl:param
// lazily push one shared frame for the whole activation, popped
// implicitly when this call returns (the local Context it derived is
// simply discarded); any other recognised instruction dispatches to
// its handler; an unrecognised stylesheet element stops the walk for
// the remainder of this body.
func ApplyOneTemplate(ctx *Context, body []xml.Node) error {
	local := ctx
	nested := false
	ensureNested := func() {
		if !nested {
			local = local.Nest()
			nested = true
		}
	}
	for _, n := range body {
		if el, ok := isXSLTInstruction(n); ok {
			name := el.LocalName()
			iCtx := local.WithInstr(n)
			switch name {
			case "variable":
				ensureNested()
				iCtx = local.WithInstr(n)
				iCtx.Enter()
				if err := executeVariable(iCtx); err != nil {
					iCtx.ReportError(err)
				}
				iCtx.Leave()
				continue
			case "param":
				ensureNested()
				iCtx = local.WithInstr(n)
				iCtx.Enter()
				if err := executeParam(iCtx); err != nil {
					iCtx.ReportError(err)
				}
				iCtx.Leave()
				continue
			}
			handler, ok := executers[name]
			if !ok {
				local.ReportError(fmtUnknownInstruction(name))
				return nil
			}
			iCtx.Enter()
			err := handler(iCtx)
			iCtx.Leave()
			if err != nil {
				if errors.Is(err, ErrTerminate) {
					return err
				}
				iCtx.ReportError(err)
			}
			continue
		}
		switch nt := n.(type) {
		case *xml.Element:
			copy, err := copyLiteralElement(local, nt)
			if err != nil {
				local.ReportError(err)
				continue
			}
			if len(nt.Nodes) > 0 {
				if err := ApplyOneTemplate(local.WithInsert(copy), nt.Nodes); err != nil {
					return err
				}
			}
		case *xml.Text:
			copyText(local, nt)
		case *xml.Comment:
			copyComment(local, nt)
		case *xml.Instruction:
			copyInstruction(local, nt)
		default:
			// entity declarations and other opaque kinds: skipped.
		}
	}
	return nil
}

// ProcessNode is process_one_node: look up a matching template rule for
// ctx.Node in ctx.Mode; on a hit, instantiate its body; on a miss, fall
// back to the built-in default rules.
func ProcessNode(ctx *Context) error {
	tpl, ok := ctx.MatchTemplate(ctx.Mode, ctx.Node)
	if !ok {
		return DefaultRules(ctx)
	}
	sub := ctx.WithInstr(nil)
	if tpl.Mode != "" {
		sub = sub.WithMode(tpl.Mode)
	}
	return ApplyOneTemplate(sub, tpl.Nodes)
}

// DefaultRules are the XSLT 1.0 built-in template rules, equivalent to
// an implicit "<xsl:apply-templates/>" over an element or document's
// children and an implicit "<xsl:value-of select='.'/>" for a text
// node reached directly.
func DefaultRules(ctx *Context) error {
	switch n := ctx.Node.(type) {
	case *xml.Document:
		return applyDefaultChildren(ctx, n.Nodes)
	case *xml.Element:
		return applyDefaultChildren(ctx, n.Nodes)
	case *xml.Text:
		if !whitespaceStripped(ctx, n) {
			copyText(ctx, n)
		}
		return nil
	default:
		return nil
	}
}

// applyDefaultChildren iterates the default-rule node-set (Document/
// Element/Text/CDATA children, blank text stripped) with the same
// context-size/position invariant as an explicit apply-templates
// iteration. Every child - text included - is routed through
// ProcessNode so a user template matching it (e.g. match="text()")
// still takes precedence over the built-in copy rule.
func applyDefaultChildren(ctx *Context, children []xml.Node) error {
	list := filterDefaultNodeSet(ctx, children)
	for i := range list {
		sub := ctx.WithNodeList(list, i+1)
		if err := ProcessNode(sub); err != nil {
			return err
		}
	}
	return nil
}

// whitespaceStripped applies the stylesheet's strip-space/preserve-space
// table to a text node that is entirely XML whitespace; non-blank text
// is never stripped.
func whitespaceStripped(ctx *Context, t *xml.Text) bool {
	if !isBlank(t.Content) {
		return false
	}
	parent, ok := t.Parent().(*xml.Element)
	if !ok {
		return false
	}
	return ctx.shouldStrip(parent)
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

func fmtUnknownInstruction(name string) error {
	return &instructionError{name: name, err: ErrUnknownInstruction}
}

type instructionError struct {
	name string
	err  error
}

func (e *instructionError) Error() string { return e.name + ": " + e.err.Error() }
func (e *instructionError) Unwrap() error { return e.err }
