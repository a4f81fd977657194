package xslt

import (
	"fmt"

	"github.com/brejoc/xslt1/xml"
)

// resolveTemplateName splits a (possibly prefixed) call-template/
// template name into its namespace URI and local part. The prefix is
// resolved against the *insertion point*'s in-scope namespaces in the
// result tree, not the stylesheet's.
func resolveTemplateName(ctx *Context, raw string) (uri, local string, err error) {
	qn, err := xml.ParseName(raw)
	if err != nil {
		return "", "", err
	}
	if qn.Space == "" {
		return "", qn.Name, nil
	}
	el, ok := ctx.Insert.(*xml.Element)
	if !ok {
		return "", "", fmt.Errorf("%s: %w", qn.Space, ErrUnresolvedPrefix)
	}
	uri, ok = el.ResolveNamespace(qn.Space)
	if !ok {
		return "", "", fmt.Errorf("%s: %w", qn.Space, ErrUnresolvedPrefix)
	}
	return uri, qn.Name, nil
}

func templateKey(uri, local string) string {
	if uri == "" {
		return local
	}
	return uri + "|" + local
}

// executeCallTemplate resolves the named template, binds with-param
// children into one shared frame, then runs the template body against
// the *current* source node (call-template does not change the context
// node).
func executeCallTemplate(ctx *Context) error {
	el, _ := ctx.Instr.(*xml.Element)
	name, err := requireAttr(el, "name")
	if err != nil {
		return err
	}
	uri, local, err := resolveTemplateName(ctx, name)
	if err != nil {
		return err
	}
	tpl, err := ctx.NamedTemplate(templateKey(uri, local))
	if err != nil {
		return err
	}

	sub, err := bindWithParams(ctx, el.Nodes)
	if err != nil {
		return err
	}
	sub = sub.WithInstr(nil)
	if tpl.Mode != "" {
		sub = sub.WithMode(tpl.Mode)
	}
	return ApplyOneTemplate(sub, tpl.Nodes)
}
