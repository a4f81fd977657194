package xml

import (
	"fmt"
	"io"
	"strings"
)

// WriterOptions are bit flags controlling serialization, mirroring the
// handful of xsl:output attributes the apply engine cares about.
type WriterOptions uint64

const (
	OptionCompact WriterOptions = 1 << iota
	OptionNoProlog
	OptionHTML
)

func (o WriterOptions) has(flag WriterOptions) bool {
	return o&flag != 0
}

// Writer serializes a Document back to text.
type Writer struct {
	w       io.Writer
	Options WriterOptions
	depth   int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(doc *Document) error {
	if !w.Options.has(OptionNoProlog) && !w.Options.has(OptionHTML) {
		if err := w.writeProlog(doc); err != nil {
			return err
		}
	}
	if doc.DocType != nil {
		if err := w.writeDoctype(doc.DocType); err != nil {
			return err
		}
	}
	for _, n := range doc.Nodes {
		if err := w.writeNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeProlog(doc *Document) error {
	version := doc.Version
	if version == "" {
		version = SupportedVersion
	}
	encoding := doc.Encoding
	if encoding == "" {
		encoding = SupportedEncoding
	}
	_, err := fmt.Fprintf(w.w, "<?xml version=\"%s\" encoding=\"%s\"?>\n", version, encoding)
	return err
}

func (w *Writer) writeDoctype(dt *DocType) error {
	switch {
	case dt.PublicID != "":
		_, err := fmt.Fprintf(w.w, "<!DOCTYPE %s PUBLIC \"%s\" \"%s\">\n", dt.Name, dt.PublicID, dt.SystemID)
		return err
	case dt.SystemID != "":
		_, err := fmt.Fprintf(w.w, "<!DOCTYPE %s SYSTEM \"%s\">\n", dt.Name, dt.SystemID)
		return err
	default:
		_, err := fmt.Fprintf(w.w, "<!DOCTYPE %s>\n", dt.Name)
		return err
	}
}

func (w *Writer) writeNode(n Node) error {
	switch it := n.(type) {
	case *Element:
		return w.writeElement(it)
	case *Text:
		return w.writeText(it)
	case *Comment:
		return w.writeComment(it)
	case *Instruction:
		return w.writeInstruction(it)
	default:
		return nil
	}
}

func (w *Writer) writeIndent() error {
	if w.Options.has(OptionCompact) {
		return nil
	}
	if w.depth == 0 {
		return nil
	}
	_, err := fmt.Fprint(w.w, strings.Repeat("  ", w.depth))
	return err
}

func (w *Writer) writeElement(e *Element) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	name := e.QualifiedName()
	if _, err := fmt.Fprintf(w.w, "<%s", name); err != nil {
		return err
	}
	for _, ns := range e.NS {
		attr := "xmlns"
		if ns.Prefix != "" {
			attr = "xmlns:" + ns.Prefix
		}
		if _, err := fmt.Fprintf(w.w, " %s=\"%s\"", attr, escapeAttr(ns.Uri)); err != nil {
			return err
		}
	}
	for _, a := range e.Attrs {
		if err := w.writeAttribute(a); err != nil {
			return err
		}
	}
	if e.Leaf() {
		_, err := fmt.Fprint(w.w, "/>")
		if !w.Options.has(OptionCompact) {
			fmt.Fprintln(w.w)
		}
		return err
	}
	if _, err := fmt.Fprint(w.w, ">"); err != nil {
		return err
	}
	multi := !w.Options.has(OptionCompact) && hasElementChild(e)
	if multi {
		fmt.Fprintln(w.w)
	}
	w.depth++
	for _, n := range e.Nodes {
		if err := w.writeNode(n); err != nil {
			return err
		}
	}
	w.depth--
	if multi {
		if err := w.writeIndent(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w.w, "</%s>", name)
	if !w.Options.has(OptionCompact) {
		fmt.Fprintln(w.w)
	}
	return err
}

func hasElementChild(e *Element) bool {
	for _, n := range e.Nodes {
		if n.Type() == TypeElement {
			return true
		}
	}
	return false
}

func (w *Writer) writeAttribute(a *Attribute) error {
	_, err := fmt.Fprintf(w.w, " %s=\"%s\"", a.QualifiedName(), escapeAttr(a.Datum))
	return err
}

func (w *Writer) writeText(t *Text) error {
	if t.CData {
		_, err := fmt.Fprintf(w.w, "<![CDATA[%s]]>", t.Content)
		return err
	}
	if t.DisableOutputEscaping {
		_, err := fmt.Fprint(w.w, t.Content)
		return err
	}
	_, err := fmt.Fprint(w.w, escapeText(t.Content))
	return err
}

func (w *Writer) writeComment(c *Comment) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.w, "<!--%s-->", c.Content)
	if !w.Options.has(OptionCompact) {
		fmt.Fprintln(w.w)
	}
	return err
}

func (w *Writer) writeInstruction(i *Instruction) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.w, "<?%s %s?>", i.Target, i.Data)
	if !w.Options.has(OptionCompact) {
		fmt.Fprintln(w.w)
	}
	return err
}

func escapeText(str string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(str)
}

func escapeAttr(str string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")
	return replacer.Replace(str)
}
