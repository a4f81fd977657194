package xml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parser turns a byte stream into a Document. Tokenizing (entities,
// quoting, well-formedness checks) is delegated to the standard library
// decoder; this type owns building our own Node tree - with parent
// links, QName resolution and namespace tables - on top of it, which is
// the part an XSLT engine actually needs to reach into.
type Parser struct {
	dec *xml.Decoder
}

func NewParser(r io.Reader) *Parser {
	return &Parser{dec: xml.NewDecoder(bufio.NewReader(r))}
}

func Parse(r io.Reader) (*Document, error) {
	return NewParser(r).Parse()
}

func ParseString(str string) (*Document, error) {
	return Parse(strings.NewReader(str))
}

func (p *Parser) Parse() (*Document, error) {
	doc := EmptyDocument()
	var stack []*Element

	push := func(n Node) {
		if len(stack) == 0 {
			doc.Append(n)
			return
		}
		stack[len(stack)-1].Append(n)
	}

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			if strings.EqualFold(t.Target, "xml") {
				readDeclaration(doc, string(t.Inst))
				continue
			}
			push(NewInstruction(t.Target, string(t.Inst)))
		case xml.Directive:
			parseDoctype(doc, string(t))
		case xml.StartElement:
			el := NewElement(resolveName(t.Name))
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					el.NS = append(el.NS, NS{Prefix: a.Name.Local, Uri: a.Value})
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					el.NS = append(el.NS, NS{Uri: a.Value})
					continue
				}
				el.Attrs = append(el.Attrs, NewAttribute(resolveName(a.Name), a.Value))
			}
			for i, at := range el.Attrs {
				at.setParent(el)
				at.setPosition(i + 1)
			}
			push(el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse: unexpected end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			push(NewText(string(t)))
		case xml.Comment:
			push(NewComment(string(t)))
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parse: unclosed element %s", stack[len(stack)-1].QualifiedName())
	}
	if doc.Version == "" {
		doc.Version = SupportedVersion
	}
	if doc.Encoding == "" {
		doc.Encoding = SupportedEncoding
	}
	return doc, nil
}

func resolveName(name xml.Name) QName {
	return QName{Name: name.Local, Space: "", Uri: name.Space}
}

func readDeclaration(doc *Document, inst string) {
	for _, field := range strings.Fields(inst) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"'`)
		switch k {
		case "version":
			doc.Version = v
		case "encoding":
			doc.Encoding = v
		case "standalone":
			doc.Standalone = v
		}
	}
}

func parseDoctype(doc *Document, raw string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "DOCTYPE") {
		return
	}
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return
	}
	dt := &DocType{Name: fields[1]}
	rest := strings.Join(fields[2:], " ")
	switch {
	case strings.HasPrefix(rest, "PUBLIC"):
		parts := splitQuoted(rest[len("PUBLIC"):])
		if len(parts) > 0 {
			dt.PublicID = parts[0]
		}
		if len(parts) > 1 {
			dt.SystemID = parts[1]
		}
	case strings.HasPrefix(rest, "SYSTEM"):
		parts := splitQuoted(rest[len("SYSTEM"):])
		if len(parts) > 0 {
			dt.SystemID = parts[0]
		}
	}
	doc.DocType = dt
}

func splitQuoted(str string) []string {
	var out []string
	var quote byte
	var cur strings.Builder
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch {
		case quote != 0:
			if c == quote {
				out = append(out, cur.String())
				cur.Reset()
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
		}
	}
	return out
}
