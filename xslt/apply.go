package xslt

import (
	"fmt"

	"github.com/brejoc/xslt1/xml"
)

// Options configures one Apply run: an output-method override (empty
// defers to the stylesheet's own xsl:output), a whitespace table
// override layered on top of the stylesheet's own strip-space/
// preserve-space declarations, and the Tracer diagnostics flow through.
type Options struct {
	Method        string
	StripSpace    []string
	PreserveSpace []string
	Tracer        Tracer
}

// Apply chooses the output method, seeds an empty result document of
// the right shape, walks the source from its document node, and on XML
// output with a declared DOCTYPE, attaches an internal subset named
// after the result's actual root element once transformation has
// produced one. HTML output with a declared DOCTYPE gets an "html"
// DOCTYPE up front, before the walk; text output never gets one.
func Apply(style *Stylesheet, source *xml.Document, opts Options) (*xml.Document, error) {
	if opts.Method != "" {
		style = overrideOutput(style, opts)
	} else if len(opts.StripSpace) > 0 || len(opts.PreserveSpace) > 0 {
		style = overrideOutput(style, opts)
	}

	method := style.Output.Method
	if method == "" {
		method = "xml"
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = NoopTracer()
	}
	tracer.Start()
	defer tracer.Done()

	var result *xml.Document
	switch method {
	case "xml":
		result = xml.EmptyDocument()
	case "html":
		result = xml.EmptyDocument()
		if style.Output.DoctypePublic != "" || style.Output.DoctypeSystem != "" {
			result.DocType = xml.NewDocType("html", style.Output.DoctypePublic, style.Output.DoctypeSystem)
		}
	case "text":
		result = xml.EmptyDocument()
	default:
		return nil, fmt.Errorf("%s: %w", method, ErrOutputMethod)
	}
	if style.Output.Encoding != "" {
		result.Encoding = style.Output.Encoding
	}

	ctx := style.createRootContext(source, tracer)
	ctx.Result = result
	ctx.Insert = result

	if err := ProcessNode(ctx); err != nil {
		return nil, err
	}

	if method == "xml" && (style.Output.DoctypePublic != "" || style.Output.DoctypeSystem != "") {
		if root, ok := result.Root().(*xml.Element); ok {
			result.DocType = xml.NewDocType(root.QualifiedName(), style.Output.DoctypePublic, style.Output.DoctypeSystem)
		}
	}
	return result, nil
}

// overrideOutput copies style and layers opts on top of its xsl:output
// and whitespace tables, leaving the original Stylesheet value (and
// anything else still holding a pointer to it) untouched.
func overrideOutput(style *Stylesheet, opts Options) *Stylesheet {
	cp := *style
	out := *style.Output
	if opts.Method != "" {
		out.Method = opts.Method
	}
	cp.Output = &out
	if len(opts.StripSpace) > 0 {
		cp.StripSpace = append(append([]string(nil), style.StripSpace...), opts.StripSpace...)
	}
	if len(opts.PreserveSpace) > 0 {
		cp.PreserveSpace = append(append([]string(nil), style.PreserveSpace...), opts.PreserveSpace...)
	}
	return &cp
}
