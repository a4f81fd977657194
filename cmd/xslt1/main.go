// Command xslt1 runs an XSLT 1.0 stylesheet against a source document
// and writes the transformed result to stdout.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xslt"
)

func main() {
	options := struct {
		Method  string
		Compact bool
		Trace   bool
		Out     string
	}{}
	flag.StringVar(&options.Method, "m", "", "override the stylesheet's output method (xml, html, text)")
	flag.BoolVar(&options.Compact, "c", false, "write compact output, no indentation")
	flag.BoolVar(&options.Trace, "trace", false, "log per-instruction diagnostics to stderr")
	flag.StringVar(&options.Out, "o", "", "output file (default stdout)")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: xslt1 [options] stylesheet.xsl source.xml")
		os.Exit(2)
	}

	style, err := loadStylesheet(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	source, err := parseSource(flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var tracer xslt.Tracer
	if options.Trace {
		tracer = xslt.NewSlogTracer(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	result, err := xslt.Apply(style, source, xslt.Options{
		Method: options.Method,
		Tracer: tracer,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}

	w := os.Stdout
	if options.Out != "" {
		f, err := os.Create(options.Out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer f.Close()
		w = f
	}

	writer := xml.NewWriter(w)
	if options.Compact {
		writer.Options |= xml.OptionCompact
	}
	if err := writer.Write(result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(4)
	}
}

func loadStylesheet(path string) (*xslt.Stylesheet, error) {
	doc, err := parseSource(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	resolve := func(href string) (*xml.Document, error) {
		return parseSource(filepath.Join(dir, href))
	}
	return xslt.Load(doc, resolve)
}

func parseSource(path string) (*xml.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return xml.Parse(f)
}
