package xslt_test

import (
	"errors"
	"testing"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xslt"
)

func TestLoadTemplatesOutputAndAttributeSets(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:output method="html" encoding="UTF-8" indent="yes" doctype-public="-//W3C//DTD HTML 4.01//EN"/>
		<xsl:strip-space elements="r"/>
		<xsl:attribute-set name="boxed">
			<xsl:attribute name="class">box</xsl:attribute>
		</xsl:attribute-set>
		<xsl:template match="/"><out/></xsl:template>
		<xsl:template name="named"><n/></xsl:template>
	</xsl:stylesheet>`)

	if style.Output.Method != "html" {
		t.Errorf("want output method html, got %q", style.Output.Method)
	}
	if style.Output.Encoding != "UTF-8" {
		t.Errorf("want encoding UTF-8, got %q", style.Output.Encoding)
	}
	if !style.Output.Indent {
		t.Errorf("want indent=true")
	}
	if style.Output.DoctypePublic != "-//W3C//DTD HTML 4.01//EN" {
		t.Errorf("doctype-public mismatched: %q", style.Output.DoctypePublic)
	}
	if len(style.StripSpace) != 1 || style.StripSpace[0] != "r" {
		t.Errorf("strip-space mismatched: %v", style.StripSpace)
	}
	as, ok := style.AttributeSet("boxed")
	if !ok || len(as.Attrs) != 1 {
		t.Fatalf("expected attribute-set \"boxed\" with 1 attribute, got %v", as)
	}
	if _, err := style.NamedTemplate("named"); err != nil {
		t.Errorf("expected named template \"named\" to be registered: %s", err)
	}
}

// An exact-name strip-space declaration must win over a "*"
// preserve-space wildcard, regardless of declaration order, since an
// exact match is more specific than a wildcard.
func TestShouldStripExactNameBeatsWildcard(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:strip-space elements="foo"/>
		<xsl:preserve-space elements="*"/>
		<xsl:template match="*"><xsl:copy><xsl:apply-templates/></xsl:copy></xsl:template>
	</xsl:stylesheet>`)

	source, err := xml.ParseString(`<r><foo>   </foo><bar>   </bar></r>`)
	if err != nil {
		t.Fatalf("parse source: %s", err)
	}
	result, err := xslt.Apply(style, source, xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}

	root, ok := result.Root().(*xml.Element)
	if !ok {
		t.Fatalf("no root element in result")
	}
	var foo, bar *xml.Element
	for _, n := range root.Nodes {
		if el, ok := n.(*xml.Element); ok {
			switch el.LocalName() {
			case "foo":
				foo = el
			case "bar":
				bar = el
			}
		}
	}
	if foo == nil || bar == nil {
		t.Fatalf("expected <foo> and <bar> in result, got %v", root)
	}
	if len(foo.Nodes) != 0 {
		t.Errorf("expected <foo>'s whitespace stripped by the exact-name match, got %v", foo.Nodes)
	}
	if len(bar.Nodes) == 0 {
		t.Errorf("expected <bar>'s whitespace preserved by the wildcard, got none")
	}
}

func TestLoadRejectsNonStylesheetRoot(t *testing.T) {
	doc, err := xml.ParseString(`<r/>`)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	if _, err := xslt.Load(doc, nil); err == nil {
		t.Errorf("expected an error loading a non-stylesheet document")
	}
}

func TestLoadImportWithoutResolverFails(t *testing.T) {
	doc, err := xml.ParseString(xsltHeader + `
		<xsl:import href="base.xsl"/>
		<xsl:template match="/"><out/></xsl:template>
	</xsl:stylesheet>`)
	if err != nil {
		t.Fatalf("parse: %s", err)
	}
	if _, err := xslt.Load(doc, nil); err == nil {
		t.Errorf("expected xsl:import with a nil resolver to fail")
	}
}

func TestLoadIncludeMergesTemplates(t *testing.T) {
	base, err := xml.ParseString(xsltHeader + `
		<xsl:template name="greet"><hi/></xsl:template>
	</xsl:stylesheet>`)
	if err != nil {
		t.Fatalf("parse base: %s", err)
	}
	doc, err := xml.ParseString(xsltHeader + `
		<xsl:include href="base.xsl"/>
		<xsl:template match="/"><out/></xsl:template>
	</xsl:stylesheet>`)
	if err != nil {
		t.Fatalf("parse main: %s", err)
	}

	resolve := func(href string) (*xml.Document, error) {
		if href == "base.xsl" {
			return base, nil
		}
		return nil, errors.New("not found")
	}
	style, err := xslt.Load(doc, resolve)
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	if _, err := style.NamedTemplate("greet"); err != nil {
		t.Errorf("expected included template \"greet\" to be registered: %s", err)
	}
}
