package xslt_test

import (
	"strings"
	"testing"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xslt"
)

func compile(t *testing.T, src string) *xslt.Stylesheet {
	t.Helper()
	doc, err := xml.ParseString(src)
	if err != nil {
		t.Fatalf("parse stylesheet: %s", err)
	}
	style, err := xslt.Load(doc, nil)
	if err != nil {
		t.Fatalf("load stylesheet: %s", err)
	}
	return style
}

func parse(t *testing.T, src string) *xml.Document {
	t.Helper()
	doc, err := xml.ParseString(src)
	if err != nil {
		t.Fatalf("parse source: %s", err)
	}
	return doc
}

func firstElement(n xml.Node, name string) *xml.Element {
	if el, ok := n.(*xml.Element); ok && el.LocalName() == name {
		return el
	}
	for _, c := range childrenOfForTest(n) {
		if found := firstElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func childrenOfForTest(n xml.Node) []xml.Node {
	switch v := n.(type) {
	case *xml.Document:
		return v.Nodes
	case *xml.Element:
		return v.Nodes
	default:
		return nil
	}
}

const xsltHeader = `<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">`

// S1: copy-through text.
func TestApplyCopyThroughText(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/"><xsl:apply-templates/></xsl:template>
		<xsl:template match="text()"><xsl:value-of select="."/></xsl:template>
	</xsl:stylesheet>`)
	source := parse(t, `<r>hello</r>`)

	result, err := xslt.Apply(style, source, xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	if got := result.Value(); got != "hello" {
		t.Errorf("result text mismatched: want %q, got %q", "hello", got)
	}
}

// S2: conditional.
func TestApplyIf(t *testing.T) {
	tests := []struct {
		Source  string
		HasYes  bool
	}{
		{Source: `<r><a/></r>`, HasYes: true},
		{Source: `<r/>`, HasYes: false},
	}
	for _, tt := range tests {
		style := compile(t, xsltHeader+`
			<xsl:template match="/r">
				<out><xsl:if test="count(*)&gt;0"><yes/></xsl:if></out>
			</xsl:template>
		</xsl:stylesheet>`)
		result, err := xslt.Apply(style, parse(t, tt.Source), xslt.Options{})
		if err != nil {
			t.Fatalf("apply: %s", err)
		}
		out := firstElement(result, "out")
		if out == nil {
			t.Fatalf("no <out> in result")
		}
		got := firstElement(out, "yes") != nil
		if got != tt.HasYes {
			t.Errorf("%s: want yes=%t, got %t", tt.Source, tt.HasYes, got)
		}
	}
}

// S3: for-each with ascending text sort.
func TestApplyForEachSortAscendingText(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/r">
			<ul>
				<xsl:for-each select="item">
					<xsl:sort select="@k"/>
					<li><xsl:value-of select="@k"/></li>
				</xsl:for-each>
			</ul>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r><item k="b"/><item k="a"/><item k="c"/></r>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	ul := firstElement(result, "ul")
	if ul == nil {
		t.Fatalf("no <ul> in result")
	}
	var got []string
	for _, c := range ul.Nodes {
		if li, ok := c.(*xml.Element); ok {
			got = append(got, li.Value())
		}
	}
	want := []string{"a", "b", "c"}
	if !equalStrings(got, want) {
		t.Errorf("sort order mismatched: want %v, got %v", want, got)
	}
}

// S4: for-each with descending numeric sort.
func TestApplyForEachSortDescendingNumber(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/r">
			<ul>
				<xsl:for-each select="item">
					<xsl:sort select="@k" data-type="number" order="descending"/>
					<li><xsl:value-of select="@k"/></li>
				</xsl:for-each>
			</ul>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r><item k="10"/><item k="2"/><item k="30"/></r>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	ul := firstElement(result, "ul")
	var got []string
	for _, c := range ul.Nodes {
		if li, ok := c.(*xml.Element); ok {
			got = append(got, li.Value())
		}
	}
	want := []string{"30", "10", "2"}
	if !equalStrings(got, want) {
		t.Errorf("sort order mismatched: want %v, got %v", want, got)
	}
}

// S5: named template with param.
func TestApplyCallTemplateWithParam(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<xsl:call-template name="greet">
				<xsl:with-param name="who" select="'world'"/>
			</xsl:call-template>
		</xsl:template>
		<xsl:template name="greet">
			<xsl:param name="who"/>Hi <xsl:value-of select="$who"/>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r/>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	got := strings.TrimSpace(normalizeSpace(result.Value()))
	if got != "Hi world" {
		t.Errorf("want %q, got %q", "Hi world", got)
	}
}

// S6: attribute-before-children ordering.
func TestApplyAttributeOrdering(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:attribute name="id">x</xsl:attribute><b/></a>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r/>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	a := firstElement(result, "a")
	if a == nil {
		t.Fatalf("no <a> in result")
	}
	if v, ok := a.GetAttribute(xml.LocalName("id")); !ok || v.Datum != "x" {
		t.Errorf("expected id=\"x\" attribute, got %v", v)
	}
	if firstElement(a, "b") == nil {
		t.Errorf("expected <b/> child to survive")
	}
}

func TestApplyAttributeOrderingReversedIsRejected(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><b/><xsl:attribute name="id">x</xsl:attribute></a>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r/>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	a := firstElement(result, "a")
	if a == nil {
		t.Fatalf("no <a> in result")
	}
	if _, ok := a.GetAttribute(xml.LocalName("id")); ok {
		t.Errorf("attribute after a child must not be set")
	}
	if firstElement(a, "b") == nil {
		t.Errorf("expected <b/> child to survive")
	}
}

// The identity stylesheet reproduces its source verbatim: every node
// and attribute recursively copies itself and recurses into its own
// children via the same rule.
func TestApplyIdentityStylesheet(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="node()|@*">
			<xsl:copy>
				<xsl:apply-templates select="node()|@*"/>
			</xsl:copy>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r a="1"><c>text</c></r>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	r := firstElement(result, "r")
	if r == nil {
		t.Fatalf("no <r> in result")
	}
	if v, ok := r.GetAttribute(xml.LocalName("a")); !ok || v.Datum != "1" {
		t.Errorf("expected a=\"1\" to survive the identity transform, got %v", v)
	}
	c := firstElement(r, "c")
	if c == nil || c.Value() != "text" {
		t.Errorf("expected <c>text</c> to survive, got %v", c)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
