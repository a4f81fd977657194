package xslt_test

import (
	"strings"
	"testing"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xslt"
)

func TestApplyAttributeAVTName(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:attribute name="{concat('id','-',/r/@k)}">v</xsl:attribute></a>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r k="3"/>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	a := firstElement(result, "a")
	if a == nil {
		t.Fatalf("no <a> in result")
	}
	if v, ok := a.GetAttribute(xml.LocalName("id-3")); !ok || v.Datum != "v" {
		t.Errorf("expected id-3=\"v\" attribute, got %v ok=%t", v, ok)
	}
}

func TestApplyAttributeForbiddenXmlnsName(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:attribute name="xmlns">v</xsl:attribute><b/></a>
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
	if firstElement(a, "b") == nil {
		t.Errorf("sibling <b/> should survive a rejected xmlns attribute")
	}
}

func TestApplyCommentContent(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:comment>hello</xsl:comment></a>
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
	var found *xml.Comment
	for _, n := range a.Nodes {
		if c, ok := n.(*xml.Comment); ok {
			found = c
		}
	}
	if found == nil || found.Content != "hello" {
		t.Errorf("expected comment %q, got %v", "hello", found)
	}
}

func TestApplyCommentRejectsDoubleHyphen(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:comment>a--b</xsl:comment><b/></a>
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
	for _, n := range a.Nodes {
		if _, ok := n.(*xml.Comment); ok {
			t.Errorf("malformed comment content must not be emitted")
		}
	}
	if firstElement(a, "b") == nil {
		t.Errorf("sibling <b/> should survive a rejected comment")
	}
}

func TestApplyProcessingInstruction(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:processing-instruction name="style-sheet">href="x.css"</xsl:processing-instruction></a>
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
	var found *xml.Instruction
	for _, n := range a.Nodes {
		if pi, ok := n.(*xml.Instruction); ok {
			found = pi
		}
	}
	if found == nil || found.Target != "style-sheet" || found.Data != `href="x.css"` {
		t.Errorf("unexpected instruction: %v", found)
	}
}

func TestApplyElementDynamicName(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<xsl:element name="{/r/@tag}">inner</xsl:element>
		</xsl:template>
	</xsl:stylesheet>`)
	result, err := xslt.Apply(style, parse(t, `<r tag="wrapper"/>`), xslt.Options{})
	if err != nil {
		t.Fatalf("apply: %s", err)
	}
	wrapper := firstElement(result, "wrapper")
	if wrapper == nil {
		t.Fatalf("no <wrapper> in result")
	}
	if got := strings.TrimSpace(wrapper.Value()); got != "inner" {
		t.Errorf("want %q, got %q", "inner", got)
	}
}

func TestApplyMessageDoesNotAppendToResult(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:message>diagnostic</xsl:message><b/></a>
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
	if strings.Contains(a.Value(), "diagnostic") {
		t.Errorf("xsl:message content must not appear in the result tree")
	}
	if firstElement(a, "b") == nil {
		t.Errorf("expected <b/> sibling to survive")
	}
}

func TestApplyMessageTerminateStopsTransform(t *testing.T) {
	style := compile(t, xsltHeader+`
		<xsl:template match="/">
			<a><xsl:message terminate="yes">fatal</xsl:message><b/></a>
		</xsl:template>
	</xsl:stylesheet>`)
	_, err := xslt.Apply(style, parse(t, `<r/>`), xslt.Options{})
	if err == nil {
		t.Fatalf("expected terminate=\"yes\" to abort the transform")
	}
}
