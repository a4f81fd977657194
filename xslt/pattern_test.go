package xslt

import (
	"testing"

	"github.com/brejoc/xslt1/xml"
)

const patternSample = `<?xml version="1.0" encoding="UTF-8"?>
<root>
	<item id="node" lang="en">foobar</item>
</root>
`

func TestPatternMatch(t *testing.T) {
	doc, err := xml.ParseString(patternSample)
	if err != nil {
		t.Fatalf("fail to parse sample xml document: %s", err)
	}
	var (
		attr = xml.NewAttribute(xml.LocalName("id"), "node")
		root = xml.NewElement(xml.LocalName("root"))
		foo  = xml.NewElement(xml.LocalName("foo"))
		bar  = xml.NewElement(xml.LocalName("bar"))
		txt  = xml.NewText("foobar")
	)
	bar.Append(txt)
	foo.Append(bar)
	root.Append(foo)
	root.Append(attr)

	tests := []struct {
		Pattern string
		Want    bool
		Node    xml.Node
	}{
		{Pattern: "root", Want: true, Node: doc.Root()},
		{Pattern: "foo/bar", Want: true, Node: bar},
		{Pattern: "root", Want: false, Node: foo},
		{Pattern: "@id", Want: true, Node: attr},
		{Pattern: "@*", Want: true, Node: attr},
		{Pattern: "@lang", Want: false, Node: attr},
		{Pattern: "text()", Want: true, Node: txt},
		{Pattern: "text()", Want: false, Node: doc.Root()},
		{Pattern: "foo | bar", Want: true, Node: foo},
		{Pattern: "foo | bar", Want: true, Node: bar},
		{Pattern: "*", Want: true, Node: doc.Root()},
		{Pattern: "node()", Want: true, Node: doc.Root()},
	}
	for _, c := range tests {
		m, _, err := compilePattern(c.Pattern)
		if err != nil {
			t.Errorf("%s: fail to compile pattern: %s", c.Pattern, err)
			continue
		}
		got := m.Match(c.Node)
		if got != c.Want {
			t.Errorf("%s: result mismatched: want %t, got %t", c.Pattern, c.Want, got)
		}
	}
}

func TestPatternCompile(t *testing.T) {
	tests := []string{
		"*",
		"item",
		"ns:item",
		"/ns:item",
		"//ns:item",
		"root/item",
		"foo | bar",
		"@class",
		"/foo/@id",
		"@*",
		"node()",
		"text()",
		"item[1]",
	}
	for _, str := range tests {
		if _, _, err := compilePattern(str); err != nil {
			t.Errorf("%s: fail to compile: %s", str, err)
		}
	}
}

func TestDefaultPriority(t *testing.T) {
	tests := []struct {
		Pattern  string
		Priority float64
	}{
		{"*", -0.5},
		{"node()", -0.5},
		{"text()", -0.5},
		{"@*", -0.5},
		{"ns:*", -0.25},
		{"@ns:*", -0.25},
		{"item", 0},
		{"@id", 0},
		{"root/item", 0.5},
		{"item[1]", 0.5},
	}
	for _, c := range tests {
		got := defaultPriority(c.Pattern)
		if got != c.Priority {
			t.Errorf("%s: priority mismatched: want %v, got %v", c.Pattern, c.Priority, got)
		}
	}
}
