package xslt

import (
	"testing"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xpath"
)

func newSortElement(t *testing.T, pairs ...string) *xml.Element {
	t.Helper()
	el := xml.NewElement(xml.LocalName("sort"))
	for i := 0; i+1 < len(pairs); i += 2 {
		el.SetAttribute(xml.NewAttribute(xml.LocalName(pairs[i]), pairs[i+1]))
	}
	return el
}

// Two xsl:sort keys applied in reverse and re-sorted stably must yield
// the same order as sorting by (grp, val) lexicographically, with grp
// as the dominant key.
func TestApplySortKeysMultiLevelStable(t *testing.T) {
	root := xml.NewElement(xml.LocalName("r"))
	mk := func(grp, val string) *xml.Element {
		e := xml.NewElement(xml.LocalName("item"))
		e.SetAttribute(xml.NewAttribute(xml.LocalName("grp"), grp))
		e.SetAttribute(xml.NewAttribute(xml.LocalName("val"), val))
		root.Append(e)
		return e
	}
	a := mk("b", "2")
	b := mk("a", "2")
	c := mk("a", "1")
	d := mk("b", "1")
	list := []xml.Node{a, b, c, d}

	sortGrp := newSortElement(t, "select", "@grp")
	sortVal := newSortElement(t, "select", "@val")

	ctx := &Context{
		Node:              root,
		NodeList:          list,
		ContextSize:       len(list),
		ProximityPosition: 1,
		Xpath:             xpath.NewContext(root),
	}

	out, err := applySortKeys(ctx, list, []*xml.Element{sortGrp, sortVal})
	if err != nil {
		t.Fatalf("sort: %s", err)
	}
	want := []xml.Node{c, b, d, a}
	if len(out) != len(want) {
		t.Fatalf("length mismatched: want %d, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("position %d: want %v, got %v", i, want[i], out[i])
		}
	}
}

// A numeric descending sort orders by value, not lexicographically, so
// "30" sorts ahead of "10" and "2" even though "2" > "10" as strings.
func TestApplySortKeysNumericDescending(t *testing.T) {
	root := xml.NewElement(xml.LocalName("r"))
	mk := func(v string) *xml.Element {
		e := xml.NewElement(xml.LocalName("item"))
		e.SetAttribute(xml.NewAttribute(xml.LocalName("k"), v))
		root.Append(e)
		return e
	}
	n10, n2, n30 := mk("10"), mk("2"), mk("30")
	list := []xml.Node{n10, n2, n30}

	sortKey := newSortElement(t, "select", "@k", "data-type", "number", "order", "descending")
	ctx := &Context{
		Node:              root,
		NodeList:          list,
		ContextSize:       len(list),
		ProximityPosition: 1,
		Xpath:             xpath.NewContext(root),
	}
	out, err := applySortKeys(ctx, list, []*xml.Element{sortKey})
	if err != nil {
		t.Fatalf("sort: %s", err)
	}
	want := []xml.Node{n30, n10, n2}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("position %d: want %v, got %v", i, want[i], out[i])
		}
	}
}

// No xsl:sort children leaves the node-list in document order.
func TestApplySortKeysEmpty(t *testing.T) {
	root := xml.NewElement(xml.LocalName("r"))
	a := xml.NewElement(xml.LocalName("a"))
	b := xml.NewElement(xml.LocalName("b"))
	root.Append(a)
	root.Append(b)
	list := []xml.Node{a, b}
	ctx := &Context{Node: root, NodeList: list, ContextSize: 2, ProximityPosition: 1, Xpath: xpath.NewContext(root)}

	out, err := applySortKeys(ctx, list, nil)
	if err != nil {
		t.Fatalf("sort: %s", err)
	}
	if out[0] != a || out[1] != b {
		t.Errorf("order changed with no sort keys: %v", out)
	}
}
