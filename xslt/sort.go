package xslt

import (
	"sort"

	"github.com/brejoc/xslt1/xml"
)

// sortKey is one node's computed ordering key for a single xsl:sort
// instruction: present reports whether the select expression coerced
// cleanly (an absent key always sorts last).
type sortKey struct {
	text    string
	number  float64
	present bool
}

// applySortKeys reorders list by its xsl:sort children: each one is
// applied in reverse declaration order with a stable sort, so the
// first-declared key ends up dominant (last-key-primary application of
// a stable sort yields first-key-primary output).
func applySortKeys(ctx *Context, list []xml.Node, sorts []*xml.Element) ([]xml.Node, error) {
	out := append([]xml.Node(nil), list...)
	for i := len(sorts) - 1; i >= 0; i-- {
		next, err := sortOnce(ctx, out, sorts[i])
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

func sortOnce(ctx *Context, list []xml.Node, el *xml.Element) ([]xml.Node, error) {
	dataType := "text"
	if raw, ok := attr(el, "data-type"); ok {
		v, err := evalAVT(ctx, raw)
		if err != nil {
			return nil, err
		}
		if v != "" {
			dataType = v
		}
	}
	order := "ascending"
	if raw, ok := attr(el, "order"); ok {
		v, err := evalAVT(ctx, raw)
		if err != nil {
			return nil, err
		}
		if v != "" {
			order = v
		}
	}
	selectExpr, ok := attr(el, "select")
	if !ok {
		selectExpr = "."
	}
	numeric := dataType == "number"
	descending := order == "descending"

	type entry struct {
		node xml.Node
		key  sortKey
	}
	entries := make([]entry, len(list))
	for i, n := range list {
		sub := ctx.WithNodeList(list, i+1)
		seq, err := sub.Eval(selectExpr)
		if err != nil {
			entries[i] = entry{node: n}
			continue
		}
		if numeric {
			v := seq.Number()
			entries[i] = entry{node: n, key: sortKey{number: v, present: !isNaN(v)}}
		} else {
			entries[i] = entry{node: n, key: sortKey{text: seq.String(), present: true}}
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		ka, kb := entries[a].key, entries[b].key
		if !ka.present || !kb.present {
			return ka.present && !kb.present
		}
		if numeric {
			if descending {
				return ka.number > kb.number
			}
			return ka.number < kb.number
		}
		if descending {
			return ka.text > kb.text
		}
		return ka.text < kb.text
	})
	out := make([]xml.Node, len(entries))
	for i, e := range entries {
		out[i] = e.node
	}
	return out, nil
}

func isNaN(f float64) bool {
	return f != f
}
