package xpath

import (
	"fmt"
	"math"

	"github.com/brejoc/xslt1/xml"
)

func (p *locationPath) Eval(ctx *Context) (Sequence, error) {
	nodes := []xml.Node{ctx.Node}
	if p.absolute {
		nodes = []xml.Node{ctx.Root().Node}
	}
	for _, s := range p.steps {
		next, err := s.run(ctx, nodes)
		if err != nil {
			return Sequence{}, err
		}
		nodes = next
	}
	return NodeSet(dedupe(nodes)), nil
}

func (s *step) run(ctx *Context, from []xml.Node) ([]xml.Node, error) {
	var candidates []xml.Node
	for _, n := range from {
		candidates = append(candidates, s.axisNodes(n)...)
	}
	var matched []xml.Node
	for _, n := range candidates {
		if s.test.match(n) {
			matched = append(matched, n)
		}
	}
	for _, pred := range s.predicates {
		var err error
		matched, err = filterByPredicate(ctx, matched, pred)
		if err != nil {
			return nil, err
		}
	}
	return matched, nil
}

func (s *step) axisNodes(n xml.Node) []xml.Node {
	switch s.axis {
	case "child", "":
		return childAxis(n)
	case "descendant":
		return descendantAxis(n, false)
	case "descendant-or-self":
		return descendantAxis(n, true)
	case "attribute":
		return attributeAxis(n)
	case "parent":
		return parentAxis(n)
	case "ancestor":
		return ancestorAxis(n, false)
	case "ancestor-or-self":
		return ancestorAxis(n, true)
	case "self":
		return []xml.Node{n}
	case "following-sibling":
		return followingSiblingAxis(n)
	case "preceding-sibling":
		return precedingSiblingAxis(n)
	default:
		return nil
	}
}

// filterByPredicate applies a predicate to a node-list, using document
// position within that list as XPath's proximity-position/context-size
// when the predicate is a bare number (the "[n]" shorthand for
// position()=n) and the general boolean coercion otherwise.
func filterByPredicate(ctx *Context, nodes []xml.Node, pred Expr) ([]xml.Node, error) {
	var out []xml.Node
	for i, n := range nodes {
		sub := ctx.Sub(n, i+1, len(nodes))
		v, err := pred.Eval(sub)
		if err != nil {
			return nil, err
		}
		keep := v.Bool()
		if v.Scalar != nil {
			if f, ok := v.Scalar.(float64); ok {
				keep = int(f) == i+1
			}
		}
		if keep {
			out = append(out, n)
		}
	}
	return out, nil
}

func dedupe(nodes []xml.Node) []xml.Node {
	seen := make(map[xml.Node]bool, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (f *filterExpr) Eval(ctx *Context) (Sequence, error) {
	v, err := f.primary.Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	if len(f.predicates) == 0 {
		return v, nil
	}
	if !v.IsNodeSet() {
		return v, nil
	}
	nodes := v.Nodes
	for _, pred := range f.predicates {
		nodes, err = filterByPredicate(ctx, nodes, pred)
		if err != nil {
			return Sequence{}, err
		}
	}
	return NodeSet(nodes), nil
}

func (b *binaryExpr) Eval(ctx *Context) (Sequence, error) {
	if b.op == opOr {
		l, err := b.left.Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		if l.Bool() {
			return BoolValue(true), nil
		}
		r, err := b.right.Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		return BoolValue(r.Bool()), nil
	}
	if b.op == opAnd {
		l, err := b.left.Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		if !l.Bool() {
			return BoolValue(false), nil
		}
		r, err := b.right.Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		return BoolValue(r.Bool()), nil
	}

	l, err := b.left.Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	r, err := b.right.Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}

	switch b.op {
	case opUnion:
		if !l.IsNodeSet() || !r.IsNodeSet() {
			return Sequence{}, fmt.Errorf("xpath: | requires node-sets")
		}
		return NodeSet(dedupe(append(append([]xml.Node{}, l.Nodes...), r.Nodes...))), nil
	case opEq, opNe:
		eq := compareEqual(l, r)
		if b.op == opNe {
			return BoolValue(!eq), nil
		}
		return BoolValue(eq), nil
	case opLt, opLe, opGt, opGe:
		return BoolValue(compareOrder(b.op, l, r)), nil
	case opAdd:
		return NumberValue(l.Number() + r.Number()), nil
	case opSub:
		return NumberValue(l.Number() - r.Number()), nil
	case opMul:
		return NumberValue(l.Number() * r.Number()), nil
	case opDiv:
		return NumberValue(l.Number() / r.Number()), nil
	case opMod:
		return NumberValue(math.Mod(l.Number(), r.Number())), nil
	default:
		return Sequence{}, fmt.Errorf("xpath: unknown operator")
	}
}

func compareEqual(l, r Sequence) bool {
	if l.IsNodeSet() && r.IsNodeSet() {
		for _, a := range l.Nodes {
			for _, b := range r.Nodes {
				if a.Value() == b.Value() {
					return true
				}
			}
		}
		return false
	}
	if l.IsNodeSet() || r.IsNodeSet() {
		set, other := l, r
		if r.IsNodeSet() {
			set, other = r, l
		}
		for _, n := range set.Nodes {
			if coerceLike(other, n.Value()) {
				return true
			}
		}
		return false
	}
	if isBool(l) || isBool(r) {
		return l.Bool() == r.Bool()
	}
	if isNumber(l) || isNumber(r) {
		return l.Number() == r.Number()
	}
	return l.String() == r.String()
}

func coerceLike(other Sequence, nodeValue string) bool {
	if isNumber(other) {
		return other.Number() == StringValue(nodeValue).Number()
	}
	return other.String() == nodeValue
}

func isBool(s Sequence) bool {
	_, ok := s.Scalar.(bool)
	return ok
}

func isNumber(s Sequence) bool {
	_, ok := s.Scalar.(float64)
	return ok
}

func compareOrder(op binaryOp, l, r Sequence) bool {
	a, b := l.Number(), r.Number()
	switch op {
	case opLt:
		return a < b
	case opLe:
		return a <= b
	case opGt:
		return a > b
	case opGe:
		return a >= b
	default:
		return false
	}
}
