// Package xpath implements the XPath 1.0 expression language used to
// drive template matching and the value-producing instructions of the
// xslt package: node-set/string/number/boolean typed values, a dynamic
// evaluation context (context node, position, size, variable bindings)
// and a compact recursive-descent parser/evaluator for the 1.0 grammar.
package xpath

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/brejoc/xslt1/xml"
)

// Sequence is an ordered XPath node-set (and also doubles, in this
// implementation, as the carrier for a singleton string/number/boolean
// result: those use a nil Nodes slice with Scalar set).
type Sequence struct {
	Nodes  []xml.Node
	Scalar any // nil, string, float64 or bool when this is not a node-set
}

func NodeSet(nodes []xml.Node) Sequence {
	return Sequence{Nodes: nodes}
}

func StringValue(s string) Sequence {
	return Sequence{Scalar: s}
}

func NumberValue(n float64) Sequence {
	return Sequence{Scalar: n}
}

func BoolValue(b bool) Sequence {
	return Sequence{Scalar: b}
}

func (s Sequence) IsNodeSet() bool {
	return s.Scalar == nil
}

// First returns the first node in document order, or nil.
func (s Sequence) First() xml.Node {
	if len(s.Nodes) == 0 {
		return nil
	}
	first := s.Nodes[0]
	for _, n := range s.Nodes[1:] {
		if xml.Before(n, first) {
			first = n
		}
	}
	return first
}

// String coerces the sequence per the XPath 1.0 string() rules: a
// node-set takes the string-value of its first node in document order,
// a number formats per the XPath number-to-string rules, a boolean
// yields "true"/"false".
func (s Sequence) String() string {
	switch v := s.Scalar.(type) {
	case nil:
		if len(s.Nodes) == 0 {
			return ""
		}
		return s.First().Value()
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Number coerces per the XPath 1.0 number() rules.
func (s Sequence) Number() float64 {
	switch v := s.Scalar.(type) {
	case nil:
		str := strings.TrimSpace(s.String())
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Bool coerces per the XPath 1.0 boolean() rules: a non-empty node-set
// is true, a non-zero non-NaN number is true, a non-empty string is
// true.
func (s Sequence) Bool() bool {
	switch v := s.Scalar.(type) {
	case nil:
		return len(s.Nodes) > 0
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return false
	}
}

// Sorted returns the node-set ordered by document position.
func (s Sequence) Sorted() []xml.Node {
	out := make([]xml.Node, len(s.Nodes))
	copy(out, s.Nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return xml.Before(out[i], out[j])
	})
	return out
}
