package xslt

import (
	"strings"

	"github.com/brejoc/xslt1/xml"
	"github.com/brejoc/xslt1/xpath"
)

// Matcher answers, for one compiled match pattern, whether a source
// node satisfies it. Pattern matching is a narrow, consumed service
// per the core's external-interface boundary (find_template_for_node);
// this is the simplest policy that satisfies it, built on top of the
// xpath package's own path evaluator rather than a bespoke grammar.
type Matcher interface {
	Match(node xml.Node) bool
}

// patternMatcher evaluates a union of location-path alternatives by
// rewriting each relative alternative into an absolute "//alt" search
// from the document root and testing set membership. This reuses the
// xpath evaluator's axis/predicate/position semantics verbatim instead
// of re-implementing a second, reversed pattern grammar.
type patternMatcher struct {
	alts []xpath.Expr
}

// compilePattern parses a (possibly "|"-unioned) XSLT match pattern
// and returns a Matcher plus its default conflict-resolution priority,
// computed per the XSLT 1.0 recommendation's rules (section 5.5).
func compilePattern(pattern string) (Matcher, float64, error) {
	parts := splitUnion(pattern)
	m := &patternMatcher{}
	priority := 0.5
	if len(parts) == 1 {
		priority = defaultPriority(strings.TrimSpace(parts[0]))
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		search := part
		if !strings.HasPrefix(search, "/") {
			search = "//" + search
		}
		expr, err := xpath.Compile(search)
		if err != nil {
			return nil, 0, err
		}
		m.alts = append(m.alts, expr)
	}
	return m, priority, nil
}

func (m *patternMatcher) Match(node xml.Node) bool {
	if node == nil {
		return false
	}
	xctx := xpath.NewContext(node)
	for _, alt := range m.alts {
		seq, err := alt.Eval(xctx)
		if err != nil || !seq.IsNodeSet() {
			continue
		}
		for _, n := range seq.Nodes {
			if n == node {
				return true
			}
		}
	}
	return false
}

// splitUnion splits a pattern on top-level "|" characters, i.e. not
// inside a "[...]" predicate.
func splitUnion(pattern string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range pattern {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, pattern[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, pattern[start:])
	return parts
}

// defaultPriority implements the XSLT 1.0 default-priority table for a
// single (non-union) pattern: -0.5 for a bare node-type test or "*",
// -0.25 for a "prefix:*" step, 0 for a plain QName step, and 0.5 for
// anything with more than one step, a non-child axis or a predicate.
func defaultPriority(pattern string) float64 {
	if strings.Contains(pattern, "/") || strings.Contains(pattern, "::") {
		return 0.5
	}
	last := pattern
	if strings.Contains(last, "[") {
		return 0.5
	}
	if strings.HasPrefix(last, "@") {
		last = last[1:]
		if last == "*" {
			return -0.5
		}
		if strings.HasSuffix(last, ":*") {
			return -0.25
		}
		return 0
	}
	switch {
	case last == "*":
		return -0.5
	case last == "node()" || last == "text()" || last == "comment()":
		return -0.5
	case last == "processing-instruction()":
		return -0.5
	case strings.HasSuffix(last, ":*"):
		return -0.25
	case strings.Contains(last, "()"):
		return 0.5
	default:
		return 0
	}
}
