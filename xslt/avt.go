package xslt

import "strings"

// evalAVT instantiates an attribute-value template: literal text
// passes through unchanged, each "{expr}" run is evaluated as an
// XPath expression against ctx and its string value substituted. A
// literal "{{" / "}}" escapes a brace (not used by the stylesheet
// compiler's own AVTs but kept symmetrical with XSLT's AVT grammar).
func evalAVT(ctx *Context, raw string) (string, error) {
	var out strings.Builder
	for {
		lit, expr, ok := nextAVTChunk(raw)
		out.WriteString(lit)
		if !ok {
			break
		}
		seq, err := ctx.Eval(expr)
		if err != nil {
			return "", err
		}
		out.WriteString(seq.String())
		raw = raw[len(lit)+len(expr)+2:]
	}
	return out.String(), nil
}

// nextAVTChunk splits off the literal text up to (not including) the
// next "{...}" substitution in raw, returning the substitution's inner
// expression and whether one was found.
func nextAVTChunk(raw string) (lit, expr string, ok bool) {
	i := strings.IndexByte(raw, '{')
	if i < 0 {
		return raw, "", false
	}
	j := strings.IndexByte(raw[i+1:], '}')
	if j < 0 {
		return raw, "", false
	}
	return raw[:i], raw[i+1 : i+1+j], true
}
