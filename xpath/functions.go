package xpath

import (
	"fmt"
	"strings"

	"github.com/brejoc/xslt1/xml"
)

type builtinFunc func(ctx *Context, args []Expr) (Sequence, error)

var builtins = map[string]builtinFunc{
	"last":            fnLast,
	"position":        fnPosition,
	"count":           fnCount,
	"not":             fnNot,
	"true":            fnTrue,
	"false":           fnFalse,
	"string":          fnString,
	"number":          fnNumber,
	"boolean":         fnBoolean,
	"name":            fnName,
	"local-name":      fnLocalName,
	"concat":          fnConcat,
	"contains":        fnContains,
	"starts-with":     fnStartsWith,
	"substring":       fnSubstring,
	"substring-before": fnSubstringBefore,
	"substring-after":  fnSubstringAfter,
	"string-length":   fnStringLength,
	"normalize-space": fnNormalizeSpace,
	"sum":             fnSum,
}

func (f *functionCall) Eval(ctx *Context) (Sequence, error) {
	fn, ok := builtins[f.name]
	if !ok {
		return Sequence{}, fmt.Errorf("xpath: unknown function %s()", f.name)
	}
	return fn(ctx, f.args)
}

func evalEach(ctx *Context, args []Expr) ([]Sequence, error) {
	out := make([]Sequence, len(args))
	for i, a := range args {
		v, err := a.Eval(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func fnLast(ctx *Context, args []Expr) (Sequence, error) {
	return NumberValue(float64(ctx.Size)), nil
}

func fnPosition(ctx *Context, args []Expr) (Sequence, error) {
	return NumberValue(float64(ctx.Pos)), nil
}

func fnCount(ctx *Context, args []Expr) (Sequence, error) {
	if len(args) != 1 {
		return Sequence{}, fmt.Errorf("xpath: count() takes one argument")
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	return NumberValue(float64(len(v.Nodes))), nil
}

func fnNot(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	return BoolValue(!vs[0].Bool()), nil
}

func fnTrue(ctx *Context, args []Expr) (Sequence, error)  { return BoolValue(true), nil }
func fnFalse(ctx *Context, args []Expr) (Sequence, error) { return BoolValue(false), nil }

func fnString(ctx *Context, args []Expr) (Sequence, error) {
	if len(args) == 0 {
		return StringValue(NodeSet([]xml.Node{ctx.Node}).String()), nil
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	return StringValue(v.String()), nil
}

func fnNumber(ctx *Context, args []Expr) (Sequence, error) {
	if len(args) == 0 {
		return NumberValue(NodeSet([]xml.Node{ctx.Node}).Number()), nil
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	return NumberValue(v.Number()), nil
}

func fnBoolean(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	return BoolValue(vs[0].Bool()), nil
}

func fnName(ctx *Context, args []Expr) (Sequence, error) {
	n := ctx.Node
	if len(args) > 0 {
		v, err := args[0].Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		n = v.First()
	}
	if n == nil {
		return StringValue(""), nil
	}
	return StringValue(n.QualifiedName()), nil
}

func fnLocalName(ctx *Context, args []Expr) (Sequence, error) {
	n := ctx.Node
	if len(args) > 0 {
		v, err := args[0].Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		n = v.First()
	}
	if n == nil {
		return StringValue(""), nil
	}
	return StringValue(n.LocalName()), nil
}

func fnConcat(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	var sb strings.Builder
	for _, v := range vs {
		sb.WriteString(v.String())
	}
	return StringValue(sb.String()), nil
}

func fnContains(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	return BoolValue(strings.Contains(vs[0].String(), vs[1].String())), nil
}

func fnStartsWith(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	return BoolValue(strings.HasPrefix(vs[0].String(), vs[1].String())), nil
}

func fnSubstringBefore(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	before, _, found := strings.Cut(vs[0].String(), vs[1].String())
	if !found {
		return StringValue(""), nil
	}
	return StringValue(before), nil
}

func fnSubstringAfter(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	_, after, found := strings.Cut(vs[0].String(), vs[1].String())
	if !found {
		return StringValue(""), nil
	}
	return StringValue(after), nil
}

func fnSubstring(ctx *Context, args []Expr) (Sequence, error) {
	vs, err := evalEach(ctx, args)
	if err != nil {
		return Sequence{}, err
	}
	str := []rune(vs[0].String())
	start := int(vs[1].Number() + 0.5)
	length := len(str) - start + 1
	if len(vs) > 2 {
		length = int(vs[2].Number() + 0.5)
	}
	begin := start - 1
	if begin < 0 {
		length += begin
		begin = 0
	}
	if begin >= len(str) || length <= 0 {
		return StringValue(""), nil
	}
	end := begin + length
	if end > len(str) {
		end = len(str)
	}
	return StringValue(string(str[begin:end])), nil
}

func fnStringLength(ctx *Context, args []Expr) (Sequence, error) {
	str := NodeSet([]xml.Node{ctx.Node}).String()
	if len(args) > 0 {
		v, err := args[0].Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		str = v.String()
	}
	return NumberValue(float64(len([]rune(str)))), nil
}

func fnNormalizeSpace(ctx *Context, args []Expr) (Sequence, error) {
	str := NodeSet([]xml.Node{ctx.Node}).String()
	if len(args) > 0 {
		v, err := args[0].Eval(ctx)
		if err != nil {
			return Sequence{}, err
		}
		str = v.String()
	}
	return StringValue(strings.Join(strings.Fields(str), " ")), nil
}

func fnSum(ctx *Context, args []Expr) (Sequence, error) {
	if len(args) != 1 {
		return Sequence{}, fmt.Errorf("xpath: sum() takes one argument")
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	var total float64
	for _, n := range v.Nodes {
		total += StringValue(n.Value()).Number()
	}
	return NumberValue(total), nil
}
