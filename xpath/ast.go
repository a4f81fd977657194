package xpath

import "github.com/brejoc/xslt1/xml"

// Expr is a compiled XPath expression. Eval must not mutate ctx; step
// evaluation builds fresh sub-contexts via Context.Sub.
type Expr interface {
	Eval(ctx *Context) (Sequence, error)
}

type locationPath struct {
	absolute bool
	steps    []*step
}

type step struct {
	axis       string
	test       nodeTest
	predicates []Expr
}

type nodeTest interface {
	match(n xml.Node) bool
}

type nameTest struct {
	name string
}

func (t nameTest) match(n xml.Node) bool {
	switch n.Type() {
	case xml.TypeElement, xml.TypeAttribute, xml.TypeInstruction:
		return n.LocalName() == t.name
	default:
		return false
	}
}

type wildcardTest struct{}

func (wildcardTest) match(n xml.Node) bool {
	switch n.Type() {
	case xml.TypeElement, xml.TypeAttribute:
		return true
	default:
		return false
	}
}

type kindTest struct {
	kind string // "node", "text", "comment", "processing-instruction", "*"
}

func (t kindTest) match(n xml.Node) bool {
	switch t.kind {
	case "node":
		return true
	case "text":
		return n.Type() == xml.TypeText || n.Type() == xml.TypeCDATA
	case "comment":
		return n.Type() == xml.TypeComment
	case "processing-instruction":
		return n.Type() == xml.TypeInstruction
	default:
		return false
	}
}

type literalString string

func (l literalString) Eval(*Context) (Sequence, error) {
	return StringValue(string(l)), nil
}

type literalNumber float64

func (l literalNumber) Eval(*Context) (Sequence, error) {
	return NumberValue(float64(l)), nil
}

type variableRef string

func (v variableRef) Eval(ctx *Context) (Sequence, error) {
	return ctx.Resolve(string(v))
}

type binaryOp int

const (
	opOr binaryOp = iota
	opAnd
	opEq
	opNe
	opLt
	opLe
	opGt
	opGe
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opUnion
)

type binaryExpr struct {
	op    binaryOp
	left  Expr
	right Expr
}

type unaryMinus struct {
	operand Expr
}

func (u unaryMinus) Eval(ctx *Context) (Sequence, error) {
	v, err := u.operand.Eval(ctx)
	if err != nil {
		return Sequence{}, err
	}
	return NumberValue(-v.Number()), nil
}

type functionCall struct {
	name string
	args []Expr
}

type filterExpr struct {
	primary    Expr
	predicates []Expr
}
