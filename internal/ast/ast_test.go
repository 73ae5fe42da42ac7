package ast

import (
	"math/big"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/config"
)

func TestBinOpTables(t *testing.T) {
	// every operator known to a dialect has a spelling there
	for _, d := range []config.Dialect{config.Classic, config.Extended} {
		for _, op := range BinOps() {
			if op.Info(d).Prec == 0 {
				assert.Equal(t, "", op.Symbol(d), "%s in %s", op, d)
				continue
			}
			assert.NotEqual(t, "", op.Symbol(d), "%s in %s", op, d)
		}
	}

	assert.Equal(t, OpInfo{Prec: 8, Assoc: RightAssoc}, OpConcat.Info(config.Classic))
	assert.Equal(t, OpInfo{Prec: 9, Assoc: LeftAssoc}, OpConcat.Info(config.Extended))
	assert.True(t, OpPow.Info(config.Classic).Prec > PreNeg.Prec(config.Classic))
	assert.True(t, OpMul.Info(config.Classic).Prec < PreNeg.Prec(config.Classic))
	assert.Equal(t, 0, OpAs.Info(config.Classic).Prec)
	assert.Equal(t, "..", OpConcat.Symbol(config.Classic))
	assert.Equal(t, "++", OpConcat.Symbol(config.Extended))
	assert.Equal(t, "~=", OpNe.Symbol(config.Classic))
}

func TestUnaryTables(t *testing.T) {
	assert.Equal(t, 0, PreRef.Prec(config.Classic))
	assert.Equal(t, UnaryPrec, PreRef.Prec(config.Extended))
	assert.Equal(t, 0, PostTry.Prec(config.Classic))
	assert.Equal(t, UnaryPrec, PostDeref.Prec(config.Extended))
	assert.Equal(t, "not", PreNot.Symbol(config.Classic))
	assert.Equal(t, "!", PreNot.Symbol(config.Extended))
	assert.Equal(t, ".*", PostDeref.String())
	assert.Equal(t, "BinOp(99)", BinOp(99).String())
}

func TestNarrowestInteger(t *testing.T) {
	parse := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		assert.True(t, ok)
		return v
	}
	tests := []struct {
		value    string
		extended bool
		kind     NumberKind
		ok       bool
	}{
		{"0", false, NumI64, true},
		{"9223372036854775807", false, NumI64, true},
		{"9223372036854775808", false, 0, false},
		{"9223372036854775808", true, NumU64, true},
		{"18446744073709551616", true, NumI128, true},
		{"99999999999999999999999999999999999999", true, NumI128, true},
		{"170141183460469231731687303715884105728", true, NumU128, true},
		{"340282366920938463463374607431768211456", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			kind, ok := NarrowestInteger(parse(tt.value), tt.extended)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.kind, kind)
				n := IntNumber(kind, parse(tt.value))
				assert.Equal(t, tt.value, n.String())
			}
		})
	}
}

func TestNumberHalves(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(3), 64)
	v.Add(v, big.NewInt(7))
	n := IntNumber(NumI128, v)
	assert.Equal(t, uint64(7), n.Lo)
	assert.Equal(t, uint64(3), n.Hi)
	assert.Equal(t, 0, n.Big().Cmp(v))
	assert.Equal(t, "0.5", FloatNumber(0.5).String())
	assert.False(t, FloatNumber(1).IsInteger())
}

func TestInspect(t *testing.T) {
	leaf := func(v string) *Expression {
		return &Expression{Data: &String{Value: v}}
	}
	chain := &Expression{Data: &MultiOp{
		First: leaf("a"),
		Links: []OpLink{{Op: OpAdd, Operand: leaf("b")}},
	}}
	block := &Block{
		Statements: []*Statement{
			{Data: &Local{Values: []*Expression{chain}}},
			{Data: &Do{Block: &Block{Return: []*Expression{leaf("c")}, HasReturn: true}}},
		},
	}

	var seen []string
	Inspect(block, func(n Node) bool {
		if e, ok := n.(*Expression); ok {
			if s, ok := e.Data.(*String); ok {
				seen = append(seen, s.Value)
			}
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	seen = nil
	Inspect(block, func(n Node) bool {
		if e, ok := n.(*Expression); ok {
			if _, ok := e.Data.(*MultiOp); ok {
				return false
			}
			if s, ok := e.Data.(*String); ok {
				seen = append(seen, s.Value)
			}
		}
		return true
	})
	assert.Equal(t, []string{"c"}, seen)
}

func TestPatternBindings(t *testing.T) {
	bind := func(name string) *Pattern {
		return &Pattern{Data: &BindingPat{Binding: Binding{Name: name}}}
	}
	p := &Pattern{Data: &Destructure{Fields: []*PatternField{
		{Pattern: bind("x")},
		{Name: "y", Pattern: &Pattern{Data: &EnumPat{Elems: []*Pattern{bind("z"), {Data: &Wildcard{}}}}}},
	}}}
	var names []string
	for _, b := range p.Bindings() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"x", "z"}, names)
}

func TestSuffixedForms(t *testing.T) {
	name := &Suffixed{Base: &NameBase{Ref: NameRef{Path: []string{"a"}}}}
	assert.True(t, name.IsAssignable())
	assert.False(t, name.IsCall())

	call := &Suffixed{Base: name.Base, Suffixes: []Suffix{&CallSuffix{Args: &Args{}}}}
	assert.True(t, call.IsCall())
	assert.False(t, call.IsAssignable())

	paren := &Suffixed{Base: &ParenBase{}}
	assert.False(t, paren.IsAssignable())
	paren.Suffixes = append(paren.Suffixes, &FieldSuffix{Name: "x"})
	assert.True(t, paren.IsAssignable())
}
