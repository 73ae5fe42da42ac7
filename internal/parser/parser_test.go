package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/oporder"
	"github.com/luma-lang/luma/internal/position"
)

func parse(t *testing.T, src string, d config.Dialect) *File {
	t.Helper()
	f, err := Parse([]byte(src), "test.lua", config.DefaultOptions(d))
	assert.NoError(t, err)
	return f
}

func parseErr(t *testing.T, src string, d config.Dialect) (*File, diagnostics.List) {
	t.Helper()
	f, err := Parse([]byte(src), "test.lua", config.DefaultOptions(d))
	assert.Error(t, err)
	var list diagnostics.List
	assert.True(t, errors.As(err, &list))
	return f, list
}

func stmtTypes(b *ast.Block) []string {
	out := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		out[i] = reflect.TypeOf(s.Data).Elem().Name()
	}
	return out
}

// refs collects every name reference of node, in source order
func refs(node ast.Node) []*ast.NameRef {
	var out []*ast.NameRef
	addBase := func(s *ast.Suffixed) {
		if nb, ok := s.Base.(*ast.NameBase); ok {
			out = append(out, &nb.Ref)
		}
	}
	ast.Inspect(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Statement:
			switch d := n.Data.(type) {
			case *ast.Call:
				addBase(d.Call)
			case *ast.Assign:
				for _, t := range d.Targets {
					addBase(t)
				}
			}
		case *ast.Expression:
			if s, ok := n.Data.(*ast.Suffixed); ok {
				addBase(s)
			}
		}
		return true
	})
	return out
}

func findRef(t *testing.T, node ast.Node, name string) *ast.NameRef {
	t.Helper()
	for _, r := range refs(node) {
		if r.Name() == name {
			return r
		}
	}
	t.Fatalf("no reference to %q", name)
	return nil
}

func TestClassicStatements(t *testing.T) {
	src := `#!/usr/bin/env lua
local a <const>, b = 1, 2
::top::
a, b = b, a
do end
while a do break end
repeat local z = 1 until z
if a then elseif b then else end
for i = 1, 10, 2 do end
for k, v in pairs(t) do end
function m.n:o() end
local function f() end
goto top
print "x";
return a
`
	f := parse(t, src, config.Classic)
	assert.Equal(t, []string{
		"Local", "Label", "Assign", "Do", "While", "Repeat", "If", "ForNum",
		"ForIn", "FuncDef", "LocalFunc", "Goto", "Call", "Empty",
	}, stmtTypes(f.Block))
	assert.True(t, f.Block.HasReturn)
	assert.Equal(t, 1, len(f.Block.Return))

	local := f.Block.Statements[0].Data.(*ast.Local)
	assert.Equal(t, ast.AttribConst, local.Names[0].Attrib)
	assert.Equal(t, ast.AttribNone, local.Names[1].Attrib)
	assert.Equal(t, 2, local.Names[0].Pos.Line)

	rep := f.Block.Statements[5].Data.(*ast.Repeat)
	z := findRef(t, rep.Cond, "z")
	assert.True(t, z.Local)
	assert.Equal(t, 0, z.Hops)

	ifs := f.Block.Statements[6].Data.(*ast.If)
	assert.Equal(t, 2, len(ifs.Arms))
	assert.NotZero(t, ifs.Else)

	def := f.Block.Statements[9].Data.(*ast.FuncDef)
	assert.Equal(t, []string{"n"}, def.Fields)
	assert.Equal(t, "o", def.Method)
	assert.Equal(t, "self", def.Func.Params[0].Name)
	assert.True(t, def.Name.Symbol.IsUnknown())

	call := f.Block.Statements[12].Data.(*ast.Call)
	args := call.Call.Suffixes[0].(*ast.CallSuffix).Args
	assert.Equal(t, ast.ArgsString, args.Kind)
	assert.Equal(t, "x", args.String)
}

func TestTableConstructor(t *testing.T) {
	f := parse(t, `local t = {1, x = 2; [k] = 3, f = function() end,}`, config.Classic)
	tab := f.Block.Statements[0].Data.(*ast.Local).Values[0].Data.(*ast.Table)
	kinds := make([]ast.FieldKind, len(tab.Fields))
	for i, fl := range tab.Fields {
		kinds[i] = fl.Kind
	}
	assert.Equal(t, []ast.FieldKind{ast.FieldPositional, ast.FieldNamed, ast.FieldKeyed, ast.FieldNamed}, kinds)
	assert.Equal(t, "x", tab.Fields[1].Name)
}

func TestExtendedDeclarations(t *testing.T) {
	src := `use std::io::{self, Read as R};
pub mod shapes {
    pub struct Point<T> { pub x: T, y: T }
    enum Kind { A, B(i32), C { v: f64 }, D = 4 }
    trait Area: Shape { fn area(&self) -> f64; }
    impl Area for Point<f64> {
        pub fn area(&self) -> f64 { return 0.0 }
    }
    type Grid<T> = [T; 4];
    const MAX: i32 = 10;
}
let mut total: i32 = 0
loop { break }
for x in items { continue }
drop total
`
	f := parse(t, src, config.Extended)
	assert.Equal(t, []string{"Use", "Mod", "Let", "Loop", "ForIn", "Drop"}, stmtTypes(f.Block))

	use := f.Block.Statements[0].Data.(*ast.Use)
	assert.Equal(t, []string{"std", "io"}, use.Path)
	assert.Equal(t, 2, len(use.Items))
	assert.Equal(t, "self", use.Items[0].Name())
	assert.Equal(t, "R", use.Items[1].Name())

	mod := f.Block.Statements[1].Data.(*ast.Mod)
	assert.Equal(t, ast.Public, mod.Vis)
	assert.Equal(t, "test::shapes", f.Symbols.Describe(mod.Name.Symbol))
	assert.Equal(t, []string{"Struct", "Enum", "Trait", "Impl", "TypeAlias", "Const"}, stmtTypes(mod.Body))

	st := mod.Body.Statements[0].Data.(*ast.Struct)
	assert.Equal(t, []string{"T"}, st.Generics)
	assert.Equal(t, 2, len(st.Fields))
	assert.Equal(t, ast.Public, st.Fields[0].Vis)
	assert.Equal(t, ast.Private, st.Fields[1].Vis)
	assert.Equal(t, "test::shapes::Point", f.Symbols.Describe(st.Name.Symbol))

	en := mod.Body.Statements[1].Data.(*ast.Enum)
	assert.Equal(t, 4, len(en.Variants))
	assert.Equal(t, 1, len(en.Variants[1].Tuple))
	assert.Equal(t, 1, len(en.Variants[2].Fields))
	assert.NotZero(t, en.Variants[3].Value)

	tr := mod.Body.Statements[2].Data.(*ast.Trait)
	assert.Equal(t, 1, len(tr.Supers))
	assert.Equal(t, "&self", tr.Methods[0].SelfParam)
	assert.Zero(t, tr.Methods[0].Func.Body)

	impl := mod.Body.Statements[3].Data.(*ast.Impl)
	assert.NotZero(t, impl.Trait)
	assert.Equal(t, ast.Public, impl.Methods[0].Vis)
	assert.True(t, impl.Methods[0].Func.Body.HasReturn)

	alias := mod.Body.Statements[4].Data.(*ast.TypeAlias)
	_, ok := alias.Type.Data.(*ast.ArrayType)
	assert.True(t, ok)

	let := f.Block.Statements[2].Data.(*ast.Let)
	bp := let.Pattern.Data.(*ast.BindingPat)
	assert.True(t, bp.Mut)
	assert.NotZero(t, bp.Type)
	assert.Zero(t, let.Type)

	loop := f.Block.Statements[4].Data.(*ast.ForIn)
	assert.NotZero(t, loop.Pattern)
	assert.Equal(t, []string{"Continue"}, stmtTypes(loop.Block))
}

func TestRecursiveFunctionResolution(t *testing.T) {
	src := `fn fact(n: i32) -> i32 {
    if n <= 1 { return 1 }
    return n * fact(n - 1)
}`
	f := parse(t, src, config.Extended)
	def := f.Block.Statements[0].Data.(*ast.FuncDef)
	ref := findRef(t, def.Func.Body, "fact")
	assert.True(t, ref.Local)
	assert.Equal(t, 1, ref.Hops)
	assert.Equal(t, def.Name.Symbol, ref.Symbol)

	n := findRef(t, def.Func.Body, "n")
	assert.Equal(t, def.Func.Params[0].Symbol, n.Symbol)
	assert.Equal(t, "test::fact::n", f.Symbols.Describe(n.Symbol))
}

func TestClosureHops(t *testing.T) {
	src := `local x = 1
local function f()
  return function() return x end
end
print(y)`
	f := parse(t, src, config.Classic)
	lf := f.Block.Statements[1].Data.(*ast.LocalFunc)
	x := findRef(t, lf.Func.Body, "x")
	assert.Equal(t, 2, x.Hops)
	assert.Equal(t, f.Block.Statements[0].Data.(*ast.Local).Names[0].Symbol, x.Symbol)

	y := findRef(t, f.Block, "y")
	assert.False(t, y.Local)
	assert.True(t, y.Symbol.IsUnknown())
	assert.Equal(t, "?::y", f.Symbols.Describe(y.Symbol))
}

func TestLocalValuesSeeOuterName(t *testing.T) {
	f := parse(t, "local x = 1\ndo local x = x end", config.Classic)
	outer := f.Block.Statements[0].Data.(*ast.Local).Names[0].Symbol
	inner := f.Block.Statements[1].Data.(*ast.Do).Block.Statements[0].Data.(*ast.Local)
	ref := findRef(t, inner.Values[0], "x")
	assert.Equal(t, outer, ref.Symbol)
	assert.NotEqual(t, outer, inner.Names[0].Symbol)
}

func TestWildcardStopsLookup(t *testing.T) {
	src := `let x = 1
fn f() {
    use other::*
    return x
}`
	f := parse(t, src, config.Extended)
	def := f.Block.Statements[1].Data.(*ast.FuncDef)
	x := findRef(t, def.Func.Body, "x")
	assert.True(t, x.Symbol.IsUnknown())
}

func TestMatchArms(t *testing.T) {
	src := `match v {
    Some(x) if x > 0 => x,
    1 ..= 9 | 20 => 0,
    _ => { print("other") }
}`
	f := parse(t, src, config.Extended)
	m := f.Block.Statements[0].Data.(*ast.Match).Match
	assert.Equal(t, 3, len(m.Arms))

	ep := m.Arms[0].Pattern.Data.(*ast.EnumPat)
	assert.Equal(t, "Some", ep.Ref.Name())
	guard := findRef(t, m.Arms[0].Guard, "x")
	assert.Equal(t, 0, guard.Hops)
	assert.Equal(t, ep.Elems[0].Data.(*ast.BindingPat).Symbol, guard.Symbol)

	alt := m.Arms[1].Pattern.Data.(*ast.AltPat)
	rng := alt.Alts[0].Data.(*ast.RangePat)
	assert.True(t, rng.Inclusive)

	_, ok := m.Arms[2].Pattern.Data.(*ast.Wildcard)
	assert.True(t, ok)
	assert.NotZero(t, m.Arms[2].Block)
}

func TestRecoveryRecordsOneError(t *testing.T) {
	src := "function f() x = = 1 end\nlocal y = 2\n"
	f, errs := parseErr(t, src, config.Classic)
	assert.Equal(t, 1, errs.Len())
	assert.Equal(t, diagnostics.KindUnexpectedCharacter, errs[0].Kind)
	assert.Equal(t, []string{"FuncDef", "Local"}, stmtTypes(f.Block))
	def := f.Block.Statements[0].Data.(*ast.FuncDef)
	assert.True(t, def.Func.Failed)
}

func TestRecoveryExtended(t *testing.T) {
	src := `fn f() {
    let ok = "}"
    let = 1
}
fn g() { return 1 }`
	f, errs := parseErr(t, src, config.Extended)
	assert.Equal(t, 1, errs.Len())
	assert.Equal(t, 3, errs[0].Pos.Line)
	assert.Equal(t, []string{"FuncDef", "FuncDef"}, stmtTypes(f.Block))
	first := f.Block.Statements[0].Data.(*ast.FuncDef)
	assert.True(t, first.Func.Failed)
	// the statement parsed before the error is kept
	assert.Equal(t, []string{"Let"}, stmtTypes(first.Func.Body))
	assert.False(t, f.Block.Statements[1].Data.(*ast.FuncDef).Func.Failed)
}

func TestFailedRecovery(t *testing.T) {
	src := "local a = 1\nfunction f()\n  x = = 1\n"
	_, errs := parseErr(t, src, config.Classic)
	assert.Equal(t, 1, errs.Len())
	assert.Equal(t, diagnostics.KindFailedRecovery, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Pos.Line)
	assert.Equal(t, 1, errs[0].Pos.Column)
	assert.True(t, errors.Is(errs, diagnostics.ErrFailedRecovery))
}

func TestUnterminatedCommentAfterStatement(t *testing.T) {
	_, errs := parseErr(t, "local a = 1 --[[ never closed", config.Classic)
	assert.Equal(t, 1, errs.Len())
	assert.Equal(t, diagnostics.KindUnexpectedFileEnd, errs[0].Kind)
}

func TestKeywordSuggestion(t *testing.T) {
	_, errs := parseErr(t, "whle x do end", config.Classic)
	assert.Contains(t, errs[0].Message, `did you mean "while"?`)
}

func TestReservedNames(t *testing.T) {
	_, errs := parseErr(t, "local end = 1", config.Classic)
	assert.Equal(t, diagnostics.KindReservedName, errs[0].Kind)

	// goto is a plain name in the extended grammar
	parse(t, "let goto = 1", config.Extended)
	_, errs = parseErr(t, "local x = 1", config.Extended)
	assert.Equal(t, diagnostics.KindReservedName, errs[0].Kind)
}

func TestSpacedStringCalls(t *testing.T) {
	opts := config.DefaultOptions(config.Classic)
	opts.SpacedStringCalls = true
	_, err := Parse([]byte(`print"x"`), "test.lua", opts)
	assert.True(t, errors.Is(err, diagnostics.ErrUnexpectedCharacter))
	_, err = Parse([]byte(`print "x"`), "test.lua", opts)
	assert.NoError(t, err)
	_, err = Parse([]byte(`print"x"`), "test.lua", config.DefaultOptions(config.Classic))
	assert.NoError(t, err)
}

func leaf(e *ast.Expression) string {
	switch d := e.Data.(type) {
	case *ast.Numeral:
		return d.Text
	case *ast.Suffixed:
		return d.Base.(*ast.NameBase).Ref.Name()
	}
	return "?"
}

func TestOperatorOrder(t *testing.T) {
	tests := []struct {
		src     string
		dialect config.Dialect
		want    string
	}{
		{"return -2^2", config.Classic, "(-(2 ^ 2))"},
		{"return a .. b .. c", config.Classic, "(a .. (b .. c))"},
		{"return a ++ b ++ c", config.Extended, "((a ++ b) ++ c)"},
		{"return 1 + 2 * 3", config.Classic, "(1 + (2 * 3))"},
		{"return not a == b", config.Classic, "((not a) == b)"},
		{"return a ~= b", config.Classic, "(a ~= b)"},
		{"return a != b", config.Extended, "(a != b)"},
		{"return x as i64 + 1", config.Extended, "((x as ?) + 1)"},
		{"return (1 + 2) * 3", config.Classic, "((1 + 2) * 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f := parse(t, tt.src, tt.dialect)
			assert.Equal(t, tt.want, oporder.Render(f.Block.Return[0], tt.dialect, leaf))
		})
	}
}

func TestRangeAndPostfix(t *testing.T) {
	f := parse(t, "let r = 0..10\nlet v = get()?.*\nlet open = ..=5", config.Extended)
	r := f.Block.Statements[0].Data.(*ast.Let).Values[0].Data.(*ast.MultiOp)
	assert.Equal(t, ast.OpRange, r.Links[0].Op)

	v := f.Block.Statements[1].Data.(*ast.Let).Values[0]
	assert.Equal(t, []ast.PostfixOperator{
		{Op: ast.PostTry, Pos: position.Position{Line: 2, Column: 14, Offset: 27}},
		{Op: ast.PostDeref, Pos: position.Position{Line: 2, Column: 15, Offset: 28}},
	}, v.Postfix)

	open := f.Block.Statements[2].Data.(*ast.Let).Values[0].Data.(*ast.RangeExpr)
	assert.True(t, open.Inclusive)
	assert.NotZero(t, open.Hi)
}

func TestUnsafeRegions(t *testing.T) {
	src := `unsafe { let f = || 1 }
fn plain() {}
unsafe fn raw() {}
unsafe_label
fn later() {}
safe_label
fn again() {}`
	f := parse(t, src, config.Extended)
	blk := f.Block.Statements[0].Data.(*ast.Unsafe).Block
	closure := blk.Statements[0].Data.(*ast.Let).Values[0].Data.(*ast.Function)
	assert.True(t, closure.Closure)
	assert.True(t, closure.Func.Unsafe)

	unsafeOf := func(i int) bool {
		return f.Block.Statements[i].Data.(*ast.FuncDef).Func.Unsafe
	}
	assert.False(t, unsafeOf(1))
	assert.True(t, unsafeOf(2))
	assert.True(t, unsafeOf(4))
	assert.False(t, unsafeOf(6))
}

func TestConstructSink(t *testing.T) {
	type rec struct {
		c    Construct
		span position.Span
	}
	var got []rec
	sink := ConstructSinkFunc(func(c Construct, span position.Span) {
		got = append(got, rec{c, span})
	})
	_, err := Parse([]byte("local x = 12\n"), "test.lua", config.DefaultOptions(config.Classic), WithConstructSink(sink))
	assert.NoError(t, err)

	var kinds []Construct
	for _, r := range got {
		kinds = append(kinds, r.c)
	}
	assert.Equal(t, []Construct{ConstructLiteral, ConstructExpression, ConstructName, ConstructStatement}, kinds)
	lit := got[0].span
	assert.Equal(t, 10, lit.Start.Offset)
	assert.Equal(t, 12, lit.End.Offset)
	stmt := got[3].span
	assert.Equal(t, 0, stmt.Start.Offset)
	assert.Equal(t, 12, stmt.End.Offset)
}

// zeroPositions clears every position in the tree so two parses can be
// compared structurally
func zeroPositions(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			zeroPositions(v.Elem())
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			zeroPositions(v.Index(i))
		}
	case reflect.Struct:
		if v.Type() == reflect.TypeOf(position.Position{}) {
			if v.CanSet() {
				v.Set(reflect.Zero(v.Type()))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			zeroPositions(v.Field(i))
		}
	}
}

func TestSpacingDoesNotChangeTree(t *testing.T) {
	tests := []struct {
		a, b    string
		dialect config.Dialect
	}{
		{"local a=1+2*3 print(a)", "local a = 1 + 2 * 3\n\n  print ( a ) -- done", config.Classic},
		{"t={1,2;x=3}", "t = {\n  1,\n  2;\n  x = 3\n}", config.Classic},
		{"fn f(a:i32)->i32{return a}", "fn f( a: i32 ) -> i32 {\n\treturn a\n}", config.Extended},
	}
	for _, tt := range tests {
		fa := parse(t, tt.a, tt.dialect)
		fb := parse(t, tt.b, tt.dialect)
		zeroPositions(reflect.ValueOf(fa.Block))
		zeroPositions(reflect.ValueOf(fb.Block))
		assert.Equal(t, fa.Block, fb.Block)
	}
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "game", ModuleName("src/game.luma"))
	assert.Equal(t, "main", ModuleName(""))
	assert.True(t, strings.HasPrefix(ModuleName("a.b.lua"), "a.b"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("while", "while"))
	assert.Equal(t, 1, editDistance("whle", "while"))
	assert.Equal(t, 3, editDistance("", "end"))
	kw, ok := suggestKeyword("functoin", []string{"for", "function", "if"})
	assert.True(t, ok)
	assert.Equal(t, "function", kw)
	_, ok = suggestKeyword("xy", []string{"if"})
	assert.False(t, ok)
}
