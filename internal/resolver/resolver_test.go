package resolver

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/position"
)

var p0 = position.Position{Line: 1, Column: 1}

func newResolver() *Resolver {
	return New(NewTable(), "main", p0)
}

func TestTableInterning(t *testing.T) {
	tab := NewTable()
	a := tab.ModPath([]string{"main", "f"})
	b := tab.ModPath([]string{"main", "f"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, ast.UnknownRoot, a)
	// segment boundaries matter
	assert.NotEqual(t, tab.ModPath([]string{"ma", "inf"}), tab.ModPath([]string{"main", "f"}))

	x1 := tab.Intern(a, "x", SymbolReference, p0)
	x2 := tab.Intern(a, "x", SymbolVariable, position.Position{Line: 2, Column: 1})
	assert.Equal(t, x1, x2)
	assert.Equal(t, SymbolVariable, tab.Symbol(x1).Kind)
	assert.Equal(t, 2, tab.Symbol(x1).Pos.Line)

	y := tab.Intern(a, "y", SymbolVariable, p0)
	assert.NotEqual(t, x1, y)
	got, ok := tab.Lookup(a, "y")
	assert.True(t, ok)
	assert.Equal(t, y, got)
	_, ok = tab.Lookup(a, "z")
	assert.False(t, ok)
	assert.Equal(t, "main::f::x", tab.Describe(x1))
	assert.Equal(t, 2, tab.Len())
}

func TestNestedClosureHops(t *testing.T) {
	r := newResolver()
	x := r.Declare("x", SymbolVariable, p0)
	r.PushScope(p0, "outer", SymbolFunction)
	r.PushAnonymousScope(p0)
	r.PushAnonymousScope(p0)

	res := r.ResolveName("x", p0)
	assert.True(t, res.Local)
	assert.Equal(t, 3, res.Hops)
	assert.Equal(t, x, res.Symbol)

	// shadowing in the innermost closure wins from now on
	inner := r.Declare("x", SymbolVariable, p0)
	assert.NotEqual(t, x, inner)
	res = r.ResolveName("x", p0)
	assert.Equal(t, 0, res.Hops)
	assert.Equal(t, inner, res.Symbol)

	r.PopScope(p0)
	res = r.ResolveName("x", p0)
	assert.Equal(t, 2, res.Hops)
	assert.Equal(t, x, res.Symbol)
}

func TestSelfReference(t *testing.T) {
	r := newResolver()
	f := r.PushScope(p0, "fact", SymbolFunction)
	res := r.ResolveName("fact", p0)
	assert.True(t, res.Local)
	assert.Equal(t, 1, res.Hops)
	assert.Equal(t, f, res.Symbol)
}

func TestUnknownRoot(t *testing.T) {
	r := newResolver()
	res := r.ResolveName("print", p0)
	assert.False(t, res.Local)
	assert.True(t, res.Symbol.IsUnknown())
	assert.Equal(t, res.Symbol, r.ResolveName("print", p0).Symbol)
	assert.Equal(t, "?::print", r.Table().Describe(res.Symbol))

	res = r.ResolvePath([]string{"io", "stdout", "write"}, p0)
	assert.True(t, res.Symbol.IsUnknown())
	assert.Equal(t, "io::stdout::write", r.Table().Symbol(res.Symbol).Name)
}

func TestWildcardHidesOuterNames(t *testing.T) {
	r := newResolver()
	outer := r.Declare("x", SymbolVariable, p0)
	r.PushScope(p0, "inner", SymbolModule)
	r.AddWildcard()
	assert.True(t, r.ResolveName("x", p0).Symbol.IsUnknown())

	local := r.Declare("y", SymbolVariable, p0)
	assert.Equal(t, local, r.ResolveName("y", p0).Symbol)

	r.PopScope(p0)
	assert.Equal(t, outer, r.ResolveName("x", p0).Symbol)
}

func TestResolvePath(t *testing.T) {
	r := newResolver()
	r.PushScope(p0, "shapes", SymbolModule)
	r.PushScope(p0, "Shape", SymbolType)
	circle := r.Declare("Circle", SymbolType, p0)
	r.PopScope(p0)
	r.PushScope(p0, "area", SymbolFunction)

	res := r.ResolvePath([]string{"Shape", "Circle"}, p0)
	assert.True(t, res.Local)
	assert.Equal(t, circle, res.Symbol)
	assert.Equal(t, 1, res.Hops)

	res = r.ResolvePath([]string{"self", "Shape", "Circle"}, p0)
	assert.Equal(t, circle, res.Symbol)

	res = r.ResolvePath([]string{"crate", "shapes", "Shape", "Circle"}, p0)
	assert.Equal(t, circle, res.Symbol)
	assert.Equal(t, 2, res.Hops)

	res = r.ResolvePath([]string{"super", "helper"}, p0)
	assert.True(t, res.Local)
	assert.Equal(t, "main::helper", r.Table().Describe(res.Symbol))

	r.Truncate(1)
	res = r.ResolvePath([]string{"super", "helper"}, p0)
	assert.True(t, res.Symbol.IsUnknown())
	assert.Equal(t, "?::super::helper", r.Table().Describe(res.Symbol))
}

func TestAnonymousNames(t *testing.T) {
	r := newResolver()
	first := r.PushAnonymousScope(p0)
	r.PopScope(p0)
	second := r.PushAnonymousScope(p0)
	nested := r.PushAnonymousScope(p0)

	assert.Equal(t, "\x00\x00\x00\x00\x00\x00\x00\x00\x00", first)
	assert.Equal(t, "\x00\x00\x00\x00\x00\x00\x00\x00\x01", second)
	// counters are per enclosing scope
	assert.Equal(t, first, nested)
	assert.True(t, IsAnonymous(nested))
	assert.Equal(t, "main::{1}::{0}", r.Table().DescribePath(r.Path()))
}

func TestPopScopeBlock(t *testing.T) {
	r := newResolver()
	start := position.Position{Line: 2, Column: 3, Offset: 10}
	end := position.Position{Line: 4, Column: 1, Offset: 30}
	r.PushAnonymousScope(start)
	r.Append(&ast.Statement{Data: &ast.Break{}})
	r.Append(&ast.Statement{Data: &ast.Empty{}})
	b := r.PopScope(end)
	assert.Equal(t, 2, len(b.Statements))
	assert.Equal(t, start, b.Start)
	assert.Equal(t, end, b.End)
	assert.Equal(t, 1, r.Depth())

	// the module scope survives PopScope
	r.Append(&ast.Statement{Data: &ast.Empty{}})
	b = r.PopScope(end)
	assert.Equal(t, 1, len(b.Statements))
	assert.Equal(t, 1, r.Depth())
}

func TestTruncate(t *testing.T) {
	r := newResolver()
	r.PushAnonymousScope(p0)
	r.PushAnonymousScope(p0)
	r.PushAnonymousScope(p0)
	r.Truncate(2)
	assert.Equal(t, 2, r.Depth())
	r.Truncate(0)
	assert.Equal(t, 1, r.Depth())
}

func TestSafety(t *testing.T) {
	r := newResolver()
	assert.True(t, r.IsSafe())

	r.SetSafe()
	assert.Equal(t, 0, len(r.top().safety))

	r.SetUnsafe()
	r.SetUnsafe()
	assert.False(t, r.IsSafe())
	assert.Equal(t, 1, len(r.top().safety))

	r.SetSafe()
	r.PushUnsafe()
	assert.False(t, r.IsSafe())
	r.SetSafe()
	r.SetUnsafe()
	assert.Equal(t, 5, len(r.top().safety))
	r.PopSafety()
	assert.True(t, r.IsSafe())
	assert.Equal(t, 2, len(r.top().safety))

	// inner scopes inherit the enclosing state
	r.SetUnsafe()
	r.PushAnonymousScope(p0)
	assert.False(t, r.IsSafe())
	r.PushUnsafe()
	r.PopSafety()
	assert.False(t, r.IsSafe())
	r.PopSafety() // no marker left: nothing to pop
	assert.False(t, r.IsSafe())
}
