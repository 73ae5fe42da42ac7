package resolver

import (
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/position"
)

// Path keywords of multi-segment references
const (
	KeywordSelf  = "self"
	KeywordSuper = "super"
	KeywordCrate = "crate"
)

// IsPathKeyword reports whether seg is one of the path keywords
func IsPathKeyword(seg string) bool {
	return seg == KeywordSelf || seg == KeywordSuper || seg == KeywordCrate
}

type safety struct {
	safe      bool
	popMarker bool
}

type scope struct {
	name     string
	segments []string
	path     ast.ModPathID
	pos      position.Position
	module   bool
	names    map[string]ast.SymbolID
	stmts    []*ast.Statement
	anon     uint64
	safety   []safety
	wildcard bool
}

// Resolver is the scope stack of one parse. The stack is never empty: the
// module scope is pushed by New and stays until the parse ends. None of the
// operations fail; names that cannot be resolved locally are interned in the
// unknown root.
type Resolver struct {
	table  *Table
	scopes []*scope
}

// Resolution is the outcome of resolving a name
type Resolution struct {
	Symbol ast.SymbolID
	// Hops is the number of scopes walked outward before the name was found.
	Hops  int
	Local bool
}

// New creates a resolver whose module scope is named module
func New(table *Table, module string, pos position.Position) *Resolver {
	r := &Resolver{table: table}
	segments := []string{module}
	r.scopes = append(r.scopes, &scope{
		name:     module,
		segments: segments,
		path:     table.ModPath(segments),
		pos:      pos,
		module:   true,
		names:    make(map[string]ast.SymbolID),
	})
	return r
}

// Table returns the interning table
func (r *Resolver) Table() *Table {
	return r.table
}

func (r *Resolver) top() *scope {
	return r.scopes[len(r.scopes)-1]
}

// Depth returns the number of open scopes
func (r *Resolver) Depth() int {
	return len(r.scopes)
}

// Path returns the module path of the innermost scope
func (r *Resolver) Path() ast.ModPathID {
	return r.top().path
}

func (r *Resolver) push(pos position.Position, name string, module bool) {
	parent := r.top()
	segments := make([]string, len(parent.segments)+1)
	copy(segments, parent.segments)
	segments[len(parent.segments)] = name
	r.scopes = append(r.scopes, &scope{
		name:     name,
		segments: segments,
		path:     r.table.ModPath(segments),
		pos:      pos,
		module:   module,
		names:    make(map[string]ast.SymbolID),
	})
}

// PushScope declares name in the enclosing scope and opens a scope named
// after it. Declaring first makes the name visible to its own body.
func (r *Resolver) PushScope(pos position.Position, name string, kind SymbolKind) ast.SymbolID {
	id := r.Declare(name, kind, pos)
	r.push(pos, name, kind == SymbolModule)
	return id
}

// PushAnonymousScope opens an unnamed scope and returns its synthetic name,
// minted from the enclosing scope's counter.
func (r *Resolver) PushAnonymousScope(pos position.Position) string {
	parent := r.top()
	name := AnonymousName(parent.anon)
	parent.anon++
	r.push(pos, name, false)
	return name
}

// PopScope closes the innermost scope and returns its statements as a block.
// The module scope is never popped; PopScope on it only drains its block.
func (r *Resolver) PopScope(end position.Position) *ast.Block {
	s := r.top()
	block := &ast.Block{Statements: s.stmts, Start: s.pos, End: end}
	if len(r.scopes) == 1 {
		s.stmts = nil
		return block
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
	return block
}

// Truncate closes scopes until depth remain, discarding their statements.
// Error recovery uses it to unwind to a known depth.
func (r *Resolver) Truncate(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth < len(r.scopes) {
		r.scopes = r.scopes[:depth]
	}
}

// Append adds a statement to the innermost scope's block
func (r *Resolver) Append(stmt *ast.Statement) {
	s := r.top()
	s.stmts = append(s.stmts, stmt)
}

// Declare registers name in the innermost scope. Redeclaring a name in the
// same scope yields the same id; redeclaring it in an inner scope shadows the
// outer declaration for every later lookup.
func (r *Resolver) Declare(name string, kind SymbolKind, pos position.Position) ast.SymbolID {
	s := r.top()
	id := r.table.Intern(s.path, name, kind, pos)
	s.names[name] = id
	return id
}

// AddWildcard records a wildcard import in the innermost scope. Names that
// are not declared locally can then come from the imported module, so they
// resolve to the unknown root until that module is known.
func (r *Resolver) AddWildcard() {
	r.top().wildcard = true
}

// ResolveName looks name up from the innermost scope outward
func (r *Resolver) ResolveName(name string, pos position.Position) Resolution {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		s := r.scopes[i]
		if id, ok := s.names[name]; ok {
			return Resolution{Symbol: id, Hops: len(r.scopes) - 1 - i, Local: true}
		}
		if s.wildcard {
			break
		}
	}
	return Resolution{Symbol: r.ResolveUnknown(name, pos)}
}

// ResolvePath resolves a multi-segment reference a::b::c. A path starting
// with self, super or crate is anchored at the matching module scope; any
// other path is anchored at the scope declaring its first segment. Paths
// that cannot be anchored go to the unknown root as a whole.
func (r *Resolver) ResolvePath(segments []string, pos position.Position) Resolution {
	if len(segments) == 1 {
		return r.ResolveName(segments[0], pos)
	}
	last := segments[len(segments)-1]
	middle := segments[1 : len(segments)-1]

	var (
		base []string
		hops int
		ok   bool
	)
	switch segments[0] {
	case KeywordSelf, KeywordSuper, KeywordCrate:
		base, hops, ok = r.anchorKeyword(segments[0])
	default:
		base, hops, ok = r.anchorName(segments[0])
	}
	if !ok {
		return Resolution{Symbol: r.ResolveUnknown(strings.Join(segments, "::"), pos)}
	}
	full := make([]string, 0, len(base)+len(middle))
	full = append(full, base...)
	full = append(full, middle...)
	mp := r.table.ModPath(full)
	return Resolution{Symbol: r.table.Intern(mp, last, SymbolReference, pos), Hops: hops, Local: true}
}

func (r *Resolver) anchorKeyword(kw string) ([]string, int, bool) {
	// the innermost module scope, then its parent module for super
	mod := -1
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i].module {
			mod = i
			break
		}
	}
	switch kw {
	case KeywordCrate:
		return r.scopes[0].segments, len(r.scopes) - 1, true
	case KeywordSelf:
		return r.scopes[mod].segments, len(r.scopes) - 1 - mod, true
	}
	for i := mod - 1; i >= 0; i-- {
		if r.scopes[i].module {
			return r.scopes[i].segments, len(r.scopes) - 1 - i, true
		}
	}
	return nil, 0, false
}

func (r *Resolver) anchorName(first string) ([]string, int, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		s := r.scopes[i]
		if _, ok := s.names[first]; ok {
			segs := make([]string, len(s.segments)+1)
			copy(segs, s.segments)
			segs[len(s.segments)] = first
			return segs, len(r.scopes) - 1 - i, true
		}
		if s.wildcard {
			break
		}
	}
	return nil, 0, false
}

// ResolveUnknown interns name in the unknown root
func (r *Resolver) ResolveUnknown(name string, pos position.Position) ast.SymbolID {
	return r.table.Intern(ast.UnknownRoot, name, SymbolReference, pos)
}

// ====== Safety regions ======

// IsSafe reports whether the cursor is in safe code. The innermost scope
// with a safety entry decides; code is safe by default.
func (r *Resolver) IsSafe() bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if st := r.scopes[i].safety; len(st) > 0 {
			return st[len(st)-1].safe
		}
	}
	return true
}

// SetSafe switches the innermost scope to safe code if it is not already
func (r *Resolver) SetSafe() {
	r.set(true)
}

// SetUnsafe switches the innermost scope to unsafe code if it is not already
func (r *Resolver) SetUnsafe() {
	r.set(false)
}

func (r *Resolver) set(safe bool) {
	if r.IsSafe() == safe {
		return
	}
	s := r.top()
	s.safety = append(s.safety, safety{safe: safe})
}

// PushUnsafe opens an unsafe region that PopSafety closes. It always
// appends, so regions may be unbalanced with label switches inside them.
func (r *Resolver) PushUnsafe() {
	s := r.top()
	s.safety = append(s.safety, safety{safe: false, popMarker: true})
}

// PopSafety drops the innermost scope's safety entries back to and
// including the last PushUnsafe marker
func (r *Resolver) PopSafety() {
	s := r.top()
	for i := len(s.safety) - 1; i >= 0; i-- {
		if s.safety[i].popMarker {
			s.safety = s.safety[:i]
			return
		}
	}
}
