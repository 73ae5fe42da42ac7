// Package resolver implements the lexical scope stack the parser drives
// while building the syntax tree, together with the module-path and name
// interning tables that give every resolved name a stable SymbolID.
package resolver

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/position"
)

// SymbolKind represents the kind of an interned symbol.
type SymbolKind int

const (
	// SymbolReference is a name that was only ever referred to
	SymbolReference SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolFunction
	SymbolMethod
	SymbolModule
	SymbolType
	SymbolConstant
	SymbolImport
	SymbolLabel
)

// String returns the string representation of SymbolKind.
func (sk SymbolKind) String() string {
	switch sk {
	case SymbolReference:
		return "reference"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolModule:
		return "module"
	case SymbolType:
		return "type"
	case SymbolConstant:
		return "constant"
	case SymbolImport:
		return "import"
	case SymbolLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Symbol is one interned (module path, name) pair
type Symbol struct {
	ID   ast.SymbolID
	Name string
	Kind SymbolKind
	// Pos is the position of the first declaration, or of the first
	// reference for symbols that were never declared.
	Pos position.Position
}

type modPath struct {
	segments []string
	names    map[string]ast.LocalID
	symbols  []*Symbol
}

// Table interns module paths and the names declared or referenced inside
// them. The same (path, name) pair always yields the same SymbolID. A table
// only grows.
type Table struct {
	paths   []*modPath
	pathIDs map[string]ast.ModPathID
}

// NewTable creates a table holding only the unknown root
func NewTable() *Table {
	t := &Table{pathIDs: make(map[string]ast.ModPathID)}
	t.paths = append(t.paths, &modPath{names: make(map[string]ast.LocalID)})
	return t
}

// pathKey encodes segments unambiguously; anonymous segments may contain
// any byte.
func pathKey(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// ModPath interns a module path. It never returns the unknown root.
func (t *Table) ModPath(segments []string) ast.ModPathID {
	key := pathKey(segments)
	if id, ok := t.pathIDs[key]; ok {
		return id
	}
	id := ast.ModPathID(len(t.paths))
	t.paths = append(t.paths, &modPath{
		segments: append([]string(nil), segments...),
		names:    make(map[string]ast.LocalID),
	})
	t.pathIDs[key] = id
	return id
}

// Segments returns the segments of an interned path. The unknown root has
// none.
func (t *Table) Segments(mp ast.ModPathID) []string {
	if int(mp) >= len(t.paths) {
		return nil
	}
	return t.paths[mp].segments
}

// Intern returns the id of (mp, name), creating it if needed. A symbol first
// seen as a reference takes the kind and position of a later declaration.
func (t *Table) Intern(mp ast.ModPathID, name string, kind SymbolKind, pos position.Position) ast.SymbolID {
	p := t.paths[mp]
	if local, ok := p.names[name]; ok {
		sym := p.symbols[local]
		if sym.Kind == SymbolReference && kind != SymbolReference {
			sym.Kind = kind
			sym.Pos = pos
		}
		return sym.ID
	}
	local := ast.LocalID(len(p.symbols))
	id := ast.SymbolID{Mp: mp, Local: local}
	p.names[name] = local
	p.symbols = append(p.symbols, &Symbol{ID: id, Name: name, Kind: kind, Pos: pos})
	return id
}

// Lookup returns the id of (mp, name) without interning it
func (t *Table) Lookup(mp ast.ModPathID, name string) (ast.SymbolID, bool) {
	if int(mp) >= len(t.paths) {
		return ast.SymbolID{}, false
	}
	local, ok := t.paths[mp].names[name]
	return ast.SymbolID{Mp: mp, Local: local}, ok
}

// Symbol returns the symbol behind id, or nil
func (t *Table) Symbol(id ast.SymbolID) *Symbol {
	if int(id.Mp) >= len(t.paths) {
		return nil
	}
	p := t.paths[id.Mp]
	if int(id.Local) >= len(p.symbols) {
		return nil
	}
	return p.symbols[id.Local]
}

// Paths returns every interned path id in interning order, starting with
// the unknown root
func (t *Table) Paths() []ast.ModPathID {
	ids := make([]ast.ModPathID, len(t.paths))
	for i := range ids {
		ids[i] = ast.ModPathID(i)
	}
	return ids
}

// Symbols returns the symbols interned in mp in interning order
func (t *Table) Symbols(mp ast.ModPathID) []*Symbol {
	if int(mp) >= len(t.paths) {
		return nil
	}
	return t.paths[mp].symbols
}

// Len returns the number of interned symbols over all paths
func (t *Table) Len() int {
	n := 0
	for _, p := range t.paths {
		n += len(p.symbols)
	}
	return n
}

// DescribePath renders a module path for display
func (t *Table) DescribePath(mp ast.ModPathID) string {
	if mp == ast.UnknownRoot {
		return "?"
	}
	segs := t.Segments(mp)
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = DisplaySegment(s)
	}
	return strings.Join(out, "::")
}

// Describe renders a symbol id as display text, for example "main::f::x"
// or "?::print" for names in the unknown root.
func (t *Table) Describe(id ast.SymbolID) string {
	sym := t.Symbol(id)
	if sym == nil {
		return fmt.Sprintf("<invalid %s>", id)
	}
	if p := t.DescribePath(id.Mp); p != "" {
		return p + "::" + sym.Name
	}
	return sym.Name
}

// anonMarker starts every synthetic anonymous scope name
const anonMarker = 0x00

// AnonymousName builds the synthetic name of the n-th anonymous scope
func AnonymousName(n uint64) string {
	var b [9]byte
	b[0] = anonMarker
	binary.BigEndian.PutUint64(b[1:], n)
	return string(b[:])
}

// IsAnonymous reports whether name was built by AnonymousName
func IsAnonymous(name string) bool {
	return len(name) == 9 && name[0] == anonMarker
}

// DisplaySegment renders a path segment, spelling anonymous ones as {n}
func DisplaySegment(seg string) string {
	if IsAnonymous(seg) {
		return "{" + strconv.FormatUint(binary.BigEndian.Uint64([]byte(seg[1:])), 10) + "}"
	}
	return seg
}
