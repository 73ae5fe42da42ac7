// Package ast defines the syntax tree shared by both Luma grammars.
//
// Both the classic (Lua compatible) and the extended grammar produce the
// same node types; variants that only the extended grammar can produce are
// documented as such. Every node carries the Position of its first
// significant character. Parents own their children exclusively.
//
// Operator chains are kept flat (see MultiOp): precedence is resolved after
// parsing by the oporder package, using the tables in operators.go.
package ast

import (
	"fmt"

	"github.com/luma-lang/luma/internal/position"
)

// ModPathID identifies an interned module path
type ModPathID uint32

// UnknownRoot is the module path holding references that cannot be resolved
// until every wildcard-imported module has been parsed
const UnknownRoot ModPathID = 0

// LocalID identifies a name interned within one module path
type LocalID uint32

// SymbolID is the interned (module path, name) pair a name resolves to
type SymbolID struct {
	Mp    ModPathID
	Local LocalID
}

// IsUnknown reports whether the symbol lives in the unknown root
func (s SymbolID) IsUnknown() bool {
	return s.Mp == UnknownRoot
}

func (s SymbolID) String() string {
	return fmt.Sprintf("%d:%d", s.Mp, s.Local)
}

// Block is an ordered statement sequence with an optional trailing return
type Block struct {
	Statements []*Statement
	// Return holds the values of a trailing return statement. It is only
	// meaningful when HasReturn is set; "return" alone leaves it empty.
	Return    []*Expression
	HasReturn bool
	Start     position.Position
	End       position.Position
}

// Span returns the source range of the block
func (b *Block) Span() position.Span {
	return position.SpanBetween(b.Start, b.End)
}

// Binding is a declared name together with the symbol it was interned as
type Binding struct {
	Pos    position.Position
	Name   string
	Symbol SymbolID
}

// NameRef is a use of a name, possibly a multi-segment path (a::b::c)
type NameRef struct {
	Pos  position.Position
	Path []string
	// Symbol is the interned target. When Local is false it lives in the
	// unknown root (or was produced by an explicit path) and must be
	// confirmed by a later cross-module pass.
	Symbol SymbolID
	// Hops is the number of scopes walked outward to find a local name.
	Hops  int
	Local bool
}

// Name returns the last path segment
func (n *NameRef) Name() string {
	return n.Path[len(n.Path)-1]
}

// FuncBody is the shared part of function definitions and closures
type FuncBody struct {
	Pos     position.Position
	Params  []*Param
	VarArgs bool
	// Result is the declared result type (extended grammar only).
	Result *Type
	Unsafe bool
	Body   *Block
	// Failed is set when the body could not be parsed and was skipped by
	// error recovery; Body then holds what was parsed before the error.
	Failed bool
}

// Param is a function parameter
type Param struct {
	Binding
	Mut bool
	// Type is the annotated type (extended grammar only).
	Type *Type
}
