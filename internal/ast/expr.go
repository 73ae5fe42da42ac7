package ast

import (
	"github.com/luma-lang/luma/internal/position"
)

// PrefixOperator is one prefix operator attached to an operand
type PrefixOperator struct {
	Op  PrefixOp
	Pos position.Position
	// Lifetimes are the lifetime names of a borrow (&/a/b x), extended only.
	Lifetimes []string
}

// PostfixOperator is one postfix operator attached to an operand
type PostfixOperator struct {
	Op  PostfixOp
	Pos position.Position
}

// Expression is a primary expression variant together with its unresolved
// unary operators. Prefix is in source order (outermost first), Postfix in
// source order (innermost first).
type Expression struct {
	Pos     position.Position
	Prefix  []PrefixOperator
	Postfix []PostfixOperator
	Data    ExprData
}

// ExprData is implemented by every expression variant
type ExprData interface {
	exprData()
}

// HasUnary reports whether the expression carries any unary operator
func (e *Expression) HasUnary() bool {
	return len(e.Prefix) > 0 || len(e.Postfix) > 0
}

type (
	// Nil is the nil literal
	Nil struct{}

	// False is the false literal
	False struct{}

	// True is the true literal
	True struct{}

	// VarArgs is "..."
	VarArgs struct{}

	// Numeral is a numeric literal
	Numeral struct {
		Value Number
		Text  string
	}

	// String is a string literal after escape processing
	String struct {
		Value string
		Long  bool
	}

	// Function is an anonymous function or closure
	Function struct {
		Func *FuncBody
		// Closure marks the |a, b| form of the extended grammar.
		Closure bool
	}

	// Table is a table constructor
	Table struct {
		Fields []*Field
	}

	// Array is an array constructor [a, b] (extended grammar only)
	Array struct {
		Items []*Expression
	}

	// Suffixed is a name or parenthesized expression followed by member,
	// index and call suffixes. It is also the form of assignment targets and
	// call statements.
	Suffixed struct {
		Base     Base
		Suffixes []Suffix
	}

	// MultiOp is a flat operator chain: First followed by one or more
	// (operator, operand) links. Precedence is not applied by the parser.
	MultiOp struct {
		First *Expression
		Links []OpLink
	}

	// IfExpr is "if c { a } else if d { b } else { e }" in expression
	// position (extended grammar only)
	IfExpr struct {
		Cond    *Expression
		Then    *Expression
		ElseIfs []IfArm
		Else    *Expression
	}

	// RangeExpr is an open range "..", "..hi" or "..=hi" (extended grammar only)
	RangeExpr struct {
		Hi        *Expression
		Inclusive bool
	}

	// Lifetime is a lifetime expression "/a/b" (extended grammar only)
	Lifetime struct {
		Names []string
	}

	// TypeExpr is a type used as an expression, such as the right operand of
	// an "as" cast (extended grammar only)
	TypeExpr struct {
		Type *Type
	}

	// TraitExpr is "dyn A + B" or "impl A + B" in expression position
	// (extended grammar only)
	TraitExpr struct {
		Impl   bool
		Bounds []*Type
	}

	// MatchExpr is a match over a subject (extended grammar only)
	MatchExpr struct {
		Subject *Expression
		Arms    []*MatchArm
	}

	// BlockExpr is "do { ... }" used as an expression (extended grammar only)
	BlockExpr struct {
		Block *Block
	}

	// Paren is a parenthesized expression with no suffixes. It truncates a
	// multi-value expression to one value.
	Paren struct {
		Inner *Expression
	}
)

func (*Nil) exprData()       {}
func (*False) exprData()     {}
func (*True) exprData()      {}
func (*VarArgs) exprData()   {}
func (*Numeral) exprData()   {}
func (*String) exprData()    {}
func (*Function) exprData()  {}
func (*Table) exprData()     {}
func (*Array) exprData()     {}
func (*Suffixed) exprData()  {}
func (*MultiOp) exprData()   {}
func (*IfExpr) exprData()    {}
func (*RangeExpr) exprData() {}
func (*Lifetime) exprData()  {}
func (*TypeExpr) exprData()  {}
func (*TraitExpr) exprData() {}
func (*MatchExpr) exprData() {}
func (*BlockExpr) exprData() {}
func (*Paren) exprData()     {}

// OpLink is one (binary operator, right operand) pair of a MultiOp
type OpLink struct {
	Op      BinOp
	Pos     position.Position
	Operand *Expression
}

// Operands returns First followed by every link operand
func (m *MultiOp) Operands() []*Expression {
	ops := make([]*Expression, 0, len(m.Links)+1)
	ops = append(ops, m.First)
	for _, l := range m.Links {
		ops = append(ops, l.Operand)
	}
	return ops
}

// IfArm is one "else if" arm of an IfExpr
type IfArm struct {
	Cond  *Expression
	Value *Expression
}

// MatchArm is "pattern [if guard] => body"
type MatchArm struct {
	Pos     position.Position
	Pattern *Pattern
	Guard   *Expression
	// Exactly one of Value and Block is set.
	Value *Expression
	Block *Block
}

// FieldKind distinguishes the three table field forms
type FieldKind int

const (
	// FieldPositional is a bare value
	FieldPositional FieldKind = iota
	// FieldNamed is name = value
	FieldNamed
	// FieldKeyed is [key] = value
	FieldKeyed
)

// Field is one table constructor entry
type Field struct {
	Pos   position.Position
	Kind  FieldKind
	Name  string
	Key   *Expression
	Value *Expression
}

// Base is the head of a Suffixed expression
type Base interface {
	baseNode()
}

// NameBase is a (possibly multi-segment) name
type NameBase struct {
	Ref NameRef
}

// ParenBase is a parenthesized expression
type ParenBase struct {
	Pos   position.Position
	Inner *Expression
}

func (*NameBase) baseNode()  {}
func (*ParenBase) baseNode() {}

// Suffix is one member, index or call suffix
type Suffix interface {
	suffixNode()
	Position() position.Position
}

// FieldSuffix is ".name"
type FieldSuffix struct {
	Pos  position.Position
	Name string
}

// IndexSuffix is "[key]"
type IndexSuffix struct {
	Pos position.Position
	Key *Expression
}

// CallSuffix is a call with arguments
type CallSuffix struct {
	Pos  position.Position
	Args *Args
}

// MethodSuffix is ":name args"
type MethodSuffix struct {
	Pos  position.Position
	Name string
	Args *Args
}

func (*FieldSuffix) suffixNode()  {}
func (*IndexSuffix) suffixNode()  {}
func (*CallSuffix) suffixNode()   {}
func (*MethodSuffix) suffixNode() {}

func (s *FieldSuffix) Position() position.Position  { return s.Pos }
func (s *IndexSuffix) Position() position.Position  { return s.Pos }
func (s *CallSuffix) Position() position.Position   { return s.Pos }
func (s *MethodSuffix) Position() position.Position { return s.Pos }

// ArgsKind distinguishes the three argument forms
type ArgsKind int

const (
	// ArgsList is (a, b, c)
	ArgsList ArgsKind = iota
	// ArgsTable is a single table constructor
	ArgsTable
	// ArgsString is a single string literal
	ArgsString
)

// Args are the arguments of a call suffix
type Args struct {
	Kind   ArgsKind
	List   []*Expression
	Table  *Table
	String string
}

// IsCall reports whether the last suffix is a call
func (s *Suffixed) IsCall() bool {
	if len(s.Suffixes) == 0 {
		return false
	}
	switch s.Suffixes[len(s.Suffixes)-1].(type) {
	case *CallSuffix, *MethodSuffix:
		return true
	}
	return false
}

// IsAssignable reports whether s can be the target of an assignment: a bare
// name or an expression ending in a field or index suffix.
func (s *Suffixed) IsAssignable() bool {
	if len(s.Suffixes) == 0 {
		_, ok := s.Base.(*NameBase)
		return ok
	}
	switch s.Suffixes[len(s.Suffixes)-1].(type) {
	case *FieldSuffix, *IndexSuffix:
		return true
	}
	return false
}
