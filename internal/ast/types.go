package ast

import (
	"github.com/luma-lang/luma/internal/position"
)

// Type is a type annotation of the extended grammar
type Type struct {
	Pos  position.Position
	Data TypeData
}

// TypeData is implemented by every type variant
type TypeData interface {
	typeData()
}

type (
	// PathType is a named type "a::b::C<T, U>"
	PathType struct {
		Ref  NameRef
		Args []*Type
	}

	// RefType is "&T", "&mut T" or "&/a T"
	RefType struct {
		Mut       bool
		Lifetimes []string
		Elem      *Type
	}

	// PtrType is "*T" or "*mut T"
	PtrType struct {
		Mut  bool
		Elem *Type
	}

	// SliceType is "[T]"
	SliceType struct {
		Elem *Type
	}

	// ArrayType is "[T; N]"
	ArrayType struct {
		Elem *Type
		Len  *Expression
	}

	// TupleType is "(A, B)". The empty tuple is the unit type.
	TupleType struct {
		Elems []*Type
	}

	// FnType is "fn(A, B) -> R"
	FnType struct {
		Params []*Type
		Result *Type
	}

	// DynType is "dyn A + B"
	DynType struct {
		Bounds []*Type
	}

	// ImplType is "impl A + B"
	ImplType struct {
		Bounds []*Type
	}
)

func (*PathType) typeData()  {}
func (*RefType) typeData()   {}
func (*PtrType) typeData()   {}
func (*SliceType) typeData() {}
func (*ArrayType) typeData() {}
func (*TupleType) typeData() {}
func (*FnType) typeData()    {}
func (*DynType) typeData()   {}
func (*ImplType) typeData()  {}
