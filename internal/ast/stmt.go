package ast

import (
	"github.com/luma-lang/luma/internal/position"
)

// Statement is one statement variant with its start position
type Statement struct {
	Pos  position.Position
	Data StmtData
}

// StmtData is implemented by every statement variant
type StmtData interface {
	stmtData()
}

// ====== Shared pieces ======

// CondBlock is one "cond then block" arm of an if statement or a while loop
type CondBlock struct {
	Cond  *Expression
	Block *Block
}

// Attrib is the <const>/<close> attribute of a classic local declaration
type Attrib int

const (
	AttribNone Attrib = iota
	AttribConst
	AttribClose
)

func (a Attrib) String() string {
	switch a {
	case AttribConst:
		return "const"
	case AttribClose:
		return "close"
	}
	return ""
}

// AttribName is one name of a classic "local" declaration
type AttribName struct {
	Binding
	Attrib Attrib
}

// Visibility is the pub modifier of an extended declaration
type Visibility int

const (
	Private Visibility = iota
	Public
)

// ====== Statements shared by both grammars ======

type (
	// Empty is a lone ";"
	Empty struct{}

	// Assign is "targets = values". Targets are assignable Suffixed
	// expressions.
	Assign struct {
		Targets []*Suffixed
		Values  []*Expression
	}

	// Call is a function or method call used as a statement
	Call struct {
		Call *Suffixed
	}

	// Label is "::name::"
	Label struct {
		Name string
	}

	// Break leaves the innermost loop
	Break struct{}

	// Goto is "goto name" (classic grammar only)
	Goto struct {
		Label string
	}

	// Do is a bare block
	Do struct {
		Block *Block
	}

	// While is "while cond do block end" or "while cond { }"
	While struct {
		CondBlock
	}

	// Repeat is "repeat block until cond"
	Repeat struct {
		Block *Block
		Cond  *Expression
	}

	// If is an if statement with its elseif arms and optional else
	If struct {
		Arms []CondBlock
		Else *Block
	}

	// ForNum is the numeric for loop
	ForNum struct {
		Var   Binding
		Start *Expression
		Limit *Expression
		Step  *Expression
		Block *Block
	}

	// ForIn is the generic for loop. Under the extended grammar Names holds
	// a single pattern binding list and Pattern is set.
	ForIn struct {
		Names   []Binding
		Pattern *Pattern
		Exprs   []*Expression
		Block   *Block
	}

	// FuncDef is "function a.b.c:m() end" or "fn a::b() {}"
	FuncDef struct {
		Name   NameRef
		Fields []string
		Method string
		Func   *FuncBody
		Vis    Visibility
		// Generics are the generic parameter names of an extended fn.
		Generics []string
	}

	// LocalFunc is "local function f() end"
	LocalFunc struct {
		Name Binding
		Func *FuncBody
	}

	// Local is the classic "local a <const>, b = ..." declaration
	Local struct {
		Names  []AttribName
		Values []*Expression
	}
)

// ====== Statements of the extended grammar ======

type (
	// Continue skips to the next iteration of the innermost loop
	Continue struct{}

	// Loop is an unconditional "loop { }"
	Loop struct {
		Block *Block
	}

	// Let is "let pattern [: T] [= values]"
	Let struct {
		Pattern *Pattern
		Type    *Type
		Values  []*Expression
	}

	// Const is "const NAME: T = value"
	Const struct {
		Name  Binding
		Type  *Type
		Value *Expression
		Vis   Visibility
	}

	// Mod is "mod name;" or "mod name { ... }". Body is nil for the
	// external form.
	Mod struct {
		Name Binding
		Body *Block
		Vis  Visibility
	}

	// Use is "use a::b::{c, d as e}" or "use a::*"
	Use struct {
		Path  []string
		Items []UseItem
		Glob  bool
		Vis   Visibility
	}

	// Struct is a struct declaration
	Struct struct {
		Name     Binding
		Generics []string
		Fields   []*StructField
		Vis      Visibility
	}

	// Enum is an enum declaration
	Enum struct {
		Name     Binding
		Generics []string
		Variants []*EnumVariant
		Vis      Visibility
	}

	// Trait is a trait declaration. Methods without a body are required
	// methods.
	Trait struct {
		Name     Binding
		Generics []string
		Supers   []*Type
		Methods  []*Method
		Vis      Visibility
	}

	// Impl is "impl [Trait for] Type { methods }"
	Impl struct {
		Generics []string
		Trait    *Type
		Target   *Type
		Methods  []*Method
		// Scope is the synthetic name of the anonymous scope that holds the
		// methods.
		Scope string
	}

	// TypeAlias is "type Name<T> = Type"
	TypeAlias struct {
		Name     Binding
		Generics []string
		Type     *Type
		Vis      Visibility
	}

	// Unsafe is an "unsafe { }" block
	Unsafe struct {
		Block *Block
	}

	// UnsafeLabel switches the rest of the enclosing scope to unsafe
	UnsafeLabel struct{}

	// SafeLabel switches the rest of the enclosing scope back to safe
	SafeLabel struct{}

	// Drop is "drop a, b"
	Drop struct {
		Values []*Expression
	}

	// Match is a match used as a statement
	Match struct {
		Match *MatchExpr
	}
)

func (*Empty) stmtData()       {}
func (*Assign) stmtData()      {}
func (*Call) stmtData()        {}
func (*Label) stmtData()       {}
func (*Break) stmtData()       {}
func (*Goto) stmtData()        {}
func (*Do) stmtData()          {}
func (*While) stmtData()       {}
func (*Repeat) stmtData()      {}
func (*If) stmtData()          {}
func (*ForNum) stmtData()      {}
func (*ForIn) stmtData()       {}
func (*FuncDef) stmtData()     {}
func (*LocalFunc) stmtData()   {}
func (*Local) stmtData()       {}
func (*Continue) stmtData()    {}
func (*Loop) stmtData()        {}
func (*Let) stmtData()         {}
func (*Const) stmtData()       {}
func (*Mod) stmtData()         {}
func (*Use) stmtData()         {}
func (*Struct) stmtData()      {}
func (*Enum) stmtData()        {}
func (*Trait) stmtData()       {}
func (*Impl) stmtData()        {}
func (*TypeAlias) stmtData()   {}
func (*Unsafe) stmtData()      {}
func (*UnsafeLabel) stmtData() {}
func (*SafeLabel) stmtData()   {}
func (*Drop) stmtData()        {}
func (*Match) stmtData()       {}

// UseItem is one imported name of a use list
type UseItem struct {
	Pos   position.Position
	Path  []string
	Alias string
	Glob  bool
}

// Name returns the name the item is visible under in the importing scope
func (u UseItem) Name() string {
	if u.Alias != "" {
		return u.Alias
	}
	if len(u.Path) == 0 {
		return ""
	}
	return u.Path[len(u.Path)-1]
}

// StructField is one field of a struct declaration
type StructField struct {
	Pos  position.Position
	Name string
	Type *Type
	Vis  Visibility
}

// EnumVariant is one enum variant with optional tuple or struct payload
type EnumVariant struct {
	Pos    position.Position
	Name   string
	Tuple  []*Type
	Fields []*StructField
	Value  *Expression
}

// Method is a method of a trait or impl block
type Method struct {
	Pos      position.Position
	Name     Binding
	Generics []string
	Func     *FuncBody
	Vis      Visibility
	// SelfParam records the receiver form: "", "self", "&self" or "&mut self".
	SelfParam string
}
