package ast

import (
	"github.com/luma-lang/luma/internal/position"
)

// Pattern is a let, for or match pattern of the extended grammar
type Pattern struct {
	Pos  position.Position
	Data PatternData
}

// PatternData is implemented by every pattern variant
type PatternData interface {
	patternData()
}

type (
	// Wildcard is "_"
	Wildcard struct{}

	// Rest is ".." inside a destructuring or enum pattern
	Rest struct{}

	// BindingPat is "[mut] name [: T]"
	BindingPat struct {
		Binding
		Mut  bool
		Type *Type
	}

	// LiteralPat is a literal value (numeral, string, nil, true, false),
	// optionally negated
	LiteralPat struct {
		Value *Expression
	}

	// RangePat is "lo .. hi" or "lo ..= hi"
	RangePat struct {
		Lo        *Expression
		Hi        *Expression
		Inclusive bool
	}

	// Destructure is "{p, q}" or "{x = p, y}"
	Destructure struct {
		Fields []*PatternField
	}

	// EnumPat is "Path(p, q)" or a bare multi-segment path "Shape::Unit"
	EnumPat struct {
		Ref   NameRef
		Elems []*Pattern
	}

	// AltPat is "p | q | r"
	AltPat struct {
		Alts []*Pattern
	}
)

func (*Wildcard) patternData()    {}
func (*Rest) patternData()        {}
func (*BindingPat) patternData()  {}
func (*LiteralPat) patternData()  {}
func (*RangePat) patternData()    {}
func (*Destructure) patternData() {}
func (*EnumPat) patternData()     {}
func (*AltPat) patternData()      {}

// PatternField is one destructuring entry. Name is empty for positional
// entries.
type PatternField struct {
	Pos     position.Position
	Name    string
	Pattern *Pattern
}

// Bindings returns every name the pattern binds, in source order
func (p *Pattern) Bindings() []*BindingPat {
	var out []*BindingPat
	p.collect(&out)
	return out
}

func (p *Pattern) collect(out *[]*BindingPat) {
	if p == nil {
		return
	}
	switch d := p.Data.(type) {
	case *BindingPat:
		*out = append(*out, d)
	case *Destructure:
		for _, f := range d.Fields {
			f.Pattern.collect(out)
		}
	case *EnumPat:
		for _, e := range d.Elems {
			e.collect(out)
		}
	case *AltPat:
		// all alternatives bind the same names
		if len(d.Alts) > 0 {
			d.Alts[0].collect(out)
		}
	}
}
