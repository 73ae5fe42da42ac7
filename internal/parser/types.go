package parser

import (
	"github.com/luma-lang/luma/internal/ast"
)

// parseType parses a type annotation of the extended grammar
func (p *Parser) parseType() (*ast.Type, error) {
	start := p.pos()
	data, err := p.parseTypeData()
	if err != nil {
		return nil, err
	}
	p.report(ConstructType, start)
	return &ast.Type{Pos: start, Data: data}, nil
}

func (p *Parser) parseTypeData() (ast.TypeData, error) {
	switch {
	case p.lx.CheckReadToken("&"):
		t := &ast.RefType{}
		var err error
		if t.Lifetimes, err = p.parseLifetimeNames(); err != nil {
			return nil, err
		}
		t.Mut = p.lx.CheckReadKeyword("mut")
		if t.Elem, err = p.parseType(); err != nil {
			return nil, err
		}
		return t, nil
	case p.lx.CheckReadToken("*"):
		t := &ast.PtrType{Mut: p.lx.CheckReadKeyword("mut")}
		var err error
		if t.Elem, err = p.parseType(); err != nil {
			return nil, err
		}
		return t, nil
	case p.lx.CheckReadToken("["):
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.lx.CheckReadToken(";") {
			n, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.lx.RequireToken("]"); err != nil {
				return nil, err
			}
			return &ast.ArrayType{Elem: elem, Len: n}, nil
		}
		if err := p.lx.RequireToken("]"); err != nil {
			return nil, err
		}
		return &ast.SliceType{Elem: elem}, nil
	case p.lx.CheckToken("("):
		elems, err := p.parseTypeList("(", ")")
		if err != nil {
			return nil, err
		}
		return &ast.TupleType{Elems: elems}, nil
	case p.lx.CheckReadKeyword("fn"):
		params, err := p.parseTypeList("(", ")")
		if err != nil {
			return nil, err
		}
		t := &ast.FnType{Params: params}
		if p.lx.CheckReadToken("->") {
			if t.Result, err = p.parseType(); err != nil {
				return nil, err
			}
		}
		return t, nil
	case p.lx.CheckReadKeyword("dyn"):
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &ast.DynType{Bounds: bounds}, nil
	case p.lx.CheckReadKeyword("impl"):
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &ast.ImplType{Bounds: bounds}, nil
	}
	return p.parsePathType()
}

// parsePathType parses "a::b::C" with optional generic arguments "<T, U>"
func (p *Parser) parsePathType() (*ast.PathType, error) {
	ref, err := p.parseNameRef()
	if err != nil {
		return nil, err
	}
	t := &ast.PathType{Ref: ref}
	if p.lx.CheckToken("<") && !p.lx.CheckToken("<=") && !p.lx.CheckToken("<<") {
		if t.Args, err = p.parseTypeList("<", ">"); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parseTypeList parses comma separated types between open and close
func (p *Parser) parseTypeList(open, close string) ([]*ast.Type, error) {
	if err := p.lx.RequireToken(open); err != nil {
		return nil, err
	}
	var list []*ast.Type
	for !p.lx.CheckToken(close) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken(close); err != nil {
		return nil, err
	}
	return list, nil
}

// parseBounds parses "A + B + C"
func (p *Parser) parseBounds() ([]*ast.Type, error) {
	var bounds []*ast.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, t)
		if !p.lx.CheckToken("+") || p.lx.CheckToken("++") {
			return bounds, nil
		}
		p.lx.Skip(1)
	}
}
