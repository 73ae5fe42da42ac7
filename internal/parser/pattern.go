package parser

import (
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/resolver"
)

// parsePattern parses a let, for or match pattern, including "p | q"
// alternatives. Binding names are not declared; see declarePattern.
func (p *Parser) parsePattern() (*ast.Pattern, error) {
	start := p.pos()
	first, err := p.parseSinglePattern()
	if err != nil {
		return nil, err
	}
	if !p.isAltBar() {
		return first, nil
	}
	alt := &ast.AltPat{Alts: []*ast.Pattern{first}}
	for p.isAltBar() {
		p.lx.Skip(1)
		next, err := p.parseSinglePattern()
		if err != nil {
			return nil, err
		}
		alt.Alts = append(alt.Alts, next)
	}
	p.report(ConstructPattern, start)
	return &ast.Pattern{Pos: start, Data: alt}, nil
}

func (p *Parser) isAltBar() bool {
	return p.lx.CheckToken("|") && !p.lx.CheckToken("||")
}

func (p *Parser) parseSinglePattern() (*ast.Pattern, error) {
	start := p.pos()
	data, err := p.parsePatternData()
	if err != nil {
		return nil, err
	}
	p.report(ConstructPattern, start)
	return &ast.Pattern{Pos: start, Data: data}, nil
}

func (p *Parser) parsePatternData() (ast.PatternData, error) {
	switch {
	case p.lx.CheckKeyword("_"):
		p.lx.Skip(1)
		return &ast.Wildcard{}, nil
	case p.lx.CheckToken("..") && !p.lx.CheckToken("..."):
		p.lx.Skip(2)
		return &ast.Rest{}, nil
	case p.lx.CheckToken("{"):
		return p.parseDestructure()
	case p.isLiteralPatternStart():
		return p.parseLiteralPattern()
	}

	mut := p.lx.CheckReadKeyword("mut")
	pos := p.pos()
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if !mut && (len(path) > 1 || p.lx.CheckToken("(")) {
		ref := p.resolveRef(pos, path)
		ep := &ast.EnumPat{Ref: ref}
		if p.lx.CheckReadToken("(") {
			for !p.lx.CheckToken(")") {
				elem, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				ep.Elems = append(ep.Elems, elem)
				if !p.lx.CheckReadToken(",") {
					break
				}
			}
			if err := p.lx.RequireToken(")"); err != nil {
				return nil, err
			}
		}
		return ep, nil
	}
	if len(path) > 1 {
		return nil, p.errorAt(pos, "binding name expected, found path %q", strings.Join(path, "::"))
	}
	if resolver.IsPathKeyword(path[0]) {
		return nil, p.errorAt(pos, "%q cannot be bound by a pattern", path[0])
	}
	b := &ast.BindingPat{Binding: ast.Binding{Pos: pos, Name: path[0]}, Mut: mut}
	if p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
		p.lx.Skip(1)
		if b.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// isLiteralPatternStart reports whether a literal, possibly negated, starts
// at the cursor
func (p *Parser) isLiteralPatternStart() bool {
	if p.lx.IsNumeralStart() || p.lx.IsStringStart() {
		return true
	}
	if p.lx.Peek(0) == '-' {
		c := p.lx.Peek(1)
		return c >= '0' && c <= '9' || c == '.'
	}
	switch p.lx.PeekWord() {
	case "nil", "true", "false":
		return true
	}
	return false
}

// parseLiteralPattern parses a literal or a range of two literals
func (p *Parser) parseLiteralPattern() (ast.PatternData, error) {
	lo, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	inclusive := false
	switch {
	case p.lx.CheckReadToken("..="):
		inclusive = true
	case p.lx.CheckToken("..") && !p.lx.CheckToken("..."):
		p.lx.Skip(2)
	default:
		return &ast.LiteralPat{Value: lo}, nil
	}
	if !p.isLiteralPatternStart() {
		return nil, p.lx.Unexpected("range bound")
	}
	hi, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ast.RangePat{Lo: lo, Hi: hi, Inclusive: inclusive}, nil
}

// parseDestructure parses "{p, x = q, ..}"
func (p *Parser) parseDestructure() (*ast.Destructure, error) {
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	d := &ast.Destructure{}
	for !p.lx.CheckToken("}") {
		f := &ast.PatternField{Pos: p.pos()}
		if p.isNameThenAssign() {
			name, err := p.lx.ReadName()
			if err != nil {
				return nil, err
			}
			p.checkReadAssign()
			f.Name = name
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		f.Pattern = pat
		d.Fields = append(d.Fields, f)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return d, nil
}

// declarePattern declares every name bound by pat in the innermost scope.
// Each alternative of an AltPat binds the same names, so they share one
// symbol per name.
func (p *Parser) declarePattern(pat *ast.Pattern, kind resolver.SymbolKind) {
	ast.Inspect(pat, func(n ast.Node) bool {
		if b, ok := n.(*ast.Pattern); ok {
			if bp, ok := b.Data.(*ast.BindingPat); ok {
				p.declare(&bp.Binding, kind)
			}
		}
		return true
	})
}
