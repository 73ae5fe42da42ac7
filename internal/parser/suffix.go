package parser

import (
	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/position"
)

// parseSuffixed parses a name or parenthesized expression followed by any
// number of member, index, method and call suffixes. Assignment targets,
// call statements and primary expressions all share it.
func (p *Parser) parseSuffixed() (*ast.Suffixed, error) {
	start := p.pos()
	s := &ast.Suffixed{}
	if p.lx.CheckReadToken("(") {
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.lx.RequireToken(")"); err != nil {
			return nil, err
		}
		s.Base = &ast.ParenBase{Pos: start, Inner: inner}
	} else {
		ref, err := p.parseNameRef()
		if err != nil {
			return nil, err
		}
		s.Base = &ast.NameBase{Ref: ref}
	}

	for {
		suffix, ok, err := p.parseSuffix()
		if err != nil {
			return nil, err
		}
		if !ok {
			return s, nil
		}
		s.Suffixes = append(s.Suffixes, suffix)
	}
}

// parseNameRef parses a name, or in the extended grammar a path a::b::c,
// and resolves it
func (p *Parser) parseNameRef() (ast.NameRef, error) {
	pos := p.pos()
	if !p.isExtended() {
		name, err := p.lx.ReadName()
		if err != nil {
			return ast.NameRef{}, err
		}
		return p.resolveRef(pos, []string{name}), nil
	}
	path, err := p.parsePath()
	if err != nil {
		return ast.NameRef{}, err
	}
	return p.resolveRef(pos, path), nil
}

// parsePath parses the segments of "a::b::c"
func (p *Parser) parsePath() ([]string, error) {
	first, err := p.lx.ReadSegment()
	if err != nil {
		return nil, err
	}
	path := []string{first}
	for p.lx.CheckReadToken("::") {
		seg, err := p.lx.ReadSegment()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}
	return path, nil
}

// resolveRef resolves a name or path read at pos. It must be called right
// after the last segment was consumed.
func (p *Parser) resolveRef(pos position.Position, path []string) ast.NameRef {
	r := p.res.ResolvePath(path, pos)
	p.report(ConstructName, pos)
	return ast.NameRef{Pos: pos, Path: path, Symbol: r.Symbol, Hops: r.Hops, Local: r.Local}
}

// parseSuffix parses one suffix, reporting false when none follows
func (p *Parser) parseSuffix() (ast.Suffix, bool, error) {
	pos := p.pos()
	extended := p.isExtended()
	switch {
	case p.lx.CheckToken(".") && !p.lx.CheckToken("..") && !(extended && p.lx.CheckToken(".*")):
		p.lx.Skip(1)
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, false, err
		}
		return &ast.FieldSuffix{Pos: pos, Name: name}, true, nil
	case p.lx.CheckToken("[") && p.lx.LongBracketLevel(0) < 0:
		p.lx.Skip(1)
		key, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if err := p.lx.RequireToken("]"); err != nil {
			return nil, false, err
		}
		return &ast.IndexSuffix{Pos: pos, Key: key}, true, nil
	case p.lx.CheckToken(":") && !p.lx.CheckToken("::"):
		p.lx.Skip(1)
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, false, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, false, err
		}
		return &ast.MethodSuffix{Pos: pos, Name: name, Args: args}, true, nil
	case p.isArgsStart():
		args, err := p.parseArgs()
		if err != nil {
			return nil, false, err
		}
		return &ast.CallSuffix{Pos: pos, Args: args}, true, nil
	}
	return nil, false, nil
}

// isArgsStart reports whether call arguments start at the cursor. The
// extended grammar has no table-constructor calls: "f {" there is a name
// followed by a block.
func (p *Parser) isArgsStart() bool {
	switch {
	case p.lx.CheckToken("("), p.lx.IsStringStart():
		return true
	case p.lx.CheckToken("{"):
		return !p.isExtended()
	}
	return false
}

// parseArgs parses "(list)", a table constructor or a string literal
func (p *Parser) parseArgs() (*ast.Args, error) {
	switch {
	case p.lx.CheckReadToken("("):
		args := &ast.Args{Kind: ast.ArgsList}
		if !p.lx.CheckToken(")") {
			list, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			args.List = list
		}
		if err := p.lx.RequireToken(")"); err != nil {
			return nil, err
		}
		return args, nil
	case p.lx.CheckToken("{") && !p.isExtended():
		t, err := p.parseTable()
		if err != nil {
			return nil, err
		}
		return &ast.Args{Kind: ast.ArgsTable, Table: t}, nil
	case p.lx.IsStringStart():
		if p.opts.SpacedStringCalls && !p.lx.SpaceBefore() {
			return nil, p.lx.Errorf(diagnostics.KindUnexpectedCharacter,
				"string argument must be separated from the function by a space")
		}
		start := p.pos()
		value, _, err := p.lx.ReadStringLiteral()
		if err != nil {
			return nil, err
		}
		p.report(ConstructLiteral, start)
		return &ast.Args{Kind: ast.ArgsString, String: value}, nil
	}
	return nil, p.lx.Unexpected("function arguments")
}
