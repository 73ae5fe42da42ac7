package parser

import (
	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/position"
)

// classicBlockEnds are the keywords that end a classic block
var classicBlockEnds = []string{"end", "else", "elseif", "until"}

// atBlockEnd reports whether the cursor is at the end of the current block
func (p *Parser) atBlockEnd() bool {
	if p.lx.AtEOF() {
		return true
	}
	if p.isExtended() {
		return p.lx.CheckToken("}")
	}
	for _, kw := range classicBlockEnds {
		if p.lx.CheckKeyword(kw) {
			return true
		}
	}
	return false
}

// parseStatements parses statements into the innermost scope up to the end
// of the block. A return statement must be the last one; its values are
// returned separately.
func (p *Parser) parseStatements() (ret []*ast.Expression, hasRet bool, err error) {
	for !p.atBlockEnd() {
		if p.lx.CheckKeyword("return") {
			ret, err = p.parseReturn()
			return ret, true, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, false, err
		}
		p.res.Append(stmt)
	}
	return nil, false, nil
}

func (p *Parser) parseReturn() ([]*ast.Expression, error) {
	p.lx.CheckReadKeyword("return")
	var values []*ast.Expression
	if !p.atBlockEnd() && !p.lx.CheckToken(";") {
		var err error
		if values, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	p.lx.CheckReadToken(";")
	if !p.atBlockEnd() {
		return nil, p.lx.Unexpected("end of block after return")
	}
	return values, nil
}

// parseScopedBlock parses a block in a new anonymous scope. before runs in
// the new scope ahead of the first statement, so loop variables and
// pattern bindings are visible to the block only.
func (p *Parser) parseScopedBlock(start position.Position, before func() error) (*ast.Block, error) {
	p.res.PushAnonymousScope(start)
	if before != nil {
		if err := before(); err != nil {
			return nil, err
		}
	}
	ret, hasRet, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	b := p.res.PopScope(p.pos())
	b.Return, b.HasReturn = ret, hasRet
	return b, nil
}

// parseBraceBlock parses "{ statements }" of the extended grammar in a new
// anonymous scope
func (p *Parser) parseBraceBlock(before func() error) (*ast.Block, error) {
	start := p.pos()
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	b, err := p.parseScopedBlock(start, before)
	if err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	b.End = p.lx.LastEnd()
	return b, nil
}

// parseClassicBlock parses statements up to closer in a new anonymous scope
// and consumes closer
func (p *Parser) parseClassicBlock(closer string, before func() error) (*ast.Block, error) {
	b, err := p.parseScopedBlock(p.pos(), before)
	if err != nil {
		return nil, err
	}
	if err := p.lx.RequireKeyword(closer); err != nil {
		return nil, err
	}
	b.End = p.lx.LastEnd()
	return b, nil
}

// parseBody parses a loop or conditional body in the active grammar:
// "do ... end" style bodies have their opener consumed by the caller in the
// classic grammar.
func (p *Parser) parseBody(before func() error) (*ast.Block, error) {
	if p.isExtended() {
		return p.parseBraceBlock(before)
	}
	return p.parseClassicBlock("end", before)
}
