package parser

import (
	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/lexer"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/resolver"
)

// parseStatement parses one statement of the active grammar
func (p *Parser) parseStatement() (*ast.Statement, error) {
	start := p.pos()
	var (
		data ast.StmtData
		err  error
	)
	if p.isExtended() {
		data, err = p.parseExtendedStatement()
	} else {
		data, err = p.parseClassicStatement()
	}
	if err != nil {
		return nil, err
	}
	p.report(ConstructStatement, start)
	return &ast.Statement{Pos: start, Data: data}, nil
}

func (p *Parser) parseClassicStatement() (ast.StmtData, error) {
	if p.lx.CheckReadToken(";") {
		return &ast.Empty{}, nil
	}
	if p.lx.CheckToken("::") {
		return p.parseLabel()
	}
	switch p.lx.PeekWord() {
	case "break":
		p.lx.CheckReadKeyword("break")
		return &ast.Break{}, nil
	case "goto":
		p.lx.CheckReadKeyword("goto")
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		return &ast.Goto{Label: name}, nil
	case "do":
		p.lx.CheckReadKeyword("do")
		b, err := p.parseClassicBlock("end", nil)
		if err != nil {
			return nil, err
		}
		return &ast.Do{Block: b}, nil
	case "while":
		return p.parseWhile()
	case "repeat":
		return p.parseRepeat()
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "function":
		return p.parseFunctionStatement()
	case "local":
		p.lx.CheckReadKeyword("local")
		if p.lx.CheckKeyword("function") {
			return p.parseLocalFunction()
		}
		return p.parseLocal()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseLabel() (ast.StmtData, error) {
	if err := p.lx.RequireToken("::"); err != nil {
		return nil, err
	}
	name, err := p.lx.ReadName()
	if err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken("::"); err != nil {
		return nil, err
	}
	return &ast.Label{Name: name}, nil
}

// checkReadAssign consumes a lone "=" (not "==" or "=>")
func (p *Parser) checkReadAssign() bool {
	if !p.lx.CheckToken("=") || p.lx.CheckToken("==") || p.lx.CheckToken("=>") {
		return false
	}
	p.lx.Skip(1)
	return true
}

func (p *Parser) requireAssign() error {
	if p.checkReadAssign() {
		return nil
	}
	return p.lx.Unexpected("'='")
}

func (p *Parser) parseWhile() (ast.StmtData, error) {
	p.lx.CheckReadKeyword("while")
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isExtended() {
		if err := p.lx.RequireKeyword("do"); err != nil {
			return nil, err
		}
	}
	b, err := p.parseBody(nil)
	if err != nil {
		return nil, err
	}
	return &ast.While{CondBlock: ast.CondBlock{Cond: cond, Block: b}}, nil
}

// parseRepeat parses "repeat block until cond". The condition is parsed
// inside the block's scope, so it sees the block's locals.
func (p *Parser) parseRepeat() (ast.StmtData, error) {
	start := p.pos()
	p.lx.CheckReadKeyword("repeat")
	if p.isExtended() {
		if err := p.lx.RequireToken("{"); err != nil {
			return nil, err
		}
	}
	p.res.PushAnonymousScope(start)
	ret, hasRet, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if p.isExtended() {
		if err := p.lx.RequireToken("}"); err != nil {
			return nil, err
		}
	}
	if err := p.lx.RequireKeyword("until"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	b := p.res.PopScope(p.lx.LastEnd())
	b.Return, b.HasReturn = ret, hasRet
	return &ast.Repeat{Block: b, Cond: cond}, nil
}

func (p *Parser) parseIf() (ast.StmtData, error) {
	p.lx.CheckReadKeyword("if")
	stmt := &ast.If{}
	for {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var b *ast.Block
		if p.isExtended() {
			b, err = p.parseBraceBlock(nil)
		} else {
			if err = p.lx.RequireKeyword("then"); err == nil {
				b, err = p.parseScopedBlock(p.pos(), nil)
			}
		}
		if err != nil {
			return nil, err
		}
		stmt.Arms = append(stmt.Arms, ast.CondBlock{Cond: cond, Block: b})

		if p.isExtended() {
			if !p.lx.CheckReadKeyword("else") {
				return stmt, nil
			}
			if p.lx.CheckReadKeyword("if") {
				continue
			}
			if stmt.Else, err = p.parseBraceBlock(nil); err != nil {
				return nil, err
			}
			return stmt, nil
		}

		if p.lx.CheckReadKeyword("elseif") {
			continue
		}
		if p.lx.CheckReadKeyword("else") {
			if stmt.Else, err = p.parseClassicBlock("end", nil); err != nil {
				return nil, err
			}
			return stmt, nil
		}
		if err := p.lx.RequireKeyword("end"); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

// isNameThenAssign reports whether the cursor is on a name followed by a
// lone "=", without consuming anything
func (p *Parser) isNameThenAssign() bool {
	word := p.lx.PeekWord()
	if word == "" || lexer.IsReserved(word, p.opts.Dialect) {
		return false
	}
	mark := p.lx.Save()
	defer p.lx.Restore(mark)
	p.lx.Skip(len(word))
	return p.lx.CheckToken("=") && !p.lx.CheckToken("==") && !p.lx.CheckToken("=>")
}

func (p *Parser) parseFor() (ast.StmtData, error) {
	p.lx.CheckReadKeyword("for")
	if p.isNameThenAssign() {
		return p.parseNumericFor()
	}

	stmt := &ast.ForIn{}
	var declare func() error
	if p.isExtended() {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		stmt.Pattern = pat
		declare = func() error {
			p.declarePattern(pat, resolver.SymbolVariable)
			return nil
		}
	} else {
		for {
			pos := p.pos()
			name, err := p.lx.ReadName()
			if err != nil {
				return nil, err
			}
			stmt.Names = append(stmt.Names, ast.Binding{Pos: pos, Name: name})
			if !p.lx.CheckReadToken(",") {
				break
			}
		}
		declare = func() error {
			for i := range stmt.Names {
				p.declare(&stmt.Names[i], resolver.SymbolVariable)
			}
			return nil
		}
	}
	if err := p.lx.RequireKeyword("in"); err != nil {
		return nil, err
	}
	exprs, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	stmt.Exprs = exprs
	if !p.isExtended() {
		if err := p.lx.RequireKeyword("do"); err != nil {
			return nil, err
		}
	}
	if stmt.Block, err = p.parseBody(declare); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseNumericFor() (ast.StmtData, error) {
	stmt := &ast.ForNum{}
	stmt.Var.Pos = p.pos()
	name, err := p.lx.ReadName()
	if err != nil {
		return nil, err
	}
	stmt.Var.Name = name
	if err := p.requireAssign(); err != nil {
		return nil, err
	}
	if stmt.Start, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken(","); err != nil {
		return nil, err
	}
	if stmt.Limit, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if p.lx.CheckReadToken(",") {
		if stmt.Step, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if !p.isExtended() {
		if err := p.lx.RequireKeyword("do"); err != nil {
			return nil, err
		}
	}
	stmt.Block, err = p.parseBody(func() error {
		p.declare(&stmt.Var, resolver.SymbolVariable)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// declare registers b in the innermost scope and records its symbol
func (p *Parser) declare(b *ast.Binding, kind resolver.SymbolKind) {
	b.Symbol = p.res.Declare(b.Name, kind, b.Pos)
	p.reportAt(ConstructName, b.Pos, len(b.Name))
}

// reportAt reports a construct of known length on a single line
func (p *Parser) reportAt(c Construct, start position.Position, n int) {
	if p.sink != nil {
		end := start
		end.Column += n
		end.Offset += n
		p.sink.Construct(c, position.SpanBetween(start, end))
	}
}

// parseFunctionStatement parses "function a.b.c:m() body end". A plain name
// is resolved like an assignment target; the body gets an anonymous scope.
func (p *Parser) parseFunctionStatement() (ast.StmtData, error) {
	start := p.pos()
	p.lx.CheckReadKeyword("function")
	namePos := p.pos()
	first, err := p.lx.ReadName()
	if err != nil {
		return nil, err
	}
	stmt := &ast.FuncDef{Name: p.resolveRef(namePos, []string{first})}
	for p.lx.CheckToken(".") && !p.lx.CheckToken("..") {
		p.lx.Skip(1)
		field, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		stmt.Fields = append(stmt.Fields, field)
	}
	if p.lx.CheckReadToken(":") {
		if stmt.Method, err = p.lx.ReadName(); err != nil {
			return nil, err
		}
	}
	fb, _, err := p.parseFunction(start, funcOpts{method: stmt.Method != ""})
	if err != nil {
		return nil, err
	}
	stmt.Func = fb
	return stmt, nil
}

// parseLocalFunction parses "local function f() end". f is declared before
// the body so the function can call itself.
func (p *Parser) parseLocalFunction() (ast.StmtData, error) {
	start := p.pos()
	p.lx.CheckReadKeyword("function")
	namePos := p.pos()
	name, err := p.lx.ReadName()
	if err != nil {
		return nil, err
	}
	fb, id, err := p.parseFunction(start, funcOpts{name: name, kind: resolver.SymbolFunction})
	if err != nil {
		return nil, err
	}
	return &ast.LocalFunc{Name: ast.Binding{Pos: namePos, Name: name, Symbol: id}, Func: fb}, nil
}

// parseLocal parses "local a <const>, b <close> = values". The names are
// declared after the values, which still see any outer a and b.
func (p *Parser) parseLocal() (ast.StmtData, error) {
	stmt := &ast.Local{}
	for {
		an := ast.AttribName{}
		an.Pos = p.pos()
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		an.Name = name
		if p.lx.CheckReadToken("<") {
			attrPos := p.pos()
			attr, err := p.lx.ReadName()
			if err != nil {
				return nil, err
			}
			switch attr {
			case "const":
				an.Attrib = ast.AttribConst
			case "close":
				an.Attrib = ast.AttribClose
			default:
				return nil, p.errorAt(attrPos, "unknown attribute %q", attr)
			}
			if err := p.lx.RequireToken(">"); err != nil {
				return nil, err
			}
		}
		stmt.Names = append(stmt.Names, an)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if p.checkReadAssign() {
		values, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		stmt.Values = values
	}
	for i := range stmt.Names {
		kind := resolver.SymbolVariable
		if stmt.Names[i].Attrib == ast.AttribConst {
			kind = resolver.SymbolConstant
		}
		p.declare(&stmt.Names[i].Binding, kind)
	}
	return stmt, nil
}

// parseExprStatement parses an assignment or a call statement. Both start
// with the same suffixed expression.
func (p *Parser) parseExprStatement() (ast.StmtData, error) {
	start := p.pos()
	word := p.lx.PeekWord()
	target, err := p.parseSuffixed()
	if err != nil {
		return nil, p.withSuggestion(err, word)
	}
	if p.lx.CheckToken(",") || p.lx.CheckToken("=") && !p.lx.CheckToken("==") {
		targets := []*ast.Suffixed{target}
		positions := []position.Position{start}
		for p.lx.CheckReadToken(",") {
			positions = append(positions, p.pos())
			t, err := p.parseSuffixed()
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
		if err := p.requireAssign(); err != nil {
			return nil, err
		}
		for i, t := range targets {
			if !t.IsAssignable() {
				return nil, p.errorAt(positions[i], "cannot assign to this expression")
			}
		}
		values, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Targets: targets, Values: values}, nil
	}
	if target.IsCall() {
		return &ast.Call{Call: target}, nil
	}
	err = p.lx.ErrorAt(diagnostics.KindSyntax, start, "syntax error: expression is not a statement")
	return nil, p.withSuggestion(err, word)
}
