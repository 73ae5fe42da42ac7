package parser

import (
	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/lexer"
	"github.com/luma-lang/luma/internal/resolver"
)

// binOpToken is the spelling of a binary operator in one grammar
type binOpToken struct {
	text string
	op   ast.BinOp
	word bool
}

// Longer spellings come first so that "..=" wins over "..", and "<=" over
// "<".
var (
	classicBinOps = []binOpToken{
		{text: "..", op: ast.OpConcat},
		{text: "//", op: ast.OpFloorDiv},
		{text: "==", op: ast.OpEq},
		{text: "~=", op: ast.OpNe},
		{text: "<=", op: ast.OpLe},
		{text: ">=", op: ast.OpGe},
		{text: "<<", op: ast.OpShl},
		{text: ">>", op: ast.OpShr},
		{text: "+", op: ast.OpAdd},
		{text: "-", op: ast.OpSub},
		{text: "*", op: ast.OpMul},
		{text: "/", op: ast.OpDiv},
		{text: "%", op: ast.OpMod},
		{text: "^", op: ast.OpPow},
		{text: "<", op: ast.OpLt},
		{text: ">", op: ast.OpGt},
		{text: "&", op: ast.OpBitAnd},
		{text: "|", op: ast.OpBitOr},
		{text: "~", op: ast.OpBitXor},
		{text: "and", op: ast.OpAnd, word: true},
		{text: "or", op: ast.OpOr, word: true},
	}
	extendedBinOps = []binOpToken{
		{text: "..=", op: ast.OpRangeInclusive},
		{text: "..", op: ast.OpRange},
		{text: "++", op: ast.OpConcat},
		{text: "//", op: ast.OpFloorDiv},
		{text: "==", op: ast.OpEq},
		{text: "!=", op: ast.OpNe},
		{text: "<=", op: ast.OpLe},
		{text: ">=", op: ast.OpGe},
		{text: "<<", op: ast.OpShl},
		{text: ">>", op: ast.OpShr},
		{text: "+", op: ast.OpAdd},
		{text: "-", op: ast.OpSub},
		{text: "*", op: ast.OpMul},
		{text: "/", op: ast.OpDiv},
		{text: "%", op: ast.OpMod},
		{text: "^", op: ast.OpPow},
		{text: "<", op: ast.OpLt},
		{text: ">", op: ast.OpGt},
		{text: "&", op: ast.OpBitAnd},
		{text: "|", op: ast.OpBitOr},
		{text: "~", op: ast.OpBitXor},
		{text: "and", op: ast.OpAnd, word: true},
		{text: "or", op: ast.OpOr, word: true},
		{text: "as", op: ast.OpAs, word: true},
	}
)

// peekBinOp reports the binary operator at the cursor and its length
func (p *Parser) peekBinOp() (ast.BinOp, int, bool) {
	table := classicBinOps
	if p.isExtended() {
		table = extendedBinOps
	}
	for _, t := range table {
		if t.word {
			if p.lx.CheckKeyword(t.text) {
				return t.op, len(t.text), true
			}
			continue
		}
		if !p.lx.CheckToken(t.text) {
			continue
		}
		next := p.lx.Peek(len(t.text))
		switch {
		case t.op == ast.OpConcat && t.text == ".." && next == '.':
			// varargs
			return 0, 0, false
		case t.op == ast.OpRange && next == '.':
			return 0, 0, false
		case t.op == ast.OpSub && next == '>' && p.isExtended():
			// result arrow
			return 0, 0, false
		}
		return t.op, len(t.text), true
	}
	return 0, 0, false
}

// parseExprList parses one or more comma separated expressions
func (p *Parser) parseExprList() ([]*ast.Expression, error) {
	var list []*ast.Expression
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if !p.lx.CheckReadToken(",") {
			return list, nil
		}
	}
}

// parseExpr parses an operand followed by any number of binary operators
// and operands. The chain is kept flat; the right operand of "as" is a type.
func (p *Parser) parseExpr() (*ast.Expression, error) {
	start := p.pos()
	first, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	var links []ast.OpLink
	for {
		op, n, ok := p.peekBinOp()
		if !ok {
			break
		}
		opPos := p.pos()
		p.lx.Skip(n)

		var operand *ast.Expression
		if op == ast.OpAs {
			tpos := p.pos()
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			operand = &ast.Expression{Pos: tpos, Data: &ast.TypeExpr{Type: t}}
		} else if operand, err = p.parseOperand(); err != nil {
			return nil, err
		}
		links = append(links, ast.OpLink{Op: op, Pos: opPos, Operand: operand})
	}
	if len(links) == 0 {
		return first, nil
	}
	p.report(ConstructExpression, start)
	return &ast.Expression{Pos: start, Data: &ast.MultiOp{First: first, Links: links}}, nil
}

// parseOperand parses prefix operators, a primary expression and, in the
// extended grammar, postfix operators
func (p *Parser) parseOperand() (*ast.Expression, error) {
	start := p.pos()
	e := &ast.Expression{Pos: start}
	if err := p.parsePrefixOps(e); err != nil {
		return nil, err
	}
	data, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	e.Data = data
	if p.isExtended() {
		p.parsePostfixOps(e)
	}
	p.report(ConstructExpression, start)
	return e, nil
}

func (p *Parser) parsePrefixOps(e *ast.Expression) error {
	extended := p.isExtended()
	for {
		pos := p.pos()
		switch c := p.lx.Peek(0); {
		case c == '-' && (!extended || p.lx.Peek(1) != '>'):
			p.lx.Skip(1)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreNeg, Pos: pos})
		case c == '#':
			p.lx.Skip(1)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreLen, Pos: pos})
		case c == '~':
			p.lx.Skip(1)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreBitNot, Pos: pos})
		case p.lx.CheckKeyword("not"):
			p.lx.Skip(3)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreNot, Pos: pos})
		case extended && c == '!' && p.lx.Peek(1) != '=':
			p.lx.Skip(1)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreNot, Pos: pos})
		case extended && c == '*':
			p.lx.Skip(1)
			e.Prefix = append(e.Prefix, ast.PrefixOperator{Op: ast.PreDeref, Pos: pos})
		case extended && c == '&' && p.lx.Peek(1) != '&':
			p.lx.Skip(1)
			op := ast.PrefixOperator{Op: ast.PreRef, Pos: pos}
			lifetimes, err := p.parseLifetimeNames()
			if err != nil {
				return err
			}
			op.Lifetimes = lifetimes
			if p.lx.CheckReadKeyword("mut") {
				op.Op = ast.PreRefMut
			}
			e.Prefix = append(e.Prefix, op)
		default:
			return nil
		}
	}
}

// parseLifetimeNames parses a possibly empty "/a/b" sequence
func (p *Parser) parseLifetimeNames() ([]string, error) {
	var names []string
	for p.lx.CheckToken("/") && lexer.IsNameStart(p.lx.Peek(1)) {
		p.lx.Skip(1)
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (p *Parser) parsePostfixOps(e *ast.Expression) {
	for {
		pos := p.pos()
		switch {
		case p.lx.CheckToken("?"):
			p.lx.Skip(1)
			e.Postfix = append(e.Postfix, ast.PostfixOperator{Op: ast.PostTry, Pos: pos})
		case p.lx.CheckToken(".*"):
			p.lx.Skip(2)
			e.Postfix = append(e.Postfix, ast.PostfixOperator{Op: ast.PostDeref, Pos: pos})
		default:
			return
		}
	}
}

// parsePrimary parses the operand proper, without unary operators
func (p *Parser) parsePrimary() (ast.ExprData, error) {
	start := p.pos()
	extended := p.isExtended()

	switch {
	case p.lx.IsNumeralStart():
		num, text, err := p.lx.ReadNumeral()
		if err != nil {
			return nil, err
		}
		p.report(ConstructLiteral, start)
		return &ast.Numeral{Value: num, Text: text}, nil
	case p.lx.IsStringStart():
		value, long, err := p.lx.ReadStringLiteral()
		if err != nil {
			return nil, err
		}
		p.report(ConstructLiteral, start)
		return &ast.String{Value: value, Long: long}, nil
	case p.lx.CheckReadToken("..."):
		return &ast.VarArgs{}, nil
	case extended && p.lx.CheckToken(".."):
		return p.parseOpenRange()
	case p.lx.CheckToken("{"):
		return p.parseTable()
	case extended && p.lx.CheckToken("["):
		return p.parseArray()
	case extended && p.lx.CheckToken("|"):
		fb, err := p.parseClosure()
		if err != nil {
			return nil, err
		}
		return &ast.Function{Func: fb, Closure: true}, nil
	case extended && p.lx.CheckToken("/") && lexer.IsNameStart(p.lx.Peek(1)):
		names, err := p.parseLifetimeNames()
		if err != nil {
			return nil, err
		}
		return &ast.Lifetime{Names: names}, nil
	}

	switch p.lx.PeekWord() {
	case "nil":
		p.lx.Skip(3)
		p.report(ConstructLiteral, start)
		return &ast.Nil{}, nil
	case "true":
		p.lx.Skip(4)
		p.report(ConstructLiteral, start)
		return &ast.True{}, nil
	case "false":
		p.lx.Skip(5)
		p.report(ConstructLiteral, start)
		return &ast.False{}, nil
	case "function":
		if !extended {
			p.lx.Skip(len("function"))
			fb, _, err := p.parseFunction(start, funcOpts{})
			if err != nil {
				return nil, err
			}
			return &ast.Function{Func: fb}, nil
		}
	case "fn":
		if extended {
			p.lx.Skip(2)
			fb, _, err := p.parseFunction(start, funcOpts{})
			if err != nil {
				return nil, err
			}
			return &ast.Function{Func: fb}, nil
		}
	case "if":
		if extended {
			return p.parseIfExpr()
		}
	case "match":
		if extended {
			return p.parseMatch()
		}
	case "do":
		if extended {
			p.lx.Skip(2)
			b, err := p.parseBraceBlock(nil)
			if err != nil {
				return nil, err
			}
			return &ast.BlockExpr{Block: b}, nil
		}
	case "dyn", "impl":
		if extended {
			impl := p.lx.CheckReadKeyword("impl")
			if !impl {
				p.lx.CheckReadKeyword("dyn")
			}
			bounds, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			return &ast.TraitExpr{Impl: impl, Bounds: bounds}, nil
		}
	}

	s, err := p.parseSuffixed()
	if err != nil {
		return nil, err
	}
	if pb, ok := s.Base.(*ast.ParenBase); ok && len(s.Suffixes) == 0 {
		return &ast.Paren{Inner: pb.Inner}, nil
	}
	return s, nil
}

// parseOpenRange parses "..", "..hi" or "..=hi" without a low bound
func (p *Parser) parseOpenRange() (ast.ExprData, error) {
	r := &ast.RangeExpr{}
	if p.lx.CheckReadToken("..=") {
		r.Inclusive = true
	} else {
		p.lx.Skip(2)
	}
	if !p.atExprEnd() {
		hi, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		r.Hi = hi
	}
	return r, nil
}

// atExprEnd reports whether the cursor is on a character that cannot start
// an expression, so an optional operand is absent
func (p *Parser) atExprEnd() bool {
	if p.lx.AtEOF() {
		return true
	}
	switch p.lx.Peek(0) {
	case ')', ']', '}', ',', ';':
		return true
	case '=':
		return p.lx.Peek(1) == '>'
	case '{':
		return true
	}
	return false
}

// parseTable parses a table constructor. Fields are separated by "," or
// ";" and a trailing separator is allowed.
func (p *Parser) parseTable() (*ast.Table, error) {
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	t := &ast.Table{}
	for !p.lx.CheckToken("}") {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
		if !p.lx.CheckReadToken(",") && !p.lx.CheckReadToken(";") {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *Parser) parseField() (*ast.Field, error) {
	f := &ast.Field{Pos: p.pos()}

	if p.lx.CheckToken("[") && p.lx.LongBracketLevel(0) < 0 {
		key, ok, err := p.parseFieldKey()
		if err != nil {
			return nil, err
		}
		if ok {
			f.Kind, f.Key = ast.FieldKeyed, key
			if f.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	if p.isNameThenAssign() {
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		p.checkReadAssign()
		f.Kind, f.Name = ast.FieldNamed, name
		if f.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
		return f, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	f.Kind, f.Value = ast.FieldPositional, value
	return f, nil
}

// parseFieldKey parses "[key] =". In the extended grammar a "[" may also
// start an array value, so the key form is only taken when "=" follows.
func (p *Parser) parseFieldKey() (*ast.Expression, bool, error) {
	mark := p.lx.Save()
	p.lx.Skip(1)
	key, err := p.parseExpr()
	if err == nil {
		err = p.lx.RequireToken("]")
	}
	if err == nil && p.checkReadAssign() {
		return key, true, nil
	}
	if !p.isExtended() {
		if err == nil {
			err = p.requireAssign()
		}
		return nil, false, err
	}
	p.lx.Restore(mark)
	return nil, false, nil
}

// parseArray parses "[a, b, c]"
func (p *Parser) parseArray() (*ast.Array, error) {
	if err := p.lx.RequireToken("["); err != nil {
		return nil, err
	}
	a := &ast.Array{}
	for !p.lx.CheckToken("]") {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, item)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken("]"); err != nil {
		return nil, err
	}
	return a, nil
}

// parseBracedExpr parses "{ expr }"
func (p *Parser) parseBracedExpr() (*ast.Expression, error) {
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return e, nil
}

// parseIfExpr parses "if c { a } else if d { b } else { e }" in expression
// position. The else arm is optional.
func (p *Parser) parseIfExpr() (*ast.IfExpr, error) {
	p.lx.CheckReadKeyword("if")
	ie := &ast.IfExpr{}
	var err error
	if ie.Cond, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if ie.Then, err = p.parseBracedExpr(); err != nil {
		return nil, err
	}
	for p.lx.CheckReadKeyword("else") {
		if !p.lx.CheckReadKeyword("if") {
			if ie.Else, err = p.parseBracedExpr(); err != nil {
				return nil, err
			}
			break
		}
		arm := ast.IfArm{}
		if arm.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if arm.Value, err = p.parseBracedExpr(); err != nil {
			return nil, err
		}
		ie.ElseIfs = append(ie.ElseIfs, arm)
	}
	return ie, nil
}

// parseMatch parses "match subject { arms }". Each arm has its own scope
// holding the pattern bindings, visible to the guard and the arm body.
func (p *Parser) parseMatch() (*ast.MatchExpr, error) {
	p.lx.CheckReadKeyword("match")
	m := &ast.MatchExpr{}
	var err error
	if m.Subject, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	for !p.lx.CheckToken("}") {
		arm, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		m.Arms = append(m.Arms, arm)
		if !p.lx.CheckReadToken(",") && arm.Block == nil {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Parser) parseMatchArm() (*ast.MatchArm, error) {
	arm := &ast.MatchArm{Pos: p.pos()}
	p.res.PushAnonymousScope(arm.Pos)
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	arm.Pattern = pat
	p.declarePattern(pat, resolver.SymbolVariable)
	if p.lx.CheckReadKeyword("if") {
		if arm.Guard, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if err := p.lx.RequireToken("=>"); err != nil {
		return nil, err
	}
	if p.lx.CheckReadToken("{") {
		ret, hasRet, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		if err := p.lx.RequireToken("}"); err != nil {
			return nil, err
		}
		arm.Block = p.res.PopScope(p.lx.LastEnd())
		arm.Block.Return, arm.Block.HasReturn = ret, hasRet
		return arm, nil
	}
	if arm.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}
	p.res.PopScope(p.lx.LastEnd())
	return arm, nil
}
