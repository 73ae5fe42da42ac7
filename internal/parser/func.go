package parser

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/lexer"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/resolver"
)

// funcOpts describes the function being parsed
type funcOpts struct {
	// name is declared in the enclosing scope and names the function scope.
	// An empty name gives the function an anonymous scope.
	name string
	kind resolver.SymbolKind
	// method adds the implicit self parameter of "function a:m()".
	method bool
	// selfParam accepts self, &self, &mut self and mut self as the first
	// parameter; the form found is stored in *selfParam.
	selfParam *string
	unsafe    bool
	// optionalBody accepts a signature without a body (trait methods).
	optionalBody bool
	// generics receives the generic parameters of an extended declaration.
	generics *[]string
}

// parseFunction parses the parameter list, result type and body of a
// function whose keyword and name have been consumed. start is the position
// of the keyword. It returns the symbol the name was declared as.
//
// An error inside the body is recovered from: the body is skipped up to its
// closer, the error is recorded and the function is marked Failed.
func (p *Parser) parseFunction(start position.Position, o funcOpts) (*ast.FuncBody, ast.SymbolID, error) {
	fb := &ast.FuncBody{Pos: start, Unsafe: o.unsafe || !p.res.IsSafe()}
	var id ast.SymbolID
	if o.name != "" {
		id = p.res.PushScope(start, o.name, o.kind)
	} else {
		p.res.PushAnonymousScope(start)
	}
	depth := p.res.Depth()
	if o.unsafe {
		p.res.PushUnsafe()
	}
	if p.isExtended() && o.generics != nil {
		generics, err := p.parseGenericParams()
		if err != nil {
			return nil, id, err
		}
		*o.generics = generics
	}

	mark := p.lx.Save()
	if err := p.parseSignature(fb, o); err != nil {
		fb, err = p.recoverFunction(fb, start, mark, depth, err)
		return fb, id, err
	}
	if o.optionalBody && !p.lx.CheckToken("{") {
		p.lx.CheckReadToken(";")
		p.res.Truncate(depth)
		p.res.PopScope(p.lx.LastEnd())
		p.report(ConstructFunction, start)
		return fb, id, nil
	}
	ret, hasRet, err := p.parseFunctionBody()
	if err != nil {
		fb, err = p.recoverFunction(fb, start, mark, depth, err)
		return fb, id, err
	}
	fb.Body = p.finishFunctionScope(depth, ret, hasRet)
	p.report(ConstructFunction, start)
	return fb, id, nil
}

// parseFunctionBody parses the statements of a function body into the
// function scope and consumes the closer
func (p *Parser) parseFunctionBody() ([]*ast.Expression, bool, error) {
	extended := p.isExtended()
	if extended {
		if err := p.lx.RequireToken("{"); err != nil {
			return nil, false, err
		}
	}
	ret, hasRet, err := p.parseStatements()
	if err != nil {
		return nil, false, err
	}
	if extended {
		err = p.lx.RequireToken("}")
	} else {
		err = p.lx.RequireKeyword("end")
	}
	return ret, hasRet, err
}

// finishFunctionScope pops the function scope into its body block
func (p *Parser) finishFunctionScope(depth int, ret []*ast.Expression, hasRet bool) *ast.Block {
	p.res.Truncate(depth)
	b := p.res.PopScope(p.lx.LastEnd())
	b.Return, b.HasReturn = ret, hasRet
	return b
}

// parseSignature parses "(params) [-> T]"
func (p *Parser) parseSignature(fb *ast.FuncBody, o funcOpts) error {
	if err := p.lx.RequireToken("("); err != nil {
		return err
	}
	if o.method {
		self := &ast.Param{Binding: ast.Binding{Pos: fb.Pos, Name: resolver.KeywordSelf}}
		self.Symbol = p.res.Declare(self.Name, resolver.SymbolParameter, self.Pos)
		fb.Params = append(fb.Params, self)
	}
	first := true
	for !p.lx.CheckToken(")") {
		if !first {
			if err := p.lx.RequireToken(","); err != nil {
				return err
			}
		}
		if p.lx.CheckReadToken("...") {
			fb.VarArgs = true
			break
		}
		if first && o.selfParam != nil {
			pos := p.pos()
			if form, ok := p.readSelfParam(); ok {
				*o.selfParam = form
				self := &ast.Param{Binding: ast.Binding{Pos: pos, Name: resolver.KeywordSelf}, Mut: form == "mut self"}
				self.Symbol = p.res.Declare(self.Name, resolver.SymbolParameter, self.Pos)
				fb.Params = append(fb.Params, self)
				first = false
				continue
			}
		}
		param, err := p.parseParam()
		if err != nil {
			return err
		}
		fb.Params = append(fb.Params, param)
		first = false
	}
	if err := p.lx.RequireToken(")"); err != nil {
		return err
	}
	if p.isExtended() && p.lx.CheckReadToken("->") {
		t, err := p.parseType()
		if err != nil {
			return err
		}
		fb.Result = t
	}
	return nil
}

// readSelfParam consumes one of the receiver forms of a method
func (p *Parser) readSelfParam() (string, bool) {
	mark := p.lx.Save()
	form := ""
	switch {
	case p.lx.CheckReadToken("&"):
		form = "&"
		if p.lx.CheckReadKeyword("mut") {
			form = "&mut "
		}
	case p.lx.CheckReadKeyword("mut"):
		form = "mut "
	}
	if p.lx.CheckReadKeyword(resolver.KeywordSelf) {
		return form + resolver.KeywordSelf, true
	}
	p.lx.Restore(mark)
	return "", false
}

func (p *Parser) parseParam() (*ast.Param, error) {
	param := &ast.Param{}
	if p.isExtended() {
		param.Mut = p.lx.CheckReadKeyword("mut")
	}
	param.Pos = p.pos()
	name, err := p.lx.ReadName()
	if err != nil {
		return nil, err
	}
	param.Name = name
	if p.isExtended() && p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
		p.lx.Skip(1)
		if param.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	p.declare(&param.Binding, resolver.SymbolParameter)
	return param, nil
}

// parseGenericParams parses an optional "<T, U>" list and declares each
// name as a type in the innermost scope
func (p *Parser) parseGenericParams() ([]string, error) {
	if !p.lx.CheckReadToken("<") {
		return nil, nil
	}
	var names []string
	for !p.lx.CheckToken(">") {
		if len(names) > 0 {
			if err := p.lx.RequireToken(","); err != nil {
				return nil, err
			}
		}
		pos := p.pos()
		if p.lx.CheckToken("/") {
			// lifetime parameter
			p.lx.Skip(1)
			pos = p.pos()
		}
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		if p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
			p.lx.Skip(1)
			if _, err := p.parseBounds(); err != nil {
				return nil, err
			}
		}
		p.res.Declare(name, resolver.SymbolType, pos)
		names = append(names, name)
	}
	p.lx.Skip(1)
	return names, nil
}

// parseClosure parses "|params| expr" or "|params| { block }" of the
// extended grammar. Only errors inside a block body are recovered from.
func (p *Parser) parseClosure() (*ast.FuncBody, error) {
	start := p.pos()
	fb := &ast.FuncBody{Pos: start, Unsafe: !p.res.IsSafe()}
	p.res.PushAnonymousScope(start)
	depth := p.res.Depth()

	// "||" is an empty parameter list
	if !p.lx.CheckReadToken("||") {
		if err := p.lx.RequireToken("|"); err != nil {
			return nil, err
		}
		for !p.lx.CheckToken("|") {
			if len(fb.Params) > 0 || fb.VarArgs {
				if err := p.lx.RequireToken(","); err != nil {
					return nil, err
				}
			}
			if p.lx.CheckReadToken("...") {
				fb.VarArgs = true
				continue
			}
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			fb.Params = append(fb.Params, param)
		}
		p.lx.Skip(1)
	}
	if p.lx.CheckReadToken("->") {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fb.Result = t
	}

	if !p.lx.CheckToken("{") {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fb.Body = p.finishFunctionScope(depth, []*ast.Expression{value}, true)
		p.report(ConstructFunction, start)
		return fb, nil
	}
	mark := p.lx.Save()
	ret, hasRet, err := p.parseFunctionBody()
	if err != nil {
		return p.recoverFunction(fb, start, mark, depth, err)
	}
	fb.Body = p.finishFunctionScope(depth, ret, hasRet)
	p.report(ConstructFunction, start)
	return fb, nil
}

// recoverFunction handles an error met inside a function. The cursor goes
// back to the parameter list and skips to the closer of the body; the
// function keeps what was parsed before the error. When no closer is found
// the parse ends with a FailedRecovery error instead of the original one.
func (p *Parser) recoverFunction(fb *ast.FuncBody, start position.Position, mark lexer.Mark, depth int, cause error) (*ast.FuncBody, error) {
	if kind, ok := diagnostics.KindOf(cause); ok && kind == diagnostics.KindFailedRecovery {
		return nil, cause
	}
	var de *diagnostics.Error
	if !errors.As(cause, &de) {
		de = p.errorf(diagnostics.KindSyntax, "%v", cause)
	}

	p.lx.Restore(mark)
	if !p.resync() {
		return nil, p.lx.ErrorAt(diagnostics.KindFailedRecovery, start,
			"cannot recover from syntax error in function starting at %d:%d", start.Line, start.Column)
	}
	p.errs.Add(de)
	p.log.WithFields(logrus.Fields{
		"file":   de.File,
		"line":   de.Pos.Line,
		"column": de.Pos.Column,
	}).WithError(de).Debug("skipped function body after syntax error")

	fb.Body = p.finishFunctionScope(depth, nil, false)
	fb.Failed = true
	p.report(ConstructFunction, start)
	return fb, nil
}

// resync skips from the parameter list of a function to the closer of its
// body, stepping over strings, comments and whole words. Classic bodies
// close with the "end" matching the function; extended bodies close with
// the "}" matching the first "{".
func (p *Parser) resync() bool {
	extended := p.isExtended()
	depth := 0
	for !p.lx.AtEOF() {
		c := p.lx.Peek(0)
		switch {
		case c == '"' || c == '\'' || p.lx.LongBracketLevel(0) >= 0:
			if !p.lx.SkipString() {
				return false
			}
		case c == '-' && p.lx.Peek(1) == '-', isSpace(c):
			if p.lx.SkipSpace() != nil {
				return false
			}
		case lexer.IsNameChar(c):
			n := 1
			for lexer.IsNameChar(p.lx.Peek(n)) {
				n++
			}
			if !extended {
				switch string(p.s.Rest()[:n]) {
				case "do", "function", "if":
					depth++
				case "end":
					if depth == 0 {
						p.lx.Skip(n)
						return true
					}
					depth--
				}
			}
			p.s.Skip(n)
		case extended && c == '{':
			depth++
			p.s.Skip(1)
		case extended && c == '}':
			if depth == 0 {
				return false
			}
			depth--
			if depth == 0 {
				p.lx.Skip(1)
				return true
			}
			p.s.Skip(1)
		default:
			p.s.Skip(1)
		}
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\n', '\r':
		return true
	}
	return false
}
