package parser

import (
	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/resolver"
)

// parseExtendedStatement parses one statement of the extended grammar.
// Declarations may be preceded by "pub".
func (p *Parser) parseExtendedStatement() (ast.StmtData, error) {
	if p.lx.CheckReadToken(";") {
		return &ast.Empty{}, nil
	}

	start := p.pos()
	vis := ast.Private
	if p.lx.CheckReadKeyword("pub") {
		vis = ast.Public
	}
	switch p.lx.PeekWord() {
	case "fn":
		return p.parseFnDecl(p.pos(), vis, false)
	case "mod":
		return p.parseMod(vis)
	case "use":
		return p.parseUse(vis)
	case "struct":
		return p.parseStruct(vis)
	case "enum":
		return p.parseEnum(vis)
	case "trait":
		return p.parseTrait(vis)
	case "type":
		return p.parseTypeAlias(vis)
	case "const":
		return p.parseConst(vis)
	case "unsafe":
		fnStart := p.pos()
		p.lx.CheckReadKeyword("unsafe")
		if p.lx.CheckKeyword("fn") {
			return p.parseFnDecl(fnStart, vis, true)
		}
		if vis == ast.Public {
			return nil, p.errorAt(start, "pub must precede a declaration")
		}
		b, err := p.parseBraceBlock(func() error {
			p.res.PushUnsafe()
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &ast.Unsafe{Block: b}, nil
	}
	if vis == ast.Public {
		return nil, p.errorAt(start, "pub must precede a declaration")
	}

	switch p.lx.PeekWord() {
	case "impl":
		return p.parseImpl()
	case "let":
		return p.parseLet()
	case "while":
		return p.parseWhile()
	case "loop":
		p.lx.CheckReadKeyword("loop")
		b, err := p.parseBraceBlock(nil)
		if err != nil {
			return nil, err
		}
		return &ast.Loop{Block: b}, nil
	case "for":
		return p.parseFor()
	case "if":
		return p.parseIf()
	case "match":
		m, err := p.parseMatch()
		if err != nil {
			return nil, err
		}
		return &ast.Match{Match: m}, nil
	case "repeat":
		return p.parseRepeat()
	case "do":
		p.lx.CheckReadKeyword("do")
		b, err := p.parseBraceBlock(nil)
		if err != nil {
			return nil, err
		}
		return &ast.Do{Block: b}, nil
	case "break":
		p.lx.CheckReadKeyword("break")
		return &ast.Break{}, nil
	case "continue":
		p.lx.CheckReadKeyword("continue")
		return &ast.Continue{}, nil
	case "drop":
		p.lx.CheckReadKeyword("drop")
		values, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		p.lx.CheckReadToken(";")
		return &ast.Drop{Values: values}, nil
	case "unsafe_label":
		p.lx.CheckReadKeyword("unsafe_label")
		p.res.SetUnsafe()
		return &ast.UnsafeLabel{}, nil
	case "safe_label":
		p.lx.CheckReadKeyword("safe_label")
		p.res.SetSafe()
		return &ast.SafeLabel{}, nil
	}
	data, err := p.parseExprStatement()
	if err != nil {
		return nil, err
	}
	p.lx.CheckReadToken(";")
	return data, nil
}

// readBinding reads a declared name without declaring it
func (p *Parser) readBinding() (ast.Binding, error) {
	b := ast.Binding{Pos: p.pos()}
	name, err := p.lx.ReadName()
	if err != nil {
		return b, err
	}
	b.Name = name
	return b, nil
}

// parseFnDecl parses "fn name<T>(params) -> R { body }". A single name is
// declared before the body so the function can call itself; a path names a
// function of another module and is only resolved.
func (p *Parser) parseFnDecl(start position.Position, vis ast.Visibility, unsafe bool) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("fn")
	namePos := p.pos()
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	stmt := &ast.FuncDef{Vis: vis}
	o := funcOpts{unsafe: unsafe, generics: &stmt.Generics}
	if len(path) == 1 {
		if resolver.IsPathKeyword(path[0]) {
			return nil, p.errorAt(namePos, "%q cannot name a function", path[0])
		}
		o.name, o.kind = path[0], resolver.SymbolFunction
	} else {
		stmt.Name = p.resolveRef(namePos, path)
	}
	fb, id, err := p.parseFunction(start, o)
	if err != nil {
		return nil, err
	}
	if len(path) == 1 {
		stmt.Name = ast.NameRef{Pos: namePos, Path: path, Symbol: id, Local: true}
	}
	stmt.Func = fb
	return stmt, nil
}

// parseMod parses "mod name;" or "mod name { ... }". The body is a new
// module scope.
func (p *Parser) parseMod(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("mod")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Mod{Name: name, Vis: vis}
	if p.lx.CheckReadToken(";") {
		stmt.Name.Symbol = p.res.Declare(name.Name, resolver.SymbolModule, name.Pos)
		return stmt, nil
	}
	stmt.Name.Symbol = p.res.PushScope(name.Pos, name.Name, resolver.SymbolModule)
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	ret, hasRet, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	stmt.Body = p.res.PopScope(p.lx.LastEnd())
	stmt.Body.Return, stmt.Body.HasReturn = ret, hasRet
	return stmt, nil
}

// parseUse parses "use a::b [as c]", "use a::*" and "use a::{b, c as d,
// e::*}". Imported names are declared in the current scope; a wildcard
// marks the scope so that unknown names are not resolved past it.
func (p *Parser) parseUse(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("use")
	stmt := &ast.Use{Vis: vis}
	itemPos := p.pos()
	first, err := p.lx.ReadSegment()
	if err != nil {
		return nil, err
	}
	path := []string{first}
	for {
		if !p.lx.CheckReadToken("::") {
			// use a::b [as c]
			item := ast.UseItem{Pos: itemPos, Path: path[len(path)-1:]}
			if item.Alias, err = p.readAlias(); err != nil {
				return nil, err
			}
			stmt.Path = path[:len(path)-1]
			stmt.Items = []ast.UseItem{item}
			break
		}
		if p.lx.CheckReadToken("*") {
			stmt.Path, stmt.Glob = path, true
			break
		}
		if p.lx.CheckToken("{") {
			stmt.Path = path
			if stmt.Items, err = p.parseUseList(); err != nil {
				return nil, err
			}
			break
		}
		itemPos = p.pos()
		seg, err := p.lx.ReadSegment()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}
	p.lx.CheckReadToken(";")

	if stmt.Glob {
		p.res.AddWildcard()
	}
	for _, item := range stmt.Items {
		if item.Glob {
			p.res.AddWildcard()
			continue
		}
		if name := item.Name(); !resolver.IsPathKeyword(name) {
			p.res.Declare(name, resolver.SymbolImport, item.Pos)
		}
	}
	return stmt, nil
}

func (p *Parser) readAlias() (string, error) {
	if !p.lx.CheckReadKeyword("as") {
		return "", nil
	}
	return p.lx.ReadName()
}

// parseUseList parses "{b, c::d as e, f::*}"
func (p *Parser) parseUseList() ([]ast.UseItem, error) {
	p.lx.Skip(1)
	var items []ast.UseItem
	for !p.lx.CheckToken("}") {
		item := ast.UseItem{Pos: p.pos()}
		for {
			seg, err := p.lx.ReadSegment()
			if err != nil {
				return nil, err
			}
			item.Path = append(item.Path, seg)
			if !p.lx.CheckReadToken("::") {
				break
			}
			if p.lx.CheckReadToken("*") {
				item.Glob = true
				break
			}
		}
		if !item.Glob {
			alias, err := p.readAlias()
			if err != nil {
				return nil, err
			}
			item.Alias = alias
		}
		items = append(items, item)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return items, nil
}

// openTypeScope declares a type name and opens its scope with the generic
// parameters declared in it
func (p *Parser) openTypeScope(name *ast.Binding) ([]string, error) {
	name.Symbol = p.res.PushScope(name.Pos, name.Name, resolver.SymbolType)
	return p.parseGenericParams()
}

// closeTypeScope closes a scope opened by openTypeScope. Type scopes hold
// no statements.
func (p *Parser) closeTypeScope(depth int) {
	p.res.Truncate(depth)
	p.res.PopScope(p.lx.LastEnd())
}

// parseStruct parses "struct Name<T> { [pub] field: Type, ... }" or the
// unit form "struct Name;"
func (p *Parser) parseStruct(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("struct")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Struct{Name: name, Vis: vis}
	if stmt.Generics, err = p.openTypeScope(&stmt.Name); err != nil {
		return nil, err
	}
	depth := p.res.Depth()
	if !p.lx.CheckReadToken(";") {
		if stmt.Fields, err = p.parseStructFields(); err != nil {
			return nil, err
		}
	}
	p.closeTypeScope(depth)
	return stmt, nil
}

// parseStructFields parses "{ [pub] name: Type, ... }"
func (p *Parser) parseStructFields() ([]*ast.StructField, error) {
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	var fields []*ast.StructField
	for !p.lx.CheckToken("}") {
		f := &ast.StructField{Pos: p.pos()}
		if p.lx.CheckReadKeyword("pub") {
			f.Vis = ast.Public
		}
		name, err := p.lx.ReadName()
		if err != nil {
			return nil, err
		}
		f.Name = name
		if err := p.lx.RequireToken(":"); err != nil {
			return nil, err
		}
		if f.Type, err = p.parseType(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseEnum parses "enum Name<T> { A, B(T), C { x: T }, D = 3 }". Variants
// are declared in the enum's scope.
func (p *Parser) parseEnum(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("enum")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Enum{Name: name, Vis: vis}
	if stmt.Generics, err = p.openTypeScope(&stmt.Name); err != nil {
		return nil, err
	}
	depth := p.res.Depth()
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	for !p.lx.CheckToken("}") {
		v := &ast.EnumVariant{Pos: p.pos()}
		if v.Name, err = p.lx.ReadName(); err != nil {
			return nil, err
		}
		p.res.Declare(v.Name, resolver.SymbolConstant, v.Pos)
		switch {
		case p.lx.CheckToken("("):
			if v.Tuple, err = p.parseTypeList("(", ")"); err != nil {
				return nil, err
			}
		case p.lx.CheckToken("{"):
			if v.Fields, err = p.parseStructFields(); err != nil {
				return nil, err
			}
		case p.checkReadAssign():
			if v.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		stmt.Variants = append(stmt.Variants, v)
		if !p.lx.CheckReadToken(",") {
			break
		}
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	p.closeTypeScope(depth)
	return stmt, nil
}

// parseTrait parses "trait Name<T>: A + B { methods }". Methods may omit
// their body.
func (p *Parser) parseTrait(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("trait")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Trait{Name: name, Vis: vis}
	if stmt.Generics, err = p.openTypeScope(&stmt.Name); err != nil {
		return nil, err
	}
	depth := p.res.Depth()
	if p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
		p.lx.Skip(1)
		if stmt.Supers, err = p.parseBounds(); err != nil {
			return nil, err
		}
	}
	if stmt.Methods, err = p.parseMethods(true); err != nil {
		return nil, err
	}
	p.closeTypeScope(depth)
	return stmt, nil
}

// parseImpl parses "impl<T> [Trait for] Type { methods }". The methods live
// in an anonymous scope.
func (p *Parser) parseImpl() (ast.StmtData, error) {
	start := p.pos()
	p.lx.CheckReadKeyword("impl")
	stmt := &ast.Impl{Scope: p.res.PushAnonymousScope(start)}
	depth := p.res.Depth()
	var err error
	if stmt.Generics, err = p.parseGenericParams(); err != nil {
		return nil, err
	}
	if stmt.Target, err = p.parseType(); err != nil {
		return nil, err
	}
	if p.lx.CheckReadKeyword("for") {
		stmt.Trait = stmt.Target
		if stmt.Target, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if stmt.Methods, err = p.parseMethods(false); err != nil {
		return nil, err
	}
	p.closeTypeScope(depth)
	return stmt, nil
}

// parseMethods parses "{ [pub] [unsafe] fn name(...) ... }"
func (p *Parser) parseMethods(optionalBody bool) ([]*ast.Method, error) {
	if err := p.lx.RequireToken("{"); err != nil {
		return nil, err
	}
	var methods []*ast.Method
	for !p.lx.CheckToken("}") {
		if p.lx.CheckReadToken(";") {
			continue
		}
		m := &ast.Method{Pos: p.pos()}
		if p.lx.CheckReadKeyword("pub") {
			m.Vis = ast.Public
		}
		unsafe := p.lx.CheckReadKeyword("unsafe")
		start := p.pos()
		if err := p.lx.RequireKeyword("fn"); err != nil {
			return nil, err
		}
		name, err := p.readBinding()
		if err != nil {
			return nil, err
		}
		m.Name = name
		fb, id, err := p.parseFunction(start, funcOpts{
			name:         name.Name,
			kind:         resolver.SymbolMethod,
			selfParam:    &m.SelfParam,
			unsafe:       unsafe,
			optionalBody: optionalBody,
			generics:     &m.Generics,
		})
		if err != nil {
			return nil, err
		}
		m.Name.Symbol, m.Func = id, fb
		methods = append(methods, m)
	}
	if err := p.lx.RequireToken("}"); err != nil {
		return nil, err
	}
	return methods, nil
}

// parseTypeAlias parses "type Name<T> = Type"
func (p *Parser) parseTypeAlias(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("type")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.TypeAlias{Name: name, Vis: vis}
	if stmt.Generics, err = p.openTypeScope(&stmt.Name); err != nil {
		return nil, err
	}
	depth := p.res.Depth()
	if err := p.requireAssign(); err != nil {
		return nil, err
	}
	if stmt.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	p.lx.CheckReadToken(";")
	p.closeTypeScope(depth)
	return stmt, nil
}

// parseConst parses "const NAME[: T] = value". The name is declared after
// the value.
func (p *Parser) parseConst(vis ast.Visibility) (ast.StmtData, error) {
	p.lx.CheckReadKeyword("const")
	name, err := p.readBinding()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Const{Name: name, Vis: vis}
	if p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
		p.lx.Skip(1)
		if stmt.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if err := p.requireAssign(); err != nil {
		return nil, err
	}
	if stmt.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}
	p.lx.CheckReadToken(";")
	p.declare(&stmt.Name, resolver.SymbolConstant)
	return stmt, nil
}

// parseLet parses "let pattern [: T] [= values]". A binding pattern takes
// the type annotation itself; Type is only set for other patterns. The
// bindings are declared after the values.
func (p *Parser) parseLet() (ast.StmtData, error) {
	p.lx.CheckReadKeyword("let")
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Let{Pattern: pat}
	if p.lx.CheckToken(":") && !p.lx.CheckToken("::") {
		p.lx.Skip(1)
		if stmt.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.checkReadAssign() {
		if stmt.Values, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	p.lx.CheckReadToken(";")
	p.declarePattern(pat, resolver.SymbolVariable)
	return stmt, nil
}
