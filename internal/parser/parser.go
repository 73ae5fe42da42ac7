// Package parser implements the recursive descent parser shared by both
// Luma grammars.
//
// The parser works directly on characters through the lexer helpers; there
// is no token stream. Every production starts at the first significant
// character of its construct and leaves the cursor on the first significant
// character after it. Names are resolved while the tree is built: the
// parser drives a resolver.Resolver whose scope stack mirrors the blocks
// being parsed, so every Binding and NameRef carries its SymbolID.
//
// Binary operator chains are left flat (ast.MultiOp); see package oporder
// for their evaluation order.
package parser

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/lexer"
	"github.com/luma-lang/luma/internal/logging"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/resolver"
	"github.com/luma-lang/luma/internal/stream"
)

// File is the result of parsing one source file
type File struct {
	Name   string
	Module string
	Block  *ast.Block
	// Symbols holds every interned module path and name of the file.
	Symbols *resolver.Table
	// Errors are the recoverable errors recorded during the parse.
	Errors diagnostics.List
}

// Parser holds the state of one parse. Options are fixed for its lifetime.
type Parser struct {
	lx   *lexer.Lexer
	s    *stream.Stream
	opts config.Options
	res  *resolver.Resolver
	errs diagnostics.List
	log  logrus.FieldLogger
	sink ConstructSink
	// table is set by WithTable before the resolver is created.
	table *resolver.Table
}

// Option configures a parse
type Option func(*Parser)

// WithLogger sets the logger recovery events are reported to
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithConstructSink registers a sink that receives the span of every
// construct the parser completes
func WithConstructSink(sink ConstructSink) Option {
	return func(p *Parser) {
		p.sink = sink
	}
}

// WithTable makes the parse intern into an existing table, so several files
// can share one set of module paths
func WithTable(t *resolver.Table) Option {
	return func(p *Parser) {
		p.table = t
	}
}

func discardLogger() logrus.FieldLogger {
	return logging.Discard()
}

// ModuleName derives the module name of a file from its base name
func ModuleName(file string) string {
	base := filepath.Base(file)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "main"
	}
	return base
}

// New creates a parser over src. file is used for diagnostics and to name
// the module scope.
func New(src []byte, file string, opts config.Options, options ...Option) *Parser {
	s := stream.New(src, file)
	p := &Parser{
		lx:   lexer.New(s, opts),
		s:    s,
		opts: opts,
		log:  discardLogger(),
	}
	for _, o := range options {
		o(p)
	}
	if p.table == nil {
		p.table = resolver.NewTable()
	}
	p.res = resolver.New(p.table, ModuleName(file), position.Position{Line: 1, Column: 1})
	return p
}

// Parse parses a whole file. Any error, recovered or not, makes Parse return
// a non-nil error of type diagnostics.List; the returned File is still
// usable for inspection.
func Parse(src []byte, file string, opts config.Options, options ...Option) (*File, error) {
	return New(src, file, opts, options...).ParseFile()
}

// ParseFile runs the parser over its whole input
func (p *Parser) ParseFile() (*File, error) {
	p.errs = nil
	f := &File{
		Name:    p.s.File(),
		Module:  ModuleName(p.s.File()),
		Symbols: p.res.Table(),
	}

	block, err := p.parseChunk()
	f.Block = block
	if err == nil {
		err = p.lx.Err()
	}
	if err != nil {
		var de *diagnostics.Error
		if !errors.As(err, &de) {
			de = p.errorf(diagnostics.KindSyntax, "%v", err)
		}
		p.errs.Add(de)
	}
	f.Errors = p.errs

	p.log.WithFields(logrus.Fields{
		"file":    f.Name,
		"dialect": p.opts.Dialect.String(),
		"errors":  len(f.Errors),
		"symbols": f.Symbols.Len(),
	}).Debug("parsed file")

	return f, f.Errors.Err()
}

// parseChunk parses the module scope up to the end of the input
func (p *Parser) parseChunk() (*ast.Block, error) {
	// a first line starting with # is a shebang
	if p.lx.Peek(0) == '#' {
		for !p.lx.AtEOF() && !stream.IsBreakChar(p.lx.Peek(0)) {
			p.s.Skip(1)
		}
	}
	if err := p.lx.SkipSpace(); err != nil {
		return nil, err
	}
	ret, hasRet, err := p.parseStatements()
	if err == nil && !p.lx.AtEOF() {
		err = p.lx.Unexpected("statement")
	}
	p.res.Truncate(1)
	block := p.res.PopScope(p.pos())
	block.Return, block.HasReturn = ret, hasRet
	return block, err
}

// ====== Error helpers ======

func (p *Parser) errorf(kind diagnostics.Kind, format string, args ...any) *diagnostics.Error {
	return p.lx.Errorf(kind, format, args...)
}

func (p *Parser) errorAt(pos position.Position, format string, args ...any) *diagnostics.Error {
	return p.lx.ErrorAt(diagnostics.KindSyntax, pos, format, args...)
}

func (p *Parser) pos() position.Position {
	return p.lx.Position()
}

// isExtended reports whether the extended grammar is active
func (p *Parser) isExtended() bool {
	return p.opts.IsExtended()
}

// ====== Construct reporting ======

// Construct names the grammar construct that produced a source range
type Construct int

const (
	ConstructStatement Construct = iota
	ConstructExpression
	ConstructName
	ConstructLiteral
	ConstructFunction
	ConstructType
	ConstructPattern
)

func (c Construct) String() string {
	switch c {
	case ConstructStatement:
		return "statement"
	case ConstructExpression:
		return "expression"
	case ConstructName:
		return "name"
	case ConstructLiteral:
		return "literal"
	case ConstructFunction:
		return "function"
	case ConstructType:
		return "type"
	case ConstructPattern:
		return "pattern"
	}
	return "unknown"
}

// ConstructSink receives the span of every completed construct. Inner
// constructs are reported before the constructs containing them.
type ConstructSink interface {
	Construct(c Construct, span position.Span)
}

// ConstructSinkFunc adapts a function to ConstructSink
type ConstructSinkFunc func(c Construct, span position.Span)

// Construct calls f(c, span)
func (f ConstructSinkFunc) Construct(c Construct, span position.Span) {
	f(c, span)
}

func (p *Parser) report(c Construct, start position.Position) {
	if p.sink != nil {
		p.sink.Construct(c, position.SpanBetween(start, p.lx.LastEnd()))
	}
}
