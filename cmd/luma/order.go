package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/cli"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/oporder"
	"github.com/luma-lang/luma/internal/parser"
)

// ErrNotOneExpression is returned when the order command gets zero or
// several expressions
var ErrNotOneExpression = errors.New("expected exactly one expression")

// OrderCmd represents the order command
type OrderCmd struct {
	Dialect string `help:"Dialect of the expression (classic, extended)" default:"extended"`
	Expr    string `arg:"" help:"Expression to analyze"`
}

// Run executes the order command
func (cmd *OrderCmd) Run(ctx *Context) error {
	d, err := config.ParseDialect(cmd.Dialect)
	if err != nil {
		return err
	}

	src := []byte("return " + cmd.Expr)
	f, err := parser.Parse(src, "<expr>", config.DefaultOptions(d), parser.WithLogger(ctx.Log))
	if err != nil {
		ctx.Renderer.Render(err, src)
		return &cli.ExitError{Code: 1}
	}
	if len(f.Block.Return) != 1 {
		return fmt.Errorf("%w, got %d", ErrNotOneExpression, len(f.Block.Return))
	}

	fmt.Fprintln(ctx.Out, oporder.Render(f.Block.Return[0], d, leaves{d}.text))
	return nil
}

// leaves renders operands that hold no operators
type leaves struct {
	dialect config.Dialect
}

func (l leaves) text(e *ast.Expression) string {
	switch d := e.Data.(type) {
	case *ast.Nil:
		return "nil"
	case *ast.True:
		return "true"
	case *ast.False:
		return "false"
	case *ast.VarArgs:
		return "..."
	case *ast.Numeral:
		return d.Text
	case *ast.String:
		return fmt.Sprintf("%q", d.Value)
	case *ast.Suffixed:
		return l.suffixed(d)
	case *ast.TypeExpr:
		if pt, ok := d.Type.Data.(*ast.PathType); ok {
			return strings.Join(pt.Ref.Path, "::")
		}
		return "<type>"
	case *ast.Function:
		return "<function>"
	case *ast.Table:
		return "{...}"
	case *ast.Array:
		return "[...]"
	case *ast.RangeExpr:
		if d.Hi == nil {
			return ".."
		}
		if d.Inclusive {
			return "..=" + oporder.Render(d.Hi, l.dialect, l.text)
		}
		return ".." + oporder.Render(d.Hi, l.dialect, l.text)
	}
	return "<expr>"
}

func (l leaves) suffixed(s *ast.Suffixed) string {
	var b strings.Builder
	switch base := s.Base.(type) {
	case *ast.NameBase:
		b.WriteString(strings.Join(base.Ref.Path, "::"))
	case *ast.ParenBase:
		b.WriteString("(" + oporder.Render(base.Inner, l.dialect, l.text) + ")")
	}
	for _, suf := range s.Suffixes {
		switch x := suf.(type) {
		case *ast.FieldSuffix:
			b.WriteString("." + x.Name)
		case *ast.IndexSuffix:
			b.WriteString("[...]")
		case *ast.CallSuffix:
			b.WriteString("(...)")
		case *ast.MethodSuffix:
			b.WriteString(":" + x.Name + "(...)")
		}
	}
	return b.String()
}
