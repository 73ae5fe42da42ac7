package main

import (
	"fmt"

	"github.com/luma-lang/luma/internal/cli"
	"github.com/luma-lang/luma/internal/parser"
	"github.com/luma-lang/luma/internal/resolver"
	"github.com/luma-lang/luma/internal/source"
)

// SymbolsCmd represents the symbols command
type SymbolsCmd struct {
	File string `arg:"" help:"Source file" type:"existingfile"`
}

// Run executes the symbols command
func (cmd *SymbolsCmd) Run(ctx *Context) error {
	src, err := source.Open(cmd.File)
	if err != nil {
		return err
	}
	defer src.Close()

	f, perr := parser.Parse(src.Bytes(), cmd.File, ctx.Project.OptionsFor(cmd.File), parser.WithLogger(ctx.Log))
	printTable(ctx, f.Symbols)

	if perr != nil {
		ctx.Renderer.Render(perr, src.Bytes())
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func printTable(ctx *Context, t *resolver.Table) {
	for _, mp := range t.Paths() {
		syms := t.Symbols(mp)
		if len(syms) == 0 {
			continue
		}
		path := t.DescribePath(mp)
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintln(ctx.Out, path)
		for _, s := range syms {
			fmt.Fprintf(ctx.Out, "  %-24s %-10s %s\n", s.Name, s.Kind, s.Pos)
		}
	}
}
