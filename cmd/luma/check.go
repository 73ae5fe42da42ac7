package main

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/luma-lang/luma/internal/cli"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/parser"
	"github.com/luma-lang/luma/internal/source"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Dialect    string   `help:"Parse every file with this dialect (classic, extended) instead of the configured one"`
	StrictInts bool     `help:"Report integer literals that do not fit instead of promoting them to floats"`
	Jobs       int      `help:"Number of files parsed in parallel" short:"j" default:"0"` // 0 means use CPU count
	Files      []string `arg:"" name:"file" help:"Source files to check"`
}

// checkResult is the outcome of parsing one file
type checkResult struct {
	name string
	src  *source.File
	errs diagnostics.List
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	optionsFor, err := cmd.options(ctx.Project)
	if err != nil {
		return err
	}

	results, err := checkFiles(context.Background(), ctx.Log, cmd.Files, optionsFor, cmd.Jobs)
	if err != nil {
		return err
	}
	if report(ctx, results) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// options returns the function that picks the parse options of a file
func (cmd *CheckCmd) options(project *config.Project) (func(string) config.Options, error) {
	var (
		override bool
		dialect  config.Dialect
	)
	if cmd.Dialect != "" {
		d, err := config.ParseDialect(cmd.Dialect)
		if err != nil {
			return nil, err
		}
		override, dialect = true, d
	}

	return func(name string) config.Options {
		opts := project.OptionsFor(name)
		if override {
			spaced, separated := opts.SpacedStringCalls, opts.SeparatedNumerals
			opts = config.DefaultOptions(dialect)
			opts.Overflow = project.IntegerOverflow
			opts.SpacedStringCalls, opts.SeparatedNumerals = spaced, separated
		}
		if cmd.StrictInts {
			opts.Overflow = config.StrictIntegers
		}
		return opts
	}, nil
}

// checkFiles parses files concurrently. Results keep the order of names.
// Parse errors are part of the results; only I/O errors abort the run.
func checkFiles(ctx context.Context, log logrus.FieldLogger, names []string, optionsFor func(string) config.Options, jobs int) ([]checkResult, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]checkResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := checkFile(log, name, optionsFor(name))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, r := range results {
			if r.src != nil {
				_ = r.src.Close()
			}
		}
		return nil, err
	}
	return results, nil
}

func checkFile(log logrus.FieldLogger, name string, opts config.Options) (checkResult, error) {
	src, err := source.Open(name)
	if err != nil {
		return checkResult{}, err
	}

	f, _ := parser.Parse(src.Bytes(), name, opts, parser.WithLogger(log))
	log.WithFields(logrus.Fields{
		"file":    name,
		"bytes":   src.Len(),
		"errors":  len(f.Errors),
		"dialect": opts.Dialect.String(),
	}).Info("checked")

	return checkResult{name: name, src: src, errs: f.Errors}, nil
}

// report renders every result, closes the sources and returns the number
// of errors
func report(ctx *Context, results []checkResult) int {
	total, failed := 0, 0
	for _, r := range results {
		if len(r.errs) > 0 {
			failed++
			total += len(r.errs)
			ctx.Renderer.Render(r.errs, r.src.Bytes())
		}
		if err := r.src.Close(); err != nil {
			ctx.Log.WithError(err).Warn("failed to release source")
		}
	}
	ctx.Renderer.Summary(len(results), failed, total)
	return total
}

