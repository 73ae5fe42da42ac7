package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/watch"
)

// WatchCmd represents the watch command
type WatchCmd struct {
	Dialect    string        `help:"Parse every file with this dialect (classic, extended) instead of the configured one"`
	StrictInts bool          `help:"Report integer literals that do not fit instead of promoting them to floats"`
	Quiet      time.Duration `help:"Time without changes before files are checked again" default:"200ms"`
	Paths      []string      `arg:"" name:"path" help:"Files or directories to watch"`
}

// Run executes the watch command. It returns when interrupted.
func (cmd *WatchCmd) Run(ctx *Context) error {
	check := &CheckCmd{Dialect: cmd.Dialect, StrictInts: cmd.StrictInts}
	optionsFor, err := check.options(ctx.Project)
	if err != nil {
		return err
	}

	exts := sourceExtensions(ctx.Project)
	w, err := watch.New(exts...)
	if err != nil {
		return err
	}
	defer w.Close()

	var files []string
	for _, p := range cmd.Paths {
		if err := w.Add(p); err != nil {
			return err
		}
		found, err := sourceFiles(p, w.Matches)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recheck := func(names []string) {
		results, err := checkFiles(sigCtx, ctx.Log, names, optionsFor, 0)
		if err != nil {
			ctx.Log.WithError(err).Error("check failed")
			return
		}
		report(ctx, results)
	}

	recheck(files)
	fmt.Fprintf(ctx.Out, "watching %d path(s) for changes\n", len(cmd.Paths))

	err = w.Batch(sigCtx, cmd.Quiet, func(paths []string) {
		ctx.Log.WithField("files", len(paths)).Debug("change detected")
		recheck(paths)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sourceExtensions lists the extensions the project maps to a dialect
func sourceExtensions(p *config.Project) []string {
	exts := make([]string, 0, len(p.Extensions))
	for ext := range p.Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// sourceFiles returns path itself when it is a file, or the matching files
// directly inside it when it is a directory
func sourceFiles(path string, match func(string) bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && match(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}
