// Command luma checks Luma and Lua sources with the Luma front end.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/luma-lang/luma/internal/cli"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/logging"
)

// Context is shared by every command
type Context struct {
	Project  *config.Project
	Log      *logrus.Logger
	Renderer *diagnostics.Renderer
	Out      io.Writer
}

// CLI represents the command-line interface
type CLI struct {
	Config    string `help:"Project configuration file (luma.yaml or luma.toml)" placeholder:"FILE"`
	LogLevel  string `help:"Log level (${enum})" default:"warn" enum:"debug,info,warn,error"`
	LogFormat string `help:"Log format (${enum})" default:"text" enum:"text,json"`
	NoColor   bool   `help:"Disable colored output"`

	Check   CheckCmd   `cmd:"" help:"Parse source files and report every error"`
	Symbols SymbolsCmd `cmd:"" help:"Print the interned symbol table of a file"`
	Order   OrderCmd   `cmd:"" help:"Print the order operators of an expression apply in"`
	Watch   WatchCmd   `cmd:"" help:"Check files again whenever they change"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct {
	JSON bool `help:"Print version information as JSON" short:"j"`
}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	return cli.PrintVersion(ctx.Out, "luma", cmd.JSON)
}

// projectFiles are tried in order when --config is not given
var projectFiles = []string{"luma.yaml", "luma.yml", "luma.toml"}

func loadProject(path string) (*config.Project, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return config.Load(path)
	}
	for _, name := range projectFiles {
		if _, err := os.Stat(name); err == nil {
			return config.Load(name)
		}
	}
	return config.DefaultProject(), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	var c CLI
	exited := -1
	parser, err := kong.New(&c,
		kong.Name("luma"),
		kong.Description("Front end for the Luma and Lua languages."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exited = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exited >= 0 {
		return exited
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	log, err := logging.New(c.LogLevel, c.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	project, err := loadProject(c.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	appCtx := &Context{
		Project:  project,
		Log:      log,
		Renderer: diagnostics.NewRenderer(stdout, c.NoColor),
		Out:      stdout,
	}

	err = kctx.Run(appCtx)
	code := cli.ExitCode(err)
	var ee *cli.ExitError
	if err != nil && !(errors.As(err, &ee) && ee.Err == nil) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
