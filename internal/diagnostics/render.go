package diagnostics

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/luma-lang/luma/internal/position"
)

// Renderer formats errors with a source excerpt for terminal display
type Renderer struct {
	Out     io.Writer
	NoColor bool

	errColor  *color.Color
	kindColor *color.Color
	lineColor *color.Color
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		Out:       out,
		NoColor:   noColor,
		errColor:  color.New(color.FgRed, color.Bold),
		kindColor: color.New(color.FgYellow),
		lineColor: color.New(color.FgBlue),
	}
	if noColor {
		r.errColor.DisableColor()
		r.kindColor.DisableColor()
		r.lineColor.DisableColor()
	}
	return r
}

// Render writes err. src is the source the error refers to and may be nil,
// in which case no excerpt is printed. A List renders every entry.
func (r *Renderer) Render(err error, src []byte) {
	var list List
	if errors.As(err, &list) {
		for _, e := range list {
			r.renderOne(e, src)
		}
		return
	}

	var de *Error
	if errors.As(err, &de) {
		r.renderOne(de, src)
		return
	}

	fmt.Fprintf(r.Out, "%s %s\n", r.errColor.Sprint("error:"), err.Error())
}

func (r *Renderer) renderOne(e *Error, src []byte) {
	fmt.Fprintf(r.Out, "%s %s %s\n",
		r.errColor.Sprint("error:"),
		e.Message,
		r.kindColor.Sprintf("[%s]", e.Kind))
	fmt.Fprintf(r.Out, "  --> %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)

	if src == nil || !e.Pos.IsValid() {
		return
	}

	line := position.LineAt(src, e.Pos.Offset)
	gutter := r.lineColor.Sprintf("%4d |", e.Pos.Line)
	fmt.Fprintf(r.Out, "%s %s\n", gutter, line)
	fmt.Fprintf(r.Out, "%s %s\n", r.lineColor.Sprint("     |"), position.Caret(line, e.Pos.Column))
}

// Summary writes the error count line printed after a run
func (r *Renderer) Summary(files, failed, errs int) {
	if errs == 0 {
		fmt.Fprintf(r.Out, "checked %d file(s), no errors\n", files)
		return
	}
	fmt.Fprintf(r.Out, "%s %d error(s) in %d of %d file(s)\n",
		r.errColor.Sprint("found"), errs, failed, files)
}
