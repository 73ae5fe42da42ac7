package oporder

import (
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
)

// Render prints e with every operator application parenthesized, for
// example "(-(2 ^ 2))". Operands without operators are printed by leaf.
// Parenthesized operands that hold a chain are rendered recursively.
func Render(e *ast.Expression, d config.Dialect, leaf func(*ast.Expression) string) string {
	if m, ok := e.Data.(*ast.MultiOp); ok {
		return renderChain(m.Operands(), m, Resolve(m, d), d, leaf)
	}
	return renderChain([]*ast.Expression{e}, nil, ResolveOperand(e, d), d, leaf)
}

func renderChain(ops []*ast.Expression, m *ast.MultiOp, steps []Step, d config.Dialect, leaf func(*ast.Expression) string) string {
	text := make([]string, len(ops))
	group := make([]int, len(ops))
	for i, op := range ops {
		text[i] = renderOperand(op, d, leaf)
		group[i] = i
	}
	// text lives at the group id; groups are relabelled on merge
	for _, st := range steps {
		switch st.Kind {
		case Prefix:
			op := ops[st.Operand].Prefix[st.Index]
			g := group[st.Operand]
			sym := op.Op.Symbol(d)
			if sym == "" {
				sym = op.Op.String()
			}
			if len(op.Lifetimes) > 0 {
				sym = "&/" + strings.Join(op.Lifetimes, "/")
				if op.Op == ast.PreRefMut {
					sym += " mut"
				}
			}
			if endsInWord(sym) {
				sym += " "
			}
			text[g] = "(" + sym + text[g] + ")"
		case Postfix:
			g := group[st.Operand]
			text[g] = "(" + text[g] + ops[st.Operand].Postfix[st.Index].Op.String() + ")"
		case Binary:
			l, r := group[st.Index], group[st.Index+1]
			text[l] = "(" + text[l] + " " + m.Links[st.Index].Op.Symbol(d) + " " + text[r] + ")"
			for i := range group {
				if group[i] == r {
					group[i] = l
				}
			}
		}
	}
	return text[group[0]]
}

func renderOperand(e *ast.Expression, d config.Dialect, leaf func(*ast.Expression) string) string {
	switch data := e.Data.(type) {
	case *ast.MultiOp:
		// a bare chain only occurs as a parenthesized operand
		return Render(e, d, leaf)
	case *ast.Paren:
		return Render(data.Inner, d, leaf)
	}
	return leaf(e)
}

func endsInWord(sym string) bool {
	c := sym[len(sym)-1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
