// Package oporder linearizes the flat operator chains built by the parser.
//
// The parser attaches prefix and postfix operators to each operand and keeps
// binary operator chains flat (ast.MultiOp). Resolve turns one chain into
// the order in which its operators apply, following the precedence and
// associativity tables of the active dialect. The algorithm itself knows
// nothing about either dialect.
package oporder

import (
	"fmt"
	"sort"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
)

// Kind tells which operator list a step refers to
type Kind int

const (
	Binary Kind = iota
	Prefix
	Postfix
)

func (k Kind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Prefix:
		return "prefix"
	case Postfix:
		return "postfix"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Step is one operator application. For Binary steps Index is the link
// index, which joins operands Index and Index+1. For unary steps Operand is
// the operand the operator is attached to and Index its position in that
// operand's Prefix or Postfix list.
type Step struct {
	Kind    Kind
	Operand int
	Index   int
}

// Resolve returns the application order of every operator in the chain,
// unary operators of the operands included. Each operator appears exactly
// once.
//
// Binary operators apply by precedence, tightest first; equal precedence
// applies left to right for left associative operators and right to left
// for right associative ones. Before a binary operator applies, the groups
// on both of its sides take their pending unary operators: the ones standing
// between the group and the binary operator always apply, the ones on the
// far side only while they bind at least as tightly as the binary operator.
// Unary operators still pending when the chain is complete wrap the whole
// chain.
func Resolve(m *ast.MultiOp, d config.Dialect) []Step {
	s := newState(m.Operands(), d)
	for _, k := range binaryOrder(m, d) {
		prec := m.Links[k].Op.Info(d).Prec
		llo, lhi := s.bounds(k)
		s.consume(llo, lhi, true, false, prec)
		rlo, rhi := s.bounds(k + 1)
		s.consume(rlo, rhi, false, true, prec)
		s.steps = append(s.steps, Step{Kind: Binary, Operand: k, Index: k})
		s.merge(lhi, rlo)
	}
	s.consume(0, len(s.ops)-1, false, false, 0)
	return s.steps
}

// ResolveOperand returns the application order of the unary operators of a
// single expression that is not part of a chain
func ResolveOperand(e *ast.Expression, d config.Dialect) []Step {
	s := newState([]*ast.Expression{e}, d)
	s.consume(0, 0, false, false, 0)
	return s.steps
}

// binaryOrder sorts the link indexes of m into application order
func binaryOrder(m *ast.MultiOp, d config.Dialect) []int {
	order := make([]int, len(m.Links))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := m.Links[order[a]].Op.Info(d), m.Links[order[b]].Op.Info(d)
		if ia.Prec != ib.Prec {
			return ia.Prec > ib.Prec
		}
		if ia.Assoc == ast.RightAssoc && ib.Assoc == ast.RightAssoc {
			return order[a] > order[b]
		}
		return order[a] < order[b]
	})
	return order
}

type state struct {
	d     config.Dialect
	ops   []*ast.Expression
	group []int // group id per operand; groups are contiguous
	// preLeft counts the prefix operators not yet applied; they are always
	// the outermost ones, Prefix[:preLeft].
	preLeft []int
	// postDone counts the postfix operators applied; they are always the
	// innermost ones, Postfix[:postDone].
	postDone []int
	steps    []Step
}

func newState(ops []*ast.Expression, d config.Dialect) *state {
	s := &state{
		d:        d,
		ops:      ops,
		group:    make([]int, len(ops)),
		preLeft:  make([]int, len(ops)),
		postDone: make([]int, len(ops)),
	}
	for i, e := range ops {
		s.group[i] = i
		s.preLeft[i] = len(e.Prefix)
	}
	return s
}

// bounds returns the first and last operand of the group containing i
func (s *state) bounds(i int) (lo, hi int) {
	lo, hi = i, i
	for lo > 0 && s.group[lo-1] == s.group[i] {
		lo--
	}
	for hi < len(s.group)-1 && s.group[hi+1] == s.group[i] {
		hi++
	}
	return lo, hi
}

// merge joins the groups ending at lhi and starting at rlo
func (s *state) merge(lhi, rlo int) {
	_, rhi := s.bounds(rlo)
	for i := rlo; i <= rhi; i++ {
		s.group[i] = s.group[lhi]
	}
}

// consume applies the pending unary operators of the group [lo, hi]: the
// prefix operators of operand lo and the postfix operators of operand hi.
// Operators on a forced side always apply; the others apply while their
// precedence is at least limit. The tighter candidate goes first, postfix
// before prefix when they tie.
func (s *state) consume(lo, hi int, forcePost, forcePre bool, limit int) {
	for {
		hasPre := s.preLeft[lo] > 0
		hasPost := s.postDone[hi] < len(s.ops[hi].Postfix)
		if !hasPre && !hasPost {
			return
		}
		var prePrec, postPrec int
		if hasPre {
			prePrec = s.ops[lo].Prefix[s.preLeft[lo]-1].Op.Prec(s.d)
		}
		if hasPost {
			postPrec = s.ops[hi].Postfix[s.postDone[hi]].Op.Prec(s.d)
		}
		takePost := hasPost && (!hasPre || postPrec >= prePrec)
		prec := prePrec
		if takePost {
			prec = postPrec
		}
		forced := (forcePost && hasPost) || (forcePre && hasPre)
		if !forced && prec < limit {
			return
		}
		if takePost {
			s.steps = append(s.steps, Step{Kind: Postfix, Operand: hi, Index: s.postDone[hi]})
			s.postDone[hi]++
		} else {
			s.preLeft[lo]--
			s.steps = append(s.steps, Step{Kind: Prefix, Operand: lo, Index: s.preLeft[lo]})
		}
	}
}
