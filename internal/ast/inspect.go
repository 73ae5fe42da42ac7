package ast

// Node is any of *Block, *Statement, *Expression, *Type, *Pattern or
// *FuncBody.
type Node interface{}

// Inspect traverses the tree rooted at node in depth-first order. It calls
// f(n) for every node; if f returns false the children of n are skipped.
func Inspect(node Node, f func(Node) bool) {
	w := inspector(f)
	w.node(node)
}

type inspector func(Node) bool

func (f inspector) node(n Node) {
	switch n := n.(type) {
	case *Block:
		f.block(n)
	case *Statement:
		f.stmt(n)
	case *Expression:
		f.expr(n)
	case *Type:
		f.typ(n)
	case *Pattern:
		f.pattern(n)
	case *FuncBody:
		f.fn(n)
	}
}

func (f inspector) block(b *Block) {
	if b == nil || !f(b) {
		return
	}
	for _, s := range b.Statements {
		f.stmt(s)
	}
	f.exprs(b.Return)
}

func (f inspector) exprs(list []*Expression) {
	for _, e := range list {
		f.expr(e)
	}
}

func (f inspector) types(list []*Type) {
	for _, t := range list {
		f.typ(t)
	}
}

func (f inspector) fn(fb *FuncBody) {
	if fb == nil || !f(fb) {
		return
	}
	for _, p := range fb.Params {
		f.typ(p.Type)
	}
	f.typ(fb.Result)
	f.block(fb.Body)
}

func (f inspector) methods(ms []*Method) {
	for _, m := range ms {
		f.fn(m.Func)
	}
}

func (f inspector) stmt(s *Statement) {
	if s == nil || !f(s) {
		return
	}
	switch d := s.Data.(type) {
	case *Assign:
		for _, t := range d.Targets {
			f.suffixed(t)
		}
		f.exprs(d.Values)
	case *Call:
		f.suffixed(d.Call)
	case *Do:
		f.block(d.Block)
	case *While:
		f.expr(d.Cond)
		f.block(d.Block)
	case *Repeat:
		f.block(d.Block)
		f.expr(d.Cond)
	case *If:
		for _, arm := range d.Arms {
			f.expr(arm.Cond)
			f.block(arm.Block)
		}
		f.block(d.Else)
	case *ForNum:
		f.expr(d.Start)
		f.expr(d.Limit)
		f.expr(d.Step)
		f.block(d.Block)
	case *ForIn:
		f.pattern(d.Pattern)
		f.exprs(d.Exprs)
		f.block(d.Block)
	case *FuncDef:
		f.fn(d.Func)
	case *LocalFunc:
		f.fn(d.Func)
	case *Local:
		f.exprs(d.Values)
	case *Loop:
		f.block(d.Block)
	case *Let:
		f.pattern(d.Pattern)
		f.typ(d.Type)
		f.exprs(d.Values)
	case *Const:
		f.typ(d.Type)
		f.expr(d.Value)
	case *Mod:
		f.block(d.Body)
	case *Struct:
		for _, fl := range d.Fields {
			f.typ(fl.Type)
		}
	case *Enum:
		for _, v := range d.Variants {
			f.types(v.Tuple)
			for _, fl := range v.Fields {
				f.typ(fl.Type)
			}
			f.expr(v.Value)
		}
	case *Trait:
		f.types(d.Supers)
		f.methods(d.Methods)
	case *Impl:
		f.typ(d.Trait)
		f.typ(d.Target)
		f.methods(d.Methods)
	case *TypeAlias:
		f.typ(d.Type)
	case *Unsafe:
		f.block(d.Block)
	case *Drop:
		f.exprs(d.Values)
	case *Match:
		f.match(d.Match)
	}
}

func (f inspector) suffixed(s *Suffixed) {
	if s == nil {
		return
	}
	if p, ok := s.Base.(*ParenBase); ok {
		f.expr(p.Inner)
	}
	for _, suf := range s.Suffixes {
		switch suf := suf.(type) {
		case *IndexSuffix:
			f.expr(suf.Key)
		case *CallSuffix:
			f.args(suf.Args)
		case *MethodSuffix:
			f.args(suf.Args)
		}
	}
}

func (f inspector) args(a *Args) {
	if a == nil {
		return
	}
	switch a.Kind {
	case ArgsList:
		f.exprs(a.List)
	case ArgsTable:
		f.table(a.Table)
	}
}

func (f inspector) table(t *Table) {
	if t == nil {
		return
	}
	for _, fl := range t.Fields {
		f.expr(fl.Key)
		f.expr(fl.Value)
	}
}

func (f inspector) match(m *MatchExpr) {
	if m == nil {
		return
	}
	f.expr(m.Subject)
	for _, arm := range m.Arms {
		f.pattern(arm.Pattern)
		f.expr(arm.Guard)
		f.expr(arm.Value)
		f.block(arm.Block)
	}
}

func (f inspector) expr(e *Expression) {
	if e == nil || !f(e) {
		return
	}
	switch d := e.Data.(type) {
	case *Function:
		f.fn(d.Func)
	case *Table:
		f.table(d)
	case *Array:
		f.exprs(d.Items)
	case *Suffixed:
		f.suffixed(d)
	case *MultiOp:
		f.expr(d.First)
		for _, l := range d.Links {
			f.expr(l.Operand)
		}
	case *IfExpr:
		f.expr(d.Cond)
		f.expr(d.Then)
		for _, arm := range d.ElseIfs {
			f.expr(arm.Cond)
			f.expr(arm.Value)
		}
		f.expr(d.Else)
	case *RangeExpr:
		f.expr(d.Hi)
	case *TypeExpr:
		f.typ(d.Type)
	case *TraitExpr:
		f.types(d.Bounds)
	case *MatchExpr:
		f.match(d)
	case *BlockExpr:
		f.block(d.Block)
	case *Paren:
		f.expr(d.Inner)
	}
}

func (f inspector) typ(t *Type) {
	if t == nil || !f(t) {
		return
	}
	switch d := t.Data.(type) {
	case *PathType:
		f.types(d.Args)
	case *RefType:
		f.typ(d.Elem)
	case *PtrType:
		f.typ(d.Elem)
	case *SliceType:
		f.typ(d.Elem)
	case *ArrayType:
		f.typ(d.Elem)
		f.expr(d.Len)
	case *TupleType:
		f.types(d.Elems)
	case *FnType:
		f.types(d.Params)
		f.typ(d.Result)
	case *DynType:
		f.types(d.Bounds)
	case *ImplType:
		f.types(d.Bounds)
	}
}

func (f inspector) pattern(p *Pattern) {
	if p == nil || !f(p) {
		return
	}
	switch d := p.Data.(type) {
	case *BindingPat:
		f.typ(d.Type)
	case *LiteralPat:
		f.expr(d.Value)
	case *RangePat:
		f.expr(d.Lo)
		f.expr(d.Hi)
	case *Destructure:
		for _, fl := range d.Fields {
			f.pattern(fl.Pattern)
		}
	case *EnumPat:
		for _, e := range d.Elems {
			f.pattern(e)
		}
	case *AltPat:
		for _, a := range d.Alts {
			f.pattern(a)
		}
	}
}
