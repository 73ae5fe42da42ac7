package ast

import (
	"fmt"

	"github.com/luma-lang/luma/internal/config"
)

// BinOp is a binary operator
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	// Extended grammar only
	OpRange
	OpRangeInclusive
	OpAs

	binOpCount
)

// PrefixOp is a prefix unary operator
type PrefixOp int

const (
	PreNeg PrefixOp = iota
	PreNot
	PreLen
	PreBitNot
	// Extended grammar only
	PreRef
	PreRefMut
	PreDeref

	prefixOpCount
)

// PostfixOp is a postfix unary operator (extended grammar only)
type PostfixOp int

const (
	PostTry PostfixOp = iota
	PostDeref

	postfixOpCount
)

// Assoc is the associativity of a binary operator
type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// OpInfo is the precedence band and associativity of an operator. Higher
// precedence binds tighter. A zero precedence marks an operator the dialect
// does not have.
type OpInfo struct {
	Prec  int
	Assoc Assoc
}

// UnaryPrec is the precedence of prefix/postfix operators and of "as" casts
const UnaryPrec = 11

var binarySymbols = [binOpCount][config.DialectCount]string{
	OpAdd:            {"+", "+"},
	OpSub:            {"-", "-"},
	OpMul:            {"*", "*"},
	OpDiv:            {"/", "/"},
	OpFloorDiv:       {"//", "//"},
	OpMod:            {"%", "%"},
	OpPow:            {"^", "^"},
	OpConcat:         {"..", "++"},
	OpEq:             {"==", "=="},
	OpNe:             {"~=", "!="},
	OpLt:             {"<", "<"},
	OpLe:             {"<=", "<="},
	OpGt:             {">", ">"},
	OpGe:             {">=", ">="},
	OpAnd:            {"and", "and"},
	OpOr:             {"or", "or"},
	OpBitAnd:         {"&", "&"},
	OpBitOr:          {"|", "|"},
	OpBitXor:         {"~", "~"},
	OpShl:            {"<<", "<<"},
	OpShr:            {">>", ">>"},
	OpRange:          {"", ".."},
	OpRangeInclusive: {"", "..="},
	OpAs:             {"", "as"},
}

// binaryInfo is indexed by operator and dialect. The tables differ on
// concatenation (right associative below the additive band in the classic
// grammar, left associative within it in the extended one) and on the
// extended-only range and cast operators.
var binaryInfo = [binOpCount][config.DialectCount]OpInfo{
	OpOr:             {{1, LeftAssoc}, {1, LeftAssoc}},
	OpAnd:            {{2, LeftAssoc}, {2, LeftAssoc}},
	OpEq:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpNe:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpLt:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpLe:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpGt:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpGe:             {{3, LeftAssoc}, {3, LeftAssoc}},
	OpRange:          {{}, {4, LeftAssoc}},
	OpRangeInclusive: {{}, {4, LeftAssoc}},
	OpBitOr:          {{4, LeftAssoc}, {5, LeftAssoc}},
	OpBitXor:         {{5, LeftAssoc}, {6, LeftAssoc}},
	OpBitAnd:         {{6, LeftAssoc}, {7, LeftAssoc}},
	OpShl:            {{7, LeftAssoc}, {8, LeftAssoc}},
	OpShr:            {{7, LeftAssoc}, {8, LeftAssoc}},
	OpConcat:         {{8, RightAssoc}, {9, LeftAssoc}},
	OpAdd:            {{9, LeftAssoc}, {9, LeftAssoc}},
	OpSub:            {{9, LeftAssoc}, {9, LeftAssoc}},
	OpMul:            {{10, LeftAssoc}, {10, LeftAssoc}},
	OpDiv:            {{10, LeftAssoc}, {10, LeftAssoc}},
	OpFloorDiv:       {{10, LeftAssoc}, {10, LeftAssoc}},
	OpMod:            {{10, LeftAssoc}, {10, LeftAssoc}},
	OpAs:             {{}, {UnaryPrec, LeftAssoc}},
	OpPow:            {{12, RightAssoc}, {12, RightAssoc}},
}

var prefixSymbols = [prefixOpCount][config.DialectCount]string{
	PreNeg:    {"-", "-"},
	PreNot:    {"not", "!"},
	PreLen:    {"#", "#"},
	PreBitNot: {"~", "~"},
	PreRef:    {"", "&"},
	PreRefMut: {"", "&mut"},
	PreDeref:  {"", "*"},
}

var prefixPrec = [prefixOpCount][config.DialectCount]int{
	PreNeg:    {UnaryPrec, UnaryPrec},
	PreNot:    {UnaryPrec, UnaryPrec},
	PreLen:    {UnaryPrec, UnaryPrec},
	PreBitNot: {UnaryPrec, UnaryPrec},
	PreRef:    {0, UnaryPrec},
	PreRefMut: {0, UnaryPrec},
	PreDeref:  {0, UnaryPrec},
}

var postfixSymbols = [postfixOpCount]string{
	PostTry:   "?",
	PostDeref: ".*",
}

var postfixPrec = [postfixOpCount][config.DialectCount]int{
	PostTry:   {0, UnaryPrec},
	PostDeref: {0, UnaryPrec},
}

// Info returns the precedence and associativity of op under dialect d
func (op BinOp) Info(d config.Dialect) OpInfo {
	return binaryInfo[op][d]
}

// Symbol returns the spelling of op under dialect d
func (op BinOp) Symbol(d config.Dialect) string {
	return binarySymbols[op][d]
}

func (op BinOp) String() string {
	if op < 0 || op >= binOpCount {
		return fmt.Sprintf("BinOp(%d)", int(op))
	}
	if s := binarySymbols[op][config.Extended]; s != "" {
		return s
	}
	return binarySymbols[op][config.Classic]
}

// Prec returns the precedence of op under dialect d
func (op PrefixOp) Prec(d config.Dialect) int {
	return prefixPrec[op][d]
}

// Symbol returns the spelling of op under dialect d
func (op PrefixOp) Symbol(d config.Dialect) string {
	return prefixSymbols[op][d]
}

func (op PrefixOp) String() string {
	if op < 0 || op >= prefixOpCount {
		return fmt.Sprintf("PrefixOp(%d)", int(op))
	}
	if s := prefixSymbols[op][config.Classic]; s != "" {
		return s
	}
	return prefixSymbols[op][config.Extended]
}

// Prec returns the precedence of op under dialect d
func (op PostfixOp) Prec(d config.Dialect) int {
	return postfixPrec[op][d]
}

func (op PostfixOp) String() string {
	if op < 0 || op >= postfixOpCount {
		return fmt.Sprintf("PostfixOp(%d)", int(op))
	}
	return postfixSymbols[op]
}

// BinOps returns every binary operator
func BinOps() []BinOp {
	ops := make([]BinOp, binOpCount)
	for i := range ops {
		ops[i] = BinOp(i)
	}
	return ops
}

// PrefixOps returns every prefix operator
func PrefixOps() []PrefixOp {
	ops := make([]PrefixOp, prefixOpCount)
	for i := range ops {
		ops[i] = PrefixOp(i)
	}
	return ops
}
