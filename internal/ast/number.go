package ast

import (
	"math/big"
	"strconv"
)

// NumberKind is the representation a numeral was classified into
type NumberKind int

const (
	NumF64 NumberKind = iota
	NumI64
	NumU64
	NumI128
	NumU128
)

func (k NumberKind) String() string {
	switch k {
	case NumF64:
		return "f64"
	case NumI64:
		return "i64"
	case NumU64:
		return "u64"
	case NumI128:
		return "i128"
	case NumU128:
		return "u128"
	}
	return "NumberKind(" + strconv.Itoa(int(k)) + ")"
}

// Number is a classified numeric literal. Integers are stored as the low and
// high 64-bit halves of their magnitude; literals are never negative since
// negation is a prefix operator.
type Number struct {
	Kind  NumberKind
	Float float64
	Lo    uint64
	Hi    uint64
}

// FloatNumber wraps a float value
func FloatNumber(f float64) Number {
	return Number{Kind: NumF64, Float: f}
}

// IntNumber builds an integer number of the given kind from a non-negative
// magnitude. The caller guarantees the magnitude fits the kind.
func IntNumber(kind NumberKind, v *big.Int) Number {
	lo := new(big.Int).And(v, maxU64)
	hi := new(big.Int).Rsh(v, 64)
	return Number{Kind: kind, Lo: lo.Uint64(), Hi: hi.Uint64()}
}

// IsInteger reports whether n holds an integer
func (n Number) IsInteger() bool {
	return n.Kind != NumF64
}

// Big returns the integer magnitude of n. It returns nil for floats.
func (n Number) Big() *big.Int {
	if n.Kind == NumF64 {
		return nil
	}
	v := new(big.Int).SetUint64(n.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(n.Lo))
}

func (n Number) String() string {
	if n.Kind == NumF64 {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	if n.Hi == 0 {
		return strconv.FormatUint(n.Lo, 10)
	}
	return n.Big().String()
}

var (
	maxU64  = new(big.Int).SetUint64(^uint64(0))
	maxI64  = big.NewInt(1<<63 - 1)
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// NarrowestInteger returns the narrowest integer kind that holds v. The
// classic grammar only knows 64-bit signed integers; the extended grammar
// walks i64, u64, i128, u128. ok is false when no kind fits.
func NarrowestInteger(v *big.Int, extended bool) (kind NumberKind, ok bool) {
	if v.Sign() < 0 {
		return 0, false
	}
	if v.Cmp(maxI64) <= 0 {
		return NumI64, true
	}
	if !extended {
		return 0, false
	}
	switch {
	case v.Cmp(maxU64) <= 0:
		return NumU64, true
	case v.Cmp(maxI128) <= 0:
		return NumI128, true
	case v.Cmp(maxU128) <= 0:
		return NumU128, true
	}
	return 0, false
}
