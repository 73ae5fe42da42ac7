package lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/position"
)

// IsNumeralStart reports whether a numeral starts at the cursor
func (l *Lexer) IsNumeralStart() bool {
	c := l.s.PeekOr(0)
	return isDigit(c) || (c == '.' && isDigit(l.s.PeekOr(1)))
}

// numeralShape is what scanning a numeral found
type numeralShape struct {
	n         int  // length in bytes
	hex       bool // 0x prefix
	float     bool // fraction or exponent present
	malformed bool // exponent without digits
}

// scanNumeral measures the numeral at the start of b. A '.' followed by
// another '.' ends the numeral so that "1..2" reads as 1 followed by "..".
func scanNumeral(b []byte, underscores bool) numeralShape {
	at := func(i int) byte {
		if i < len(b) {
			return b[i]
		}
		return 0
	}
	var sh numeralShape
	digit := isDigit
	i := 0
	if at(0) == '0' && (at(1) == 'x' || at(1) == 'X') &&
		(isHexDigit(at(2)) || (at(2) == '.' && isHexDigit(at(3)))) {
		sh.hex = true
		digit = isHexDigit
		i = 2
	}
	digits := func() {
		for {
			c := at(i)
			if digit(c) {
				i++
				continue
			}
			// a separator must sit between two digits
			if c == '_' && underscores && i > 0 && digit(at(i-1)) && digit(at(i+1)) {
				i++
				continue
			}
			return
		}
	}
	digits()
	if at(i) == '.' && at(i+1) != '.' {
		sh.float = true
		i++
		digits()
	}
	exp := byte('e')
	if sh.hex {
		exp = 'p'
	}
	if c := at(i); c == exp || c == exp-('a'-'A') {
		sh.float = true
		i++
		if at(i) == '+' || at(i) == '-' {
			i++
		}
		if !isDigit(at(i)) {
			sh.malformed = true
		}
		for isDigit(at(i)) {
			i++
		}
	}
	sh.n = i
	return sh
}

// ReadNumeral reads a numeric literal and classifies it. It returns the
// number and the literal text as written.
func (l *Lexer) ReadNumeral() (ast.Number, string, error) {
	if !l.IsNumeralStart() {
		return ast.Number{}, "", l.Unexpected("number")
	}
	start := l.s.Position()
	rest := l.s.Rest()
	sh := scanNumeral(rest, l.opts.IsExtended())
	text := string(rest[:sh.n])
	if sh.malformed || (l.opts.SeparatedNumerals && sh.n < len(rest) && IsNameChar(rest[sh.n])) {
		end := sh.n
		for end < len(rest) && (IsNameChar(rest[end]) || rest[end] == '.') {
			end++
		}
		return ast.Number{}, "", l.ErrorAt(diagnostics.KindUnexpectedCharacter, start, "malformed number near %q", rest[:end])
	}
	num, err := l.classify(text, sh, start)
	if err != nil {
		return ast.Number{}, "", err
	}
	l.s.Skip(sh.n)
	l.skip()
	return num, text, nil
}

func (l *Lexer) classify(text string, sh numeralShape, start position.Position) (ast.Number, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if sh.float {
		if sh.hex && !strings.ContainsAny(clean, "pP") {
			clean += "p0"
		}
		return parseFloat(clean), nil
	}

	digits, base := clean, 10
	if sh.hex {
		digits, base = clean[2:], 16
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return ast.Number{}, l.ErrorAt(diagnostics.KindSyntax, start, "malformed number %q", text)
	}
	if kind, fits := ast.NarrowestInteger(v, l.opts.IsExtended()); fits {
		return ast.IntNumber(kind, v), nil
	}
	if l.opts.Overflow == config.StrictIntegers {
		widest := "i64"
		if l.opts.IsExtended() {
			widest = "u128"
		}
		return ast.Number{}, l.ErrorAt(diagnostics.KindIntegerTooBig, start, "integer literal %s does not fit in %s", text, widest)
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return ast.FloatNumber(f), nil
}

// parseFloat converts a decimal or hexadecimal float literal scanned by
// scanNumeral. Literals beyond the float range become infinities.
func parseFloat(s string) ast.Number {
	f, _ := strconv.ParseFloat(s, 64)
	return ast.FloatNumber(f)
}
