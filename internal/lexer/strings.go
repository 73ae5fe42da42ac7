package lexer

import (
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/stream"
)

// maxUTF8 is the largest code point a \u{...} escape may encode
const maxUTF8 = 0x7FFFFFFF

// IsStringStart reports whether a string literal starts at the cursor
func (l *Lexer) IsStringStart() bool {
	c := l.s.PeekOr(0)
	return c == '"' || c == '\'' || l.LongBracketLevel(0) >= 0
}

// ReadStringLiteral reads a quoted or long bracket string and returns its
// value after escape processing. long reports the bracket form.
func (l *Lexer) ReadStringLiteral() (value string, long bool, err error) {
	switch c := l.s.PeekOr(0); {
	case c == '"' || c == '\'':
		value, err = l.readQuoted(c)
	case l.LongBracketLevel(0) >= 0:
		long = true
		value, err = l.readLong()
	default:
		return "", false, l.Unexpected("string")
	}
	if err != nil {
		return "", long, err
	}
	l.skip()
	return value, long, nil
}

func (l *Lexer) readLong() (string, error) {
	start := l.s.Position()
	level := l.LongBracketLevel(0)
	l.s.Skip(level + 2)
	// a break right after the opener is not part of the string
	if stream.IsBreakChar(l.s.PeekOr(0)) {
		l.s.NewLine(true)
	}
	var buf []byte
	if !l.skipLongBody(level, &buf) {
		return "", l.ErrorAt(diagnostics.KindUnexpectedFileEnd, start, "unfinished long string")
	}
	return string(buf), nil
}

func (l *Lexer) readQuoted(quote byte) (string, error) {
	start := l.s.Position()
	l.s.Skip(1)
	var buf []byte
	for {
		c, err := l.s.Peek(0)
		if err != nil {
			return "", l.ErrorAt(diagnostics.KindUnexpectedFileEnd, start, "unfinished string")
		}
		switch {
		case c == quote:
			l.s.Skip(1)
			return string(buf), nil
		case stream.IsBreakChar(c):
			return "", l.Errorf(diagnostics.KindSyntax, "unfinished string")
		case c == '\\':
			if buf, err = l.readEscape(buf); err != nil {
				return "", err
			}
		default:
			l.s.Skip(1)
			buf = append(buf, c)
		}
	}
}

var simpleEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

// readEscape decodes the escape sequence at the cursor (which is on the
// backslash) and appends it to buf
func (l *Lexer) readEscape(buf []byte) ([]byte, error) {
	pos := l.s.Position()
	l.s.Skip(1)
	c, err := l.s.Peek(0)
	if err != nil {
		return nil, err
	}
	if b, ok := simpleEscapes[c]; ok {
		l.s.Skip(1)
		return append(buf, b), nil
	}
	switch {
	case stream.IsBreakChar(c):
		l.s.NewLine(true)
		return append(buf, '\n'), nil
	case c == 'z':
		l.s.Skip(1)
		for !l.s.IsOOB(0) {
			c := l.s.PeekOr(0)
			if stream.IsBreakChar(c) {
				l.s.NewLine(true)
			} else if c == ' ' || c == '\t' || c == '\v' || c == '\f' {
				l.s.Skip(1)
			} else {
				break
			}
		}
		return buf, nil
	case c == 'x':
		l.s.Skip(1)
		hi, lo := l.s.PeekOr(0), l.s.PeekOr(1)
		if !isHexDigit(hi) || !isHexDigit(lo) {
			return nil, l.ErrorAt(diagnostics.KindUnexpectedCharacter, pos, "hexadecimal digit expected in \\x escape")
		}
		l.s.Skip(2)
		return append(buf, hexValue(hi)<<4|hexValue(lo)), nil
	case c == 'u':
		return l.readUnicodeEscape(buf, pos)
	case isDigit(c):
		v := 0
		for i := 0; i < 3 && isDigit(l.s.PeekOr(0)); i++ {
			v = v*10 + int(l.s.PeekOr(0)-'0')
			l.s.Skip(1)
		}
		if v > 255 {
			return nil, l.ErrorAt(diagnostics.KindSyntax, pos, "decimal escape too large")
		}
		return append(buf, byte(v)), nil
	}
	return nil, l.ErrorAt(diagnostics.KindUnexpectedCharacter, pos, "invalid escape sequence '\\%c'", c)
}

func (l *Lexer) readUnicodeEscape(buf []byte, pos position.Position) ([]byte, error) {
	l.s.Skip(1)
	if l.s.PeekOr(0) != '{' {
		return nil, l.ErrorAt(diagnostics.KindUnexpectedCharacter, pos, "missing '{' in \\u{xxxx}")
	}
	l.s.Skip(1)
	if !isHexDigit(l.s.PeekOr(0)) {
		return nil, l.ErrorAt(diagnostics.KindUnexpectedCharacter, pos, "hexadecimal digit expected in \\u escape")
	}
	var r uint64
	for isHexDigit(l.s.PeekOr(0)) {
		r = r<<4 | uint64(hexValue(l.s.PeekOr(0)))
		if r > maxUTF8 {
			return nil, l.ErrorAt(diagnostics.KindUnicode, pos, "UTF-8 value too large")
		}
		l.s.Skip(1)
	}
	if l.s.PeekOr(0) != '}' {
		return nil, l.ErrorAt(diagnostics.KindUnexpectedCharacter, pos, "missing '}' in \\u{xxxx}")
	}
	l.s.Skip(1)
	return AppendUTF8(buf, uint32(r)), nil
}

// AppendUTF8 encodes r with the original 31-bit UTF-8 scheme (up to six
// bytes) so that every value up to 0x7FFFFFFF has an encoding.
func AppendUTF8(buf []byte, r uint32) []byte {
	if r < 0x80 {
		return append(buf, byte(r))
	}
	var tmp [6]byte
	n := len(tmp) - 1
	mfb := uint32(0x3f) // largest value the first byte can still hold
	for {
		tmp[n] = byte(0x80 | r&0x3f)
		n--
		r >>= 6
		mfb >>= 1
		if r <= mfb {
			break
		}
	}
	tmp[n] = byte(^mfb<<1 | r)
	return append(buf, tmp[n:]...)
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// SkipString consumes a string literal without decoding it. It is used by
// error recovery, which only needs to step over strings. It reports false
// when the literal does not end before the end of its line or file.
func (l *Lexer) SkipString() bool {
	_, _, err := l.ReadStringLiteral()
	return err == nil
}
