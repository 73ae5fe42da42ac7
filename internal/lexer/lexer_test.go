package lexer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/ast"
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/stream"
)

func newLexer(src string, d config.Dialect) *Lexer {
	return New(stream.New([]byte(src), "test.lua"), config.DefaultOptions(d))
}

func TestSkipSpace(t *testing.T) {
	l := newLexer("  -- line\n\t--[==[ block ]] ]=] \n still ]==] x", config.Classic)
	assert.NoError(t, l.SkipSpace())
	assert.Equal(t, byte('x'), l.Peek(0))
	assert.Equal(t, 3, l.Position().Line)

	l = newLexer("--[[ never closed", config.Classic)
	err := l.SkipSpace()
	assert.True(t, errors.Is(err, diagnostics.ErrUnexpectedFileEnd))

	// "--[" without a second bracket is a line comment
	l = newLexer("--[ x\ny", config.Classic)
	assert.NoError(t, l.SkipSpace())
	assert.Equal(t, byte('y'), l.Peek(0))
}

func TestKeywords(t *testing.T) {
	l := newLexer("endx end", config.Classic)
	assert.False(t, l.CheckKeyword("end"))
	assert.True(t, l.CheckToken("end"))
	name, err := l.ReadName()
	assert.NoError(t, err)
	assert.Equal(t, "endx", name)
	assert.True(t, l.CheckReadKeyword("end"))
	assert.True(t, l.AtEOF())

	l = newLexer("== =", config.Classic)
	assert.True(t, l.CheckReadToken("=="))
	assert.Error(t, l.RequireToken("=="))
	assert.NoError(t, l.RequireToken("="))
}

func TestReadName(t *testing.T) {
	tests := []struct {
		src     string
		dialect config.Dialect
		name    string
		kind    diagnostics.Kind
		fails   bool
	}{
		{"foo_1 ", config.Classic, "foo_1", 0, false},
		{"goto", config.Classic, "", diagnostics.KindReservedName, true},
		{"goto", config.Extended, "goto", 0, false},
		{"match", config.Classic, "match", 0, false},
		{"match", config.Extended, "", diagnostics.KindReservedName, true},
		{"1abc", config.Classic, "", diagnostics.KindUnexpectedCharacter, true},
		{"", config.Classic, "", diagnostics.KindUnexpectedFileEnd, true},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.dialect.String(), func(t *testing.T) {
			name, err := newLexer(tt.src, tt.dialect).ReadName()
			if tt.fails {
				kind, ok := diagnostics.KindOf(err)
				assert.True(t, ok)
				assert.Equal(t, tt.kind, kind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestReadSegment(t *testing.T) {
	l := newLexer("self::x", config.Extended)
	seg, err := l.ReadSegment()
	assert.NoError(t, err)
	assert.Equal(t, "self", seg)
	assert.True(t, l.CheckReadToken("::"))
}

func TestReadStringLiteral(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		value string
		long  bool
	}{
		{"tab and decimal", `"a\t\65"`, "a\tA", false},
		{"single quotes", `'say "hi"'`, `say "hi"`, false},
		{"simple escapes", `"\a\b\f\n\r\v\\\"\'"`, "\a\b\f\n\r\v\\\"'", false},
		{"hex", `"\x41\x7a"`, "Az", false},
		{"escaped newline", "\"a\\\r\nb\"", "a\nb", false},
		{"z skips space", "\"a\\z  \n\t b\"", "ab", false},
		{"unicode", `"\u{48}\u{E9}"`, "Hé", false},
		{"six byte utf8", `"\u{7FFFFFFF}"`, "\xfd\xbf\xbf\xbf\xbf\xbf", false},
		{"long level 0", "[[x]]", "x", true},
		{"long inner closer is text", "[==[ ]=] ]] ]==]", " ]=] ]] ", true},
		{"long drops first newline", "[[\nline\r\nnext]]", "line\nnext", true},
		{"long normalizes cr", "[=[a\r\rb\n\rc]=]", "a\nb\n\nc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLexer(tt.src, config.Classic)
			value, long, err := l.ReadStringLiteral()
			assert.NoError(t, err)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.long, long)
			assert.True(t, l.AtEOF())
		})
	}
}

func TestReadStringLiteralLines(t *testing.T) {
	l := newLexer("[[\na\nb]] x", config.Classic)
	_, _, err := l.ReadStringLiteral()
	assert.NoError(t, err)
	assert.Equal(t, 3, l.Position().Line)
	assert.Equal(t, 5, l.Position().Column)
}

func TestReadStringLiteralErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind diagnostics.Kind
	}{
		{`"abc`, diagnostics.KindUnexpectedFileEnd},
		{"\"abc\ndef\"", diagnostics.KindSyntax},
		{`"\256"`, diagnostics.KindSyntax},
		{`"\q"`, diagnostics.KindUnexpectedCharacter},
		{`"\xZZ"`, diagnostics.KindUnexpectedCharacter},
		{`"\u{80000000}"`, diagnostics.KindUnicode},
		{`"\u48"`, diagnostics.KindUnexpectedCharacter},
		{"[==[ ]=]", diagnostics.KindUnexpectedFileEnd},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, err := newLexer(tt.src, config.Classic).ReadStringLiteral()
			kind, ok := diagnostics.KindOf(err)
			assert.True(t, ok, "%v", err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestAppendUTF8(t *testing.T) {
	for _, r := range []rune{0, 0x7f, 0x80, 0x7ff, 0x800, 0xffff, 0x10000, 0x10ffff} {
		assert.Equal(t, string(r), string(AppendUTF8(nil, uint32(r))), "%U", r)
	}
	assert.Equal(t, 5, len(AppendUTF8(nil, 0x200000)))
}

func TestReadNumeral(t *testing.T) {
	tests := []struct {
		src      string
		dialect  config.Dialect
		overflow config.OverflowPolicy
		kind     ast.NumberKind
		value    string
	}{
		{"42", config.Classic, config.PromoteToFloat, ast.NumI64, "42"},
		{"9223372036854775807", config.Classic, config.StrictIntegers, ast.NumI64, "9223372036854775807"},
		{"9223372036854775808", config.Classic, config.PromoteToFloat, ast.NumF64, "9.223372036854776e+18"},
		{"9223372036854775808", config.Extended, config.StrictIntegers, ast.NumU64, "9223372036854775808"},
		{"99999999999999999999999999999999999999", config.Classic, config.PromoteToFloat, ast.NumF64, "1e+38"},
		{"99999999999999999999999999999999999999", config.Extended, config.StrictIntegers, ast.NumI128, "99999999999999999999999999999999999999"},
		{"0xff", config.Classic, config.PromoteToFloat, ast.NumI64, "255"},
		{"0xffffffffffffffff", config.Classic, config.PromoteToFloat, ast.NumF64, "1.8446744073709552e+19"},
		{"3.5", config.Classic, config.PromoteToFloat, ast.NumF64, "3.5"},
		{"3.", config.Classic, config.PromoteToFloat, ast.NumF64, "3"},
		{".5", config.Classic, config.PromoteToFloat, ast.NumF64, "0.5"},
		{"1e3", config.Classic, config.PromoteToFloat, ast.NumF64, "1000"},
		{"2E-1", config.Classic, config.PromoteToFloat, ast.NumF64, "0.2"},
		{"0x1p4", config.Classic, config.PromoteToFloat, ast.NumF64, "16"},
		{"0xA.8", config.Classic, config.PromoteToFloat, ast.NumF64, "10.5"},
		{"1_000", config.Extended, config.PromoteToFloat, ast.NumI64, "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.dialect.String(), func(t *testing.T) {
			opts := config.DefaultOptions(tt.dialect)
			opts.Overflow = tt.overflow
			l := New(stream.New([]byte(tt.src), "n.lua"), opts)
			num, text, err := l.ReadNumeral()
			assert.NoError(t, err)
			assert.Equal(t, tt.src, text)
			assert.Equal(t, tt.kind, num.Kind)
			assert.Equal(t, tt.value, num.String())
		})
	}
}

func TestReadNumeralErrors(t *testing.T) {
	strict := config.DefaultOptions(config.Classic)
	strict.Overflow = config.StrictIntegers

	l := New(stream.New([]byte("99999999999999999999999999999999999999"), "n.lua"), strict)
	_, _, err := l.ReadNumeral()
	assert.True(t, errors.Is(err, diagnostics.ErrIntegerTooBig))

	// hexadecimal literals never wrap around
	l = New(stream.New([]byte("0x10000000000000000"), "n.lua"), strict)
	_, _, err = l.ReadNumeral()
	assert.True(t, errors.Is(err, diagnostics.ErrIntegerTooBig))

	l = newLexer("3x", config.Classic)
	_, _, err = l.ReadNumeral()
	assert.True(t, errors.Is(err, diagnostics.ErrUnexpectedCharacter))

	l = newLexer("1e+", config.Classic)
	_, _, err = l.ReadNumeral()
	assert.True(t, errors.Is(err, diagnostics.ErrUnexpectedCharacter))

	// without separation the numeral simply ends
	loose := config.DefaultOptions(config.Classic)
	loose.SeparatedNumerals = false
	l = New(stream.New([]byte("3x"), "n.lua"), loose)
	num, _, err := l.ReadNumeral()
	assert.NoError(t, err)
	assert.Equal(t, "3", num.String())
	assert.Equal(t, byte('x'), l.Peek(0))
}

func TestNumeralStopsBeforeDots(t *testing.T) {
	l := newLexer("1..2", config.Classic)
	num, text, err := l.ReadNumeral()
	assert.NoError(t, err)
	assert.Equal(t, "1", text)
	assert.Equal(t, ast.NumI64, num.Kind)
	assert.True(t, l.CheckToken(".."))
}
