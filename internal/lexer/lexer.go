// Package lexer provides the character-level lexical helpers the parser is
// built on: whitespace and comment skipping, exact token and keyword
// matching, and the name, string and numeral readers.
//
// There is no token stream. Every helper works directly on the underlying
// stream.Stream at the first significant character of a construct and,
// after consuming something, skips the whitespace that follows it.
package lexer

import (
	"github.com/luma-lang/luma/internal/config"
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/position"
	"github.com/luma-lang/luma/internal/stream"
)

// Lexer wraps a stream with the read-only options of one parse
type Lexer struct {
	s    *stream.Stream
	opts config.Options
	// err is the first unterminated block comment met by an implicit skip.
	err *diagnostics.Error
	// end is where the last consumed construct ended, before the whitespace
	// skipped after it.
	end position.Position
	// spaced is set when that skip consumed anything.
	spaced bool
}

// New creates a lexer over s
func New(s *stream.Stream, opts config.Options) *Lexer {
	return &Lexer{s: s, opts: opts}
}

// Stream returns the underlying stream
func (l *Lexer) Stream() *stream.Stream {
	return l.s
}

// Options returns the options of the parse
func (l *Lexer) Options() config.Options {
	return l.opts
}

// Dialect returns the active dialect
func (l *Lexer) Dialect() config.Dialect {
	return l.opts.Dialect
}

// Position returns the position of the next unread byte
func (l *Lexer) Position() position.Position {
	return l.s.Position()
}

// Peek returns the byte offset bytes ahead, or 0 past the end
func (l *Lexer) Peek(offset int) byte {
	return l.s.PeekOr(offset)
}

// AtEOF reports whether the whole input has been consumed
func (l *Lexer) AtEOF() bool {
	return l.s.IsOOB(0)
}

// Err returns the error met by an implicit whitespace skip, if any
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Errorf creates an error at the current position
func (l *Lexer) Errorf(kind diagnostics.Kind, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(kind, l.s.File(), l.s.Position(), format, args...)
}

// ErrorAt creates an error at pos
func (l *Lexer) ErrorAt(kind diagnostics.Kind, pos position.Position, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(kind, l.s.File(), pos, format, args...)
}

// Unexpected reports the character at the cursor as unexpected, or the end
// of the file when nothing is left
func (l *Lexer) Unexpected(expected string) *diagnostics.Error {
	if l.AtEOF() {
		return l.Errorf(diagnostics.KindUnexpectedFileEnd, "unexpected end of file, expected %s", expected)
	}
	return l.Errorf(diagnostics.KindUnexpectedCharacter, "unexpected character %q, expected %s", l.Peek(0), expected)
}

// ====== Whitespace and comments ======

// SkipSpace consumes whitespace, line comments and block comments. A block
// comment "--[==[ ... ]==]" is closed only by a bracket of the same level.
func (l *Lexer) SkipSpace() error {
	for !l.s.IsOOB(0) {
		c := l.s.PeekOr(0)
		switch {
		case stream.IsBreakChar(c):
			l.s.NewLine(true)
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			l.s.Skip(1)
		case c == '-' && l.s.PeekOr(1) == '-':
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skip is SkipSpace for helpers that cannot return an error. The first
// failure is kept for Err.
func (l *Lexer) skip() {
	l.end = l.s.Position()
	if err := l.SkipSpace(); err != nil && l.err == nil {
		l.err = err.(*diagnostics.Error)
	}
	l.spaced = l.s.Offset() > l.end.Offset
}

// LastEnd returns the position right after the last consumed construct
func (l *Lexer) LastEnd() position.Position {
	return l.end
}

// SpaceBefore reports whether whitespace or a comment separates the cursor
// from the last consumed construct
func (l *Lexer) SpaceBefore() bool {
	return l.spaced
}

// Skip consumes n bytes and the whitespace after them. The parser uses it
// after matching multi-character tokens by hand.
func (l *Lexer) Skip(n int) {
	l.s.Skip(n)
	l.skip()
}

func (l *Lexer) skipComment() error {
	start := l.s.Position()
	l.s.Skip(2)
	if level := l.LongBracketLevel(0); level >= 0 {
		l.s.Skip(level + 2)
		if !l.skipLongBody(level, nil) {
			return l.ErrorAt(diagnostics.KindUnexpectedFileEnd, start, "unfinished long comment")
		}
		return nil
	}
	for !l.s.IsOOB(0) && !stream.IsBreakChar(l.s.PeekOr(0)) {
		l.s.Skip(1)
	}
	return nil
}

// LongBracketLevel returns the level of the long bracket opener "[==["
// starting offset bytes ahead, or -1 if there is none.
func (l *Lexer) LongBracketLevel(offset int) int {
	if l.s.PeekOr(offset) != '[' {
		return -1
	}
	level := 0
	for l.s.PeekOr(offset+1+level) == '=' {
		level++
	}
	if l.s.PeekOr(offset+1+level) != '[' {
		return -1
	}
	return level
}

// skipLongBody consumes up to and including the closer of the given level,
// appending the normalized content to buf when it is not nil. It returns
// false when the input ends first.
func (l *Lexer) skipLongBody(level int, buf *[]byte) bool {
	for !l.s.IsOOB(0) {
		c := l.s.PeekOr(0)
		switch {
		case c == ']' && l.closesLevel(level):
			l.s.Skip(level + 2)
			return true
		case stream.IsBreakChar(c):
			l.s.NewLine(true)
			if buf != nil {
				*buf = append(*buf, '\n')
			}
		default:
			l.s.Skip(1)
			if buf != nil {
				*buf = append(*buf, c)
			}
		}
	}
	return false
}

func (l *Lexer) closesLevel(level int) bool {
	for i := 1; i <= level; i++ {
		if l.s.PeekOr(i) != '=' {
			return false
		}
	}
	return l.s.PeekOr(level+1) == ']'
}

// ====== Tokens and keywords ======

// CheckToken reports whether tok is next, without consuming it
func (l *Lexer) CheckToken(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if l.s.PeekOr(i) != tok[i] {
			return false
		}
	}
	return len(tok) > 0
}

// CheckReadToken consumes tok and the whitespace after it if tok is next
func (l *Lexer) CheckReadToken(tok string) bool {
	if !l.CheckToken(tok) {
		return false
	}
	l.s.Skip(len(tok))
	l.skip()
	return true
}

// RequireToken consumes tok or fails
func (l *Lexer) RequireToken(tok string) error {
	if l.CheckReadToken(tok) {
		return nil
	}
	return l.Unexpected("'" + tok + "'")
}

// CheckKeyword reports whether the keyword kw is next. Unlike CheckToken it
// requires that kw is not the prefix of a longer name.
func (l *Lexer) CheckKeyword(kw string) bool {
	return l.CheckToken(kw) && !IsNameChar(l.s.PeekOr(len(kw)))
}

// CheckReadKeyword consumes kw and the whitespace after it if kw is next
func (l *Lexer) CheckReadKeyword(kw string) bool {
	if !l.CheckKeyword(kw) {
		return false
	}
	l.s.Skip(len(kw))
	l.skip()
	return true
}

// RequireKeyword consumes kw or fails
func (l *Lexer) RequireKeyword(kw string) error {
	if l.CheckReadKeyword(kw) {
		return nil
	}
	return l.Unexpected("'" + kw + "'")
}

// ====== Names ======

// IsNameStart reports whether c can start a name
func IsNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsNameChar reports whether c can continue a name
func IsNameChar(c byte) bool {
	return IsNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// PeekWord returns the name-shaped word at the cursor without consuming it.
// Reserved words are returned too.
func (l *Lexer) PeekWord() string {
	if !IsNameStart(l.s.PeekOr(0)) {
		return ""
	}
	n := 1
	for IsNameChar(l.s.PeekOr(n)) {
		n++
	}
	return string(l.s.Rest()[:n])
}

// ReadName reads an identifier. Reserved words of the active dialect are
// rejected with a ReservedName error and nothing is consumed.
func (l *Lexer) ReadName() (string, error) {
	word := l.PeekWord()
	if word == "" {
		return "", l.Unexpected("name")
	}
	if IsReserved(word, l.opts.Dialect) {
		return "", l.Errorf(diagnostics.KindReservedName, "%q is a reserved word", word)
	}
	l.s.Skip(len(word))
	l.skip()
	return word, nil
}

// ReadSegment reads one path segment: a name or, in the extended grammar,
// one of the path keywords self, super and crate.
func (l *Lexer) ReadSegment() (string, error) {
	if l.opts.IsExtended() {
		for _, kw := range PathKeywords {
			if l.CheckReadKeyword(kw) {
				return kw, nil
			}
		}
	}
	return l.ReadName()
}

// Mark is a saved lexer state, used for bounded lookahead
type Mark struct {
	s      stream.Mark
	err    *diagnostics.Error
	end    position.Position
	spaced bool
}

// Save returns the current lexer state
func (l *Lexer) Save() Mark {
	return Mark{s: l.s.Save(), err: l.err, end: l.end, spaced: l.spaced}
}

// Restore moves back to a saved state
func (l *Lexer) Restore(m Mark) {
	l.s.Restore(m.s)
	l.err, l.end, l.spaced = m.err, m.end, m.spaced
}
