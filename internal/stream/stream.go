// Package stream implements the bounds-checked byte cursor the lexer and
// parser read source text through. Line and column tracking is driven by a
// single newline normalization state machine.
package stream

import (
	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/position"
)

// Stream is a cursor over a whole source file
type Stream struct {
	text      []byte
	file      string
	pos       int // offset of the next unread byte
	line      int // 1-based line of pos
	lineStart int // offset at which the current line starts
}

// New creates a stream over text. file is only used for diagnostics.
func New(text []byte, file string) *Stream {
	return &Stream{
		text: text,
		file: file,
		line: 1,
	}
}

// File returns the file name given to New
func (s *Stream) File() string {
	return s.file
}

// Text returns the whole underlying buffer
func (s *Stream) Text() []byte {
	return s.text
}

// Offset returns the offset of the next unread byte
func (s *Stream) Offset() int {
	return s.pos
}

// Line returns the current 1-based line
func (s *Stream) Line() int {
	return s.line
}

// Position returns the position of the next unread byte
func (s *Stream) Position() position.Position {
	return position.Position{
		Line:   s.line,
		Column: s.pos - s.lineStart + 1,
		Offset: s.pos,
	}
}

// Len returns the number of unread bytes
func (s *Stream) Len() int {
	return len(s.text) - s.pos
}

// Rest returns the unread bytes without consuming them
func (s *Stream) Rest() []byte {
	return s.text[s.pos:]
}

// IsOOB reports whether offset bytes ahead lies past the end of the input.
// It never fails, which makes it the tool for lookahead-heavy decisions.
func (s *Stream) IsOOB(offset int) bool {
	return offset < 0 || s.pos+offset >= len(s.text)
}

// Peek returns the byte offset bytes ahead without consuming anything
func (s *Stream) Peek(offset int) (byte, error) {
	if s.IsOOB(offset) {
		return 0, s.endOfStream()
	}
	return s.text[s.pos+offset], nil
}

// PeekOr returns the byte offset bytes ahead, or 0 past the end of the input
func (s *Stream) PeekOr(offset int) byte {
	if s.IsOOB(offset) {
		return 0
	}
	return s.text[s.pos+offset]
}

// Get consumes and returns one byte
func (s *Stream) Get() (byte, error) {
	if s.IsOOB(0) {
		return 0, s.endOfStream()
	}
	c := s.text[s.pos]
	s.pos++
	return c, nil
}

// GetN consumes and returns n bytes
func (s *Stream) GetN(n int) ([]byte, error) {
	if n > 0 && s.IsOOB(n-1) {
		return nil, s.endOfStream()
	}
	b := s.text[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// Skip advances n bytes without returning them. Skipping past the end stops
// at the end of the input.
func (s *Stream) Skip(n int) {
	s.pos += n
	if s.pos > len(s.text) {
		s.pos = len(s.text)
	}
}

// BreakLen returns the length of the logical line break offset bytes ahead,
// or 0 if no break starts there.
func (s *Stream) BreakLen(offset int) int {
	var nl newline
	n := 0
	for !s.IsOOB(offset + n) {
		if !nl.feed(s.text[s.pos+offset+n]) {
			break
		}
		n++
		if nl.done() {
			break
		}
	}
	return n
}

// NewLine records a logical line break at the cursor: the line counter is
// incremented and the column reset. With consume the break characters are
// skipped as part of the call; without it the caller skips them later, and
// BreakLen reports how many there are.
func (s *Stream) NewLine(consume bool) int {
	n := s.BreakLen(0)
	s.line++
	s.lineStart = s.pos + n
	if consume {
		s.pos += n
	}
	return n
}

func (s *Stream) endOfStream() error {
	return diagnostics.New(diagnostics.KindUnexpectedFileEnd, s.file, s.Position(), "unexpected end of file")
}

// Restore moves the cursor back to a previously saved mark
func (s *Stream) Restore(m Mark) {
	s.pos = m.pos
	s.line = m.line
	s.lineStart = m.lineStart
}

// Save returns a mark for the current cursor state
func (s *Stream) Save() Mark {
	return Mark{pos: s.pos, line: s.line, lineStart: s.lineStart}
}

// Mark is an opaque saved cursor state
type Mark struct {
	pos       int
	line      int
	lineStart int
}

// Offset returns the byte offset the mark points at
func (m Mark) Offset() int {
	return m.pos
}
