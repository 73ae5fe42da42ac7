package stream

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/diagnostics"
)

func TestPeekGet(t *testing.T) {
	s := New([]byte("abc"), "t.lua")

	c, err := s.Peek(2)
	assert.NoError(t, err)
	assert.Equal(t, byte('c'), c)

	_, err = s.Peek(3)
	assert.True(t, errors.Is(err, diagnostics.ErrUnexpectedFileEnd))
	assert.True(t, s.IsOOB(3))
	assert.False(t, s.IsOOB(2))

	c, err = s.Get()
	assert.NoError(t, err)
	assert.Equal(t, byte('a'), c)

	b, err := s.GetN(2)
	assert.NoError(t, err)
	assert.Equal(t, "bc", string(b))

	_, err = s.Get()
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, byte(0), s.PeekOr(0))
}

func TestGetNPastEnd(t *testing.T) {
	s := New([]byte("ab"), "t.lua")

	_, err := s.GetN(3)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Offset(), "a failed GetN must not consume")
}

func TestBreakLen(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"\n", 1},
		{"\r", 1},
		{"\r\n", 2},
		{"\r\r", 2},
		{"\n\r", 1},
		{"\n\n", 1},
		{"\r\r\r", 2},
		{"x", 0},
		{"", 0},
	}

	for _, tt := range tests {
		s := New([]byte(tt.input), "t.lua")
		assert.Equal(t, tt.want, s.BreakLen(0), "input %q", tt.input)
	}
}

func TestNewLineCountsLogicalBreaks(t *testing.T) {
	// \n | \r\n | \r\r | \r | \n\r (two breaks)
	s := New([]byte("a\nb\r\nc\r\rd\re\n\rf"), "t.lua")

	for s.Len() > 0 {
		c := s.PeekOr(0)
		if IsBreakChar(c) {
			s.NewLine(true)
			continue
		}
		s.Skip(1)
	}

	assert.Equal(t, 7, s.Line())
}

func TestNewLineWithoutConsume(t *testing.T) {
	s := New([]byte("ab\r\ncd"), "t.lua")
	s.Skip(2)

	n := s.NewLine(false)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Offset())
	s.Skip(n)

	pos := s.Position()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)
	assert.Equal(t, 4, pos.Offset)
}

func TestPositionTracking(t *testing.T) {
	s := New([]byte("local\n  x"), "t.lua")
	s.Skip(5)
	assert.Equal(t, 6, s.Position().Column)

	s.NewLine(true)
	s.Skip(2)
	pos := s.Position()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 3, pos.Column)
}

func TestSaveRestore(t *testing.T) {
	s := New([]byte("a\nbc"), "t.lua")
	m := s.Save()

	s.Skip(1)
	s.NewLine(true)
	s.Skip(1)
	assert.Equal(t, 2, s.Line())

	s.Restore(m)
	assert.Equal(t, 1, s.Line())
	assert.Equal(t, 0, s.Offset())
}
