package position

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		pos      Position
		isValid  bool
	}{
		{
			name:     "Valid position",
			pos:      Position{Line: 10, Column: 5, Offset: 100},
			isValid:  true,
			expected: "10:5",
		},
		{
			name:     "Start of file",
			pos:      Position{Line: 1, Column: 1, Offset: 0},
			isValid:  true,
			expected: "1:1",
		},
		{
			name:    "Invalid position - zero line",
			pos:     Position{Line: 0, Column: 1, Offset: 0},
			isValid: false,
		},
		{
			name:    "Invalid position - negative offset",
			pos:     Position{Line: 1, Column: 1, Offset: -1},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.pos.IsValid())
			if tt.isValid {
				assert.Equal(t, tt.expected, tt.pos.String())
			}
		})
	}
}

func TestSpan(t *testing.T) {
	a := Span{Start: Position{1, 1, 0}, End: Position{1, 5, 4}}
	b := Span{Start: Position{2, 1, 10}, End: Position{2, 4, 13}}

	assert.True(t, a.IsValid())
	assert.Equal(t, "1:1-5", a.String())
	assert.Equal(t, "1:1-2:4", a.Union(b).String())
	assert.Equal(t, 13, a.Union(b).Length())
	assert.True(t, a.Contains(3))
	assert.False(t, a.Contains(4))
	assert.Equal(t, a, Span{}.Union(a))
}

func TestLineAtAndCaret(t *testing.T) {
	src := []byte("local x = 1\r\n\tlocal y = )\nreturn")

	assert.Equal(t, "local x = 1", LineAt(src, 3))
	assert.Equal(t, "\tlocal y = )", LineAt(src, 20))
	assert.Equal(t, "return", LineAt(src, len(src)))
	assert.Equal(t, "\t         ^", Caret("\tlocal y = )", 11))
}
