package position

import (
	"strings"
)

// LineAt returns the text of the source line containing offset, without its
// line break. Any of "\n", "\r" or "\r\n" terminates a line.
func LineAt(src []byte, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}

	start := offset
	for start > 0 && src[start-1] != '\n' && src[start-1] != '\r' {
		start--
	}

	end := offset
	for end < len(src) && src[end] != '\n' && src[end] != '\r' {
		end++
	}

	return string(src[start:end])
}

// Caret returns a marker line that points at column within line. Tabs in the
// prefix are preserved so the caret lines up in a terminal.
func Caret(line string, column int) string {
	var b strings.Builder

	for i := 1; i < column; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')

	return b.String()
}
