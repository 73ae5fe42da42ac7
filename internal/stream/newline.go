package stream

type newlineState uint8

const (
	stateIdle newlineState = iota
	stateSawCR
	stateDone
)

// newline recognizes one logical line break. "\n", "\r", "\r\n" and "\r\r"
// each form exactly one break.
type newline struct {
	state newlineState
}

// feed offers the next byte. It returns false when c is not part of the
// break, in which case the break (if any) ended before c.
func (n *newline) feed(c byte) bool {
	switch n.state {
	case stateIdle:
		switch c {
		case '\n':
			n.state = stateDone
			return true
		case '\r':
			n.state = stateSawCR
			return true
		}
		return false
	case stateSawCR:
		if c == '\n' || c == '\r' {
			n.state = stateDone
			return true
		}
		return false
	}
	return false
}

func (n *newline) done() bool {
	return n.state == stateDone
}

// IsBreakChar reports whether c can start a line break
func IsBreakChar(c byte) bool {
	return c == '\n' || c == '\r'
}
