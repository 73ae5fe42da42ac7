// Package config holds the per-parse options of the Luma front end and the
// project file that selects them.
package config

import (
	"fmt"
	"strings"
)

// Dialect selects one of the two surface grammars
type Dialect int

const (
	// Classic is the Lua compatible grammar
	Classic Dialect = iota
	// Extended is the Luma grammar with types, ownership and modules
	Extended
)

// DialectCount is the number of dialects, for tables indexed by Dialect
const DialectCount = 2

func (d Dialect) String() string {
	switch d {
	case Classic:
		return "classic"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect converts a configuration string into a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic", "lua":
		return Classic, nil
	case "extended", "luma":
		return Extended, nil
	}
	return Classic, fmt.Errorf("%w: unknown dialect %q", ErrInvalidOption, s)
}

// UnmarshalText lets Dialect be decoded from YAML, TOML and CLI flags
func (d *Dialect) UnmarshalText(text []byte) error {
	v, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText is the inverse of UnmarshalText
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// OverflowPolicy decides what happens to integer literals that exceed the
// widest integer width of the active dialect
type OverflowPolicy int

const (
	// PromoteToFloat turns the literal into a 64-bit float
	PromoteToFloat OverflowPolicy = iota
	// StrictIntegers reports IntegerTooBig
	StrictIntegers
)

func (p OverflowPolicy) String() string {
	if p == StrictIntegers {
		return "error"
	}
	return "promote"
}

// UnmarshalText decodes "promote" or "error"
func (p *OverflowPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "promote", "float", "":
		*p = PromoteToFloat
	case "error", "strict":
		*p = StrictIntegers
	default:
		return fmt.Errorf("%w: unknown integer overflow policy %q", ErrInvalidOption, text)
	}
	return nil
}

// MarshalText is the inverse of UnmarshalText
func (p OverflowPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Options is the read-only configuration of one parse. It is passed by value
// so several configurations can coexist in one process.
type Options struct {
	Dialect  Dialect
	Overflow OverflowPolicy
	// SpacedStringCalls requires whitespace between a callee and a string
	// literal argument written without parentheses.
	SpacedStringCalls bool
	// SeparatedNumerals rejects numerals directly followed by identifier text.
	SeparatedNumerals bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions(d Dialect) Options {
	return Options{
		Dialect:           d,
		Overflow:          PromoteToFloat,
		SeparatedNumerals: true,
	}
}

// IsExtended reports whether the extended grammar is active
func (o Options) IsExtended() bool {
	return o.Dialect == Extended
}
