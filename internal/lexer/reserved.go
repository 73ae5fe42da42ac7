package lexer

import (
	"sort"

	"github.com/luma-lang/luma/internal/config"
)

var classicReserved = []string{
	"and", "break", "do", "else", "elseif", "end", "false", "for",
	"function", "goto", "if", "in", "local", "nil", "not", "or", "repeat",
	"return", "then", "true", "until", "while",
}

var extendedOnly = []string{
	"as", "const", "continue", "crate", "drop", "dyn", "enum", "fn", "impl",
	"let", "loop", "match", "mod", "mut", "pub", "safe", "safe_label",
	"self", "struct", "super", "trait", "type", "unsafe", "unsafe_label",
	"use", "where",
}

// PathKeywords may start a multi-segment path in the extended grammar
var PathKeywords = []string{"self", "super", "crate"}

var reserved [config.DialectCount]map[string]bool

func init() {
	reserved[config.Classic] = make(map[string]bool, len(classicReserved))
	reserved[config.Extended] = make(map[string]bool, len(classicReserved)+len(extendedOnly))
	for _, w := range classicReserved {
		reserved[config.Classic][w] = true
		if w != "goto" {
			reserved[config.Extended][w] = true
		}
	}
	for _, w := range extendedOnly {
		reserved[config.Extended][w] = true
	}
}

// IsReserved reports whether word is reserved in dialect d
func IsReserved(word string, d config.Dialect) bool {
	return reserved[d][word]
}

// Reserved returns the reserved words of dialect d in sorted order
func Reserved(d config.Dialect) []string {
	words := make([]string, 0, len(reserved[d]))
	for w := range reserved[d] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
