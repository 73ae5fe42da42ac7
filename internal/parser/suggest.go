package parser

import (
	"errors"

	"github.com/luma-lang/luma/internal/diagnostics"
	"github.com/luma-lang/luma/internal/lexer"
)

// maxSuggestDistance is the largest edit distance for which a keyword is
// suggested in place of a misspelled word
const maxSuggestDistance = 2

// suggestKeyword returns the reserved word closest to word, if one is close
// enough to be a likely typo
func suggestKeyword(word string, keywords []string) (string, bool) {
	if len(word) < 3 {
		return "", false
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, kw := range keywords {
		if d := editDistance(word, kw); d > 0 && d < bestDist {
			best, bestDist = kw, d
		}
	}
	return best, best != ""
}

// withSuggestion appends a keyword suggestion to a syntax error raised at a
// statement that starts with word
func (p *Parser) withSuggestion(err error, word string) error {
	var de *diagnostics.Error
	if word == "" || !errors.As(err, &de) {
		return err
	}
	if de.Kind != diagnostics.KindSyntax && de.Kind != diagnostics.KindUnexpectedCharacter {
		return err
	}
	kw, ok := suggestKeyword(word, lexer.Reserved(p.opts.Dialect))
	if !ok {
		return err
	}
	out := *de
	out.Message += ` (did you mean "` + kw + `"?)`
	return &out
}

// editDistance calculates the Levenshtein distance between two strings
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
