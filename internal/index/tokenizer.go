package index

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinWordLength is the minimum token length retained by the word
// index.
const DefaultMinWordLength = 3

// Tokenize splits verse text into the lowercase tokens the word index is
// keyed by. The exact sequence matters for compatibility with existing
// generated trees:
//
//  1. strip embedded Strong's tags (both bracket styles)
//  2. lowercase
//  3. replace anything that is not a letter, digit, whitespace,
//     apostrophe, or hyphen with a space (non-Latin scripts survive)
//  4. split on whitespace runs
//  5. trim leading/trailing apostrophes and hyphens per token
//  6. drop tokens shorter than minLen runes
//
// Duplicates are preserved: the caller records occurrences, not presence.
func Tokenize(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinWordLength
	}

	cleaned := strings.ToLower(StripTags(text))
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' || r == '-' {
			return r
		}
		return ' '
	}, cleaned)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(w, "'-")
		if utf8.RuneCountInString(w) >= minLen {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
