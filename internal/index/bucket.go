package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SentinelBucket collects keys that do not start with a letter: digits,
// empty keys, and anything else that survived normalization.
const SentinelBucket = "#"

// NormalizeTerm canonicalizes an index key: NFD decomposition, combining
// diacritical marks (U+0300-U+036F) stripped, lowercased, trimmed. A
// plain-ASCII transliteration like "shalom" then matches the accented
// lemma form "shālôm".
func NormalizeTerm(term string) string {
	decomposed := norm.NFD.String(term)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= 0x0300 && r <= 0x036f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

// BucketFor returns the shard bucket for an already-normalized index key:
// its first character, or SentinelBucket for empty, digit-leading, and
// non-letter-leading keys. It is a pure function of the key's first
// character so a term always lands in the same shard file.
func BucketFor(key string) string {
	for _, r := range key {
		if unicode.IsDigit(r) || !unicode.IsLetter(r) {
			return SentinelBucket
		}
		return string(unicode.ToLower(r))
	}
	return SentinelBucket
}
