// Package index builds the static inverted indexes over the sharded
// chapter corpus: the word search index, the Strong's concordance, and the
// original-language index.
package index

import (
	"regexp"
	"strings"
)

// Strong's tags are embedded in verse text as brace or angle groups:
//
//	tag        = "{" junk code junk "}" | "<" code ">"
//	code       = ("H" | "G") digits
//	junk       = any run of non-brace characters
//
// Real-world sources are sloppy: "{H1234a}", "{ H1234 }" and morphology
// groups like "{(H8802)}" all occur. Scanning therefore accepts arbitrary
// extra characters inside braces and extracts only the code part, while
// stripping (for tokenization) removes just the well-formed tag forms so
// that stripping is idempotent on clean text.
var (
	looseTagRe = regexp.MustCompile(`\{[^}]*?([HG]\d+)[^}]*?\}`)
	braceTagRe = regexp.MustCompile(`\{[HG]\d+\}`)
	angleTagRe = regexp.MustCompile(`<[HG]\d+>`)
)

// ScanCodes extracts every Strong's code referenced by a brace tag in
// text, in source order and with duplicates preserved. Codes are
// normalized to upper case ("H430", "G25").
func ScanCodes(text string) []string {
	matches := looseTagRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, strings.ToUpper(m[1]))
	}
	return codes
}

// StripTags removes {H1234} and <G5678> style tags from text and trims
// surrounding whitespace. Applying it to already-stripped text is a no-op.
func StripTags(text string) string {
	text = braceTagRe.ReplaceAllString(text, "")
	text = angleTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
