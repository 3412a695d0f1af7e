package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanCodes_WellFormed(t *testing.T) {
	codes := ScanCodes("In the beginning{H7225} God{H430} created{H1254}")
	assert.Equal(t, []string{"H7225", "H430", "H1254"}, codes)
}

func TestScanCodes_MalformedVariants(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "trailing letter inside braces",
			input:  "created{H1234a}",
			expect: []string{"H1234"},
		},
		{
			name:   "padded with spaces",
			input:  "created{ H1234 }",
			expect: []string{"H1234"},
		},
		{
			name:   "morphology code alongside number",
			input:  "created{H1254 (H8804)}",
			expect: []string{"H1254"},
		},
		{
			name:   "greek code",
			input:  "love{G25}",
			expect: []string{"G25"},
		},
		{
			name:   "duplicates preserved in scan order",
			input:  "God{H430} of gods{H430}",
			expect: []string{"H430", "H430"},
		},
		{
			name:   "no tags",
			input:  "In the beginning God created",
			expect: nil,
		},
		{
			name:   "empty braces",
			input:  "created{} nothing",
			expect: nil,
		},
		{
			name:   "braces without code",
			input:  "created{abc} nothing",
			expect: nil,
		},
		{
			name:   "unclosed brace",
			input:  "created{H1254",
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ScanCodes(tt.input))
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "brace style",
			input:  "In the beginning{H7225} God{H430} created",
			expect: "In the beginning God created",
		},
		{
			name:   "angle style",
			input:  "the Word<G3056> was God<G2316>",
			expect: "the Word was God",
		},
		{
			name:   "mixed styles",
			input:  "alpha{H1} beta<G2>",
			expect: "alpha beta",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  light{H216} ",
			expect: "light",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, StripTags(tt.input))
		})
	}
}

func TestStripTags_IdempotentOnCleanText(t *testing.T) {
	clean := StripTags("In the beginning{H7225} God{H430} created")
	assert.Equal(t, clean, StripTags(clean))
}
