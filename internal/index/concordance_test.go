package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

func buildConcordance(t *testing.T, tr *corpus.Translation) (string, ConcordanceStats) {
	t.Helper()
	out := t.TempDir()
	q := writequeue.New(8)
	stats, err := NewConcordanceBuilder(out, q, nil).Build(tr)
	require.NoError(t, err)
	require.NoError(t, q.Wait())
	return out, stats
}

func TestConcordanceBuilder_ScenarioGenesis(t *testing.T) {
	out, stats := buildConcordance(t, &corpus.Translation{
		ID: "kjv_strongs",
		Verses: []corpus.VerseRecord{
			{Book: "gen", Chapter: 1, Verse: 1, Text: "In the beginning{H7225} God{H430} created"},
		},
	})

	assert.Equal(t, 1, stats.Verses)
	assert.Equal(t, 2, stats.Tags)
	assert.Equal(t, 2, stats.Codes)

	var verses []string
	require.NoError(t, jsonio.Read(filepath.Join(out, "H7225.json"), &verses))
	assert.Equal(t, []string{"gen-1-1"}, verses)

	require.NoError(t, jsonio.Read(filepath.Join(out, "H430.json"), &verses))
	assert.Equal(t, []string{"gen-1-1"}, verses)
}

func TestConcordanceBuilder_DeduplicatesWithinVerse(t *testing.T) {
	out, stats := buildConcordance(t, &corpus.Translation{
		ID: "t",
		Verses: []corpus.VerseRecord{
			{Book: "gen", Chapter: 1, Verse: 1, Text: "God{H430} of gods{H430} and LORD{H3068}"},
		},
	})

	// Two H430 tags in one verse count as two matches but one verse.
	assert.Equal(t, 3, stats.Tags)

	var verses []string
	require.NoError(t, jsonio.Read(filepath.Join(out, "H430.json"), &verses))
	assert.Equal(t, []string{"gen-1-1"}, verses)
}

func TestConcordanceBuilder_MultipleVersesInScanOrder(t *testing.T) {
	out, _ := buildConcordance(t, &corpus.Translation{
		ID: "t",
		Verses: []corpus.VerseRecord{
			{Book: "gen", Chapter: 1, Verse: 1, Text: "God{H430} created"},
			{Book: "gen", Chapter: 1, Verse: 2, Text: "Spirit of God{H430}"},
			{Book: "exo", Chapter: 3, Verse: 4, Text: "God{H430} called"},
		},
	})

	var verses []string
	require.NoError(t, jsonio.Read(filepath.Join(out, "H430.json"), &verses))
	assert.Equal(t, []string{"gen-1-1", "gen-1-2", "exo-3-4"}, verses)
}

func TestConcordanceBuilder_ToleratesLooseTagForms(t *testing.T) {
	out, _ := buildConcordance(t, &corpus.Translation{
		ID: "t",
		Verses: []corpus.VerseRecord{
			{Book: "gen", Chapter: 1, Verse: 1, Text: "created{H1254 (H8804)} them"},
		},
	})

	var verses []string
	require.NoError(t, jsonio.Read(filepath.Join(out, "H1254.json"), &verses))
	assert.Equal(t, []string{"gen-1-1"}, verses)

	// The morphology code inside the same brace group is junk, not a tag.
	_, err := os.Stat(filepath.Join(out, "H8804.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConcordanceBuilder_UntaggedTranslation(t *testing.T) {
	out, stats := buildConcordance(t, &corpus.Translation{
		ID: "plain",
		Verses: []corpus.VerseRecord{
			{Book: "gen", Chapter: 1, Verse: 1, Text: "In the beginning God created"},
		},
	})

	assert.Zero(t, stats.Codes)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
