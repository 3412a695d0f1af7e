package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeryOriginalIK/BibleFetch/internal/config"
	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
	"github.com/VeryOriginalIK/BibleFetch/internal/index"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/lexicon"
	"github.com/VeryOriginalIK/BibleFetch/internal/output"
	"github.com/VeryOriginalIK/BibleFetch/internal/report"
)

const taggedSource = `{
  "metadata": {"id": "kjv_strongs", "name": "KJV with Strong's", "lang": "en"},
  "verses": [
    {"book": 1, "chapter": 1, "verse": 1, "text": "In the beginning{H7225} God{H430} created{H1254}"},
    {"book": 1, "chapter": 1, "verse": 2, "text": "And the earth was without form"},
    {"book": 99, "chapter": 1, "verse": 1, "text": "apocrypha stays out"}
  ]
}`

const hebrewSource = `{
  "H430": {"lemma": "אֱלֹהִים", "translit": "elohiym", "defs": {"strongs": "gods in the ordinary sense"}},
  "H7225": {"lemma": "רֵאשִׁית", "translit": "reshith", "defs": {"strongs": "first, beginning"}}
}`

const greekSource = `{
  "0": {"strongs": 2316, "original_word": "θεός", "transliteration": "theos",
        "language": "greek", "definition": {"short": "god, deity"}}
}`

// testConfig lays out a minimal source tree and returns a config rooted
// in it.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "texts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "texts", "kjv_strongs.json"), []byte(taggedSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "strongs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "strongs", "hebrew.json"), []byte(hebrewSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "strongs", "greek.json"), []byte(greekSource), 0o644))

	cfg := config.Default()
	cfg.Paths.Assets = root
	cfg.Index.Translations = []string{"kjv_strongs"}
	cfg.Performance.WriteConcurrency = 8
	return cfg
}

func testRunner(cfg *config.Config) *Runner {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, log, output.NewPlain(io.Discard))
}

func TestRunner_FullGeneration(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, testRunner(cfg).Run(context.Background(), nil))

	// Chapter corpus: both genesis verses, tags intact, verse order fixed.
	var verses []corpus.ChapterVerse
	require.NoError(t, jsonio.Read(filepath.Join(cfg.BiblesDir(), "kjv_strongs", "gen", "1.json"), &verses))
	require.Len(t, verses, 2)
	assert.Equal(t, 1, verses[0].V)
	assert.Contains(t, verses[0].Text, "{H7225}")

	var manifest corpus.Manifest
	require.NoError(t, jsonio.Read(filepath.Join(cfg.BiblesDir(), "kjv_strongs", "index.json"), &manifest))
	assert.Equal(t, map[string][]int{"gen": {1}}, manifest.Books)

	// Word index: tags stripped before tokenizing, occurrences keyed by
	// verse id, short words excluded.
	var bWords map[string][]string
	require.NoError(t, jsonio.Read(filepath.Join(cfg.SearchIndexDir(), "kjv_strongs", "b.json"), &bWords))
	assert.Equal(t, []string{"gen-1-1"}, bWords["beginning"])

	var gWords map[string][]string
	require.NoError(t, jsonio.Read(filepath.Join(cfg.SearchIndexDir(), "kjv_strongs", "g.json"), &gWords))
	assert.Equal(t, []string{"gen-1-1"}, gWords["god"])

	var wordManifest index.WordIndexManifest
	require.NoError(t, jsonio.Read(filepath.Join(cfg.SearchIndexDir(), "kjv_strongs", "index.json"), &wordManifest))
	assert.Equal(t, 2, wordManifest.TotalVerses)

	// Concordance: one file per code.
	for _, code := range []string{"H7225", "H430", "H1254"} {
		var ids []string
		require.NoError(t, jsonio.Read(filepath.Join(cfg.StrongsIndexDir(), code+".json"), &ids))
		assert.Equal(t, []string{"gen-1-1"}, ids, code)
	}

	// Original-language index: codes land in the sentinel bucket,
	// transliterations in their letter buckets.
	origDir := filepath.Join(cfg.OrigLangIndexDir(), "kjv_strongs")
	var sentinel map[string][]string
	require.NoError(t, jsonio.Read(filepath.Join(origDir, "#.json"), &sentinel))
	assert.Equal(t, []string{"gen-1-1"}, sentinel["h430"])
	assert.Equal(t, []string{"gen-1-1"}, sentinel["h1254"])

	var eTerms map[string][]string
	require.NoError(t, jsonio.Read(filepath.Join(origDir, "e.json"), &eTerms))
	assert.Equal(t, []string{"gen-1-1"}, eTerms["elohiym"])

	// Lexicon chunks: filenames follow the nominal window arithmetic.
	var chunk map[string]lexicon.Entry
	require.NoError(t, jsonio.Read(filepath.Join(cfg.LexiconOutDir("hebrew"), "401-800.json"), &chunk))
	assert.Contains(t, chunk, "H430")
	require.NoError(t, jsonio.Read(filepath.Join(cfg.LexiconOutDir("hebrew"), "7201-7600.json"), &chunk))
	assert.Contains(t, chunk, "H7225")
	require.NoError(t, jsonio.Read(filepath.Join(cfg.LexiconOutDir("greek"), "2001-2400.json"), &chunk))
	assert.Contains(t, chunk, "G2316")

	// Run report: clean run, one dropped verse (book 99).
	var rep report.Report
	require.NoError(t, jsonio.Read(filepath.Join(cfg.Paths.Assets, "report.json"), &rep))
	assert.False(t, rep.Failed)
	assert.Equal(t, 1, rep.Dropped)
	assert.Len(t, rep.Stages, len(Stages()))
}

func TestRunner_DroppedBookAppearsNowhere(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, testRunner(cfg).Run(context.Background(), nil))

	// No chapter chunk for the unknown book.
	_, err := os.Stat(filepath.Join(cfg.BiblesDir(), "kjv_strongs", "99"))
	assert.True(t, os.IsNotExist(err))

	// Its words never reached the search index.
	var aWords map[string][]string
	require.NoError(t, jsonio.Read(filepath.Join(cfg.SearchIndexDir(), "kjv_strongs", "a.json"), &aWords))
	assert.NotContains(t, aWords, "apocrypha")
}

func TestRunner_IsolatesMalformedSource(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TextsDir(), "broken.json"), []byte("{not json"), 0o644))

	require.NoError(t, testRunner(cfg).Run(context.Background(), []string{StageBibles}))

	// The good translation still sharded.
	assert.FileExists(t, filepath.Join(cfg.BiblesDir(), "kjv_strongs", "index.json"))

	// The failure is on record.
	var rep report.Report
	require.NoError(t, jsonio.Read(filepath.Join(cfg.Paths.Assets, "report.json"), &rep))
	assert.True(t, rep.Failed)
	assert.Equal(t, report.StatusFailed, rep.Stages[0].Status)
	assert.Equal(t, 1, rep.Stages[0].Counts["translations"])
}

func TestRunner_FailFastAborts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.FailFast = true
	// Sorts before kjv_strongs.json, so it fails first.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TextsDir(), "aaa.json"), []byte("{not json"), 0o644))

	err := testRunner(cfg).Run(context.Background(), []string{StageBibles})
	require.Error(t, err)
	assert.Equal(t, pipeerr.ErrCodeSourceMalformed, pipeerr.CodeOf(err))
}

func TestRunner_EmptyTextsDirIsFatal(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.TextsDir(), "kjv_strongs.json")))

	err := testRunner(cfg).Run(context.Background(), []string{StageBibles})
	require.Error(t, err)
	assert.Equal(t, pipeerr.ErrCodeInputDirNotFound, pipeerr.CodeOf(err))
}

func TestRunner_MissingStrongsTranslationIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Index.PreferredStrongs = []string{"asvs"}

	err := testRunner(cfg).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, pipeerr.ErrCodeStrongsMissing, pipeerr.CodeOf(err))
}

func TestRunner_LockContention(t *testing.T) {
	cfg := testConfig(t)

	held := flock.New(filepath.Join(cfg.Paths.Assets, lockFile))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	err = testRunner(cfg).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, pipeerr.ErrCodeLockHeld, pipeerr.CodeOf(err))
}

func TestRunner_UnknownStageRejected(t *testing.T) {
	err := testRunner(testConfig(t)).Run(context.Background(), []string{"topics"})
	require.Error(t, err)
	assert.Equal(t, pipeerr.ErrCodeConfigInvalid, pipeerr.CodeOf(err))
}

func TestRunner_ParallelMatchesSequential(t *testing.T) {
	seq := testConfig(t)
	require.NoError(t, testRunner(seq).Run(context.Background(), nil))

	par := testConfig(t)
	par.Performance.Parallel = true
	require.NoError(t, testRunner(par).Run(context.Background(), nil))

	// Same corpus, byte-identical index shards either way.
	seqBytes, err := os.ReadFile(filepath.Join(seq.SearchIndexDir(), "kjv_strongs", "g.json"))
	require.NoError(t, err)
	parBytes, err := os.ReadFile(filepath.Join(par.SearchIndexDir(), "kjv_strongs", "g.json"))
	require.NoError(t, err)
	assert.Equal(t, seqBytes, parBytes)
}
