package index

import (
	"log/slog"
	"path/filepath"

	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// ConcordanceStats summarizes one concordance build.
type ConcordanceStats struct {
	Verses int
	Tags   int
	Codes  int
}

// ConcordanceBuilder builds the Strong's concordance from a tagged
// translation: one file per code holding the deduplicated list of verse
// ids referencing it.
//
// Unlike the word index this is not bucketed: thousands of codes with
// small verse lists favor one-file-per-key over first-letter shards.
type ConcordanceBuilder struct {
	outDir string
	queue  *writequeue.Queue
	log    *slog.Logger
}

// NewConcordanceBuilder creates a builder writing code files under outDir.
func NewConcordanceBuilder(outDir string, queue *writequeue.Queue, log *slog.Logger) *ConcordanceBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &ConcordanceBuilder{outDir: outDir, queue: queue, log: log}
}

// Build scans every verse of a loaded translation for Strong's tags and
// writes one JSON file per code. A verse referencing the same code twice
// is recorded once; verse order within a code follows scan order, so a
// fixed source reproduces the same files.
func (b *ConcordanceBuilder) Build(t *corpus.Translation) (ConcordanceStats, error) {
	var stats ConcordanceStats

	codeVerses := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	for _, v := range t.Verses {
		stats.Verses++
		codes := ScanCodes(v.Text)
		if len(codes) == 0 {
			continue
		}
		verseID := v.ID()
		for _, code := range codes {
			stats.Tags++
			verses, ok := seen[code]
			if !ok {
				verses = make(map[string]struct{})
				seen[code] = verses
			}
			if _, dup := verses[verseID]; dup {
				continue
			}
			verses[verseID] = struct{}{}
			codeVerses[code] = append(codeVerses[code], verseID)
		}
	}

	stats.Codes = len(codeVerses)

	for code, verseIDs := range codeVerses {
		path := filepath.Join(b.outDir, code+".json")
		verseIDs := verseIDs
		b.queue.Enqueue(func() error {
			return jsonio.Write(path, verseIDs)
		})
	}

	b.log.Info("concordance_built",
		slog.String("translation", t.ID),
		slog.Int("verses", stats.Verses),
		slog.Int("tags", stats.Tags),
		slog.Int("codes", stats.Codes))

	return stats, nil
}
