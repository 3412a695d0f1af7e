package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/lexicon"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// TermBucket is one entry of an original-language manifest's bucket list.
type TermBucket struct {
	Bucket    string `json:"bucket"`
	File      string `json:"file"`
	TermCount int    `json:"termCount"`
}

// OrigLangManifest records what was scanned and which shards exist.
type OrigLangManifest struct {
	Translation       string       `json:"translation"`
	TotalBooks        int          `json:"totalBooks"`
	TotalChapters     int          `json:"totalChapters"`
	TotalVerses       int          `json:"totalVerses"`
	TotalStrongTags   int          `json:"totalStrongTags"`
	TotalIndexedTerms int          `json:"totalIndexedTerms"`
	Buckets           []TermBucket `json:"buckets"`
}

// OrigLangStats summarizes one original-language index build.
type OrigLangStats struct {
	Translation     string
	Books           int
	Chapters        int
	Verses          int
	Tags            int
	Terms           int
	Buckets         int
	SkippedChapters int
}

// ChooseTranslation picks the first of the preferred Strong's-tagged
// translation ids that exists in the chapter corpus. The original-language
// index cannot be built without one; a miss is fatal and names every
// candidate that was tried.
func ChooseTranslation(biblesDir string, preferred []string) (string, error) {
	entries, err := os.ReadDir(biblesDir)
	if err != nil {
		return "", pipeerr.Wrap(pipeerr.ErrCodeInputDirNotFound, err).WithDetail("dir", biblesDir)
	}

	available := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			available[e.Name()] = true
		}
	}

	for _, id := range preferred {
		if available[id] {
			return id, nil
		}
	}

	return "", pipeerr.Newf(pipeerr.ErrCodeStrongsMissing,
		"no Strong's-enabled translation found, expected one of: %s",
		strings.Join(preferred, ", "))
}

// OrigLangBuilder builds the original-language index: every Strong's tag
// of the chosen translation registers the code itself, its lemma, and its
// transliteration (all normalized) against the verse id. A search by
// plain-ASCII transliteration then reaches verses tagged with the
// corresponding original-language word without knowing the code.
type OrigLangBuilder struct {
	biblesDir string
	outDir    string
	queue     *writequeue.Queue
	log       *slog.Logger
}

// NewOrigLangBuilder creates a builder reading the chapter corpus under
// biblesDir and writing shards under outDir.
func NewOrigLangBuilder(biblesDir, outDir string, queue *writequeue.Queue, log *slog.Logger) *OrigLangBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &OrigLangBuilder{biblesDir: biblesDir, outDir: outDir, queue: queue, log: log}
}

// Build walks every chapter of translationID, resolves each tagged code
// through the lexicon table, and writes the bucketed term index plus its
// manifest. Missing or unparseable chapter files are skipped and counted.
func (b *OrigLangBuilder) Build(translationID string, table lexicon.Table) (OrigLangStats, error) {
	stats := OrigLangStats{Translation: translationID}

	transDir := filepath.Join(b.biblesDir, translationID)
	var manifest corpus.Manifest
	if err := jsonio.Read(filepath.Join(transDir, "index.json"), &manifest); err != nil {
		return stats, pipeerr.Wrap(pipeerr.ErrCodeTranslationNotFound, err).
			WithDetail("translation", translationID)
	}

	termVerses := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	addTerm := func(term, verseID string) {
		key := NormalizeTerm(term)
		if key == "" {
			return
		}
		verses, ok := seen[key]
		if !ok {
			verses = make(map[string]struct{})
			seen[key] = verses
		}
		if _, dup := verses[verseID]; dup {
			return
		}
		verses[verseID] = struct{}{}
		termVerses[key] = append(termVerses[key], verseID)
	}

	stats.Books = len(manifest.Books)
	for _, bookID := range manifest.SortedBooks() {
		for _, chapterNum := range manifest.Books[bookID] {
			stats.Chapters++
			chapterPath := filepath.Join(transDir, bookID, strconv.Itoa(chapterNum)+".json")

			var verses []corpus.ChapterVerse
			if err := jsonio.Read(chapterPath, &verses); err != nil {
				stats.SkippedChapters++
				b.log.Warn("chapter_skipped",
					slog.String("translation", translationID),
					slog.String("path", chapterPath),
					slog.String("error", err.Error()))
				continue
			}

			for _, verse := range verses {
				stats.Verses++
				verseID := corpus.VerseID(bookID, chapterNum, verse.V)

				for _, code := range ScanCodes(verse.Text) {
					stats.Tags++
					addTerm(code, verseID)

					entry, ok := table[code]
					if !ok {
						continue
					}
					addTerm(entry.Lemma, verseID)
					addTerm(entry.Translit, verseID)
				}
			}
		}
	}

	stats.Terms = len(termVerses)

	buckets := make(map[string]map[string][]string)
	for term, verseIDs := range termVerses {
		bucket := BucketFor(term)
		terms, ok := buckets[bucket]
		if !ok {
			terms = make(map[string][]string)
			buckets[bucket] = terms
		}
		terms[term] = verseIDs
	}

	outDir := filepath.Join(b.outDir, translationID)
	bucketList := make([]TermBucket, 0, len(buckets))
	for bucket, terms := range buckets {
		file := bucket + ".json"
		path := filepath.Join(outDir, file)
		terms := terms
		b.queue.Enqueue(func() error {
			return jsonio.Write(path, terms)
		})
		bucketList = append(bucketList, TermBucket{
			Bucket:    bucket,
			File:      file,
			TermCount: len(terms),
		})
	}
	sort.Slice(bucketList, func(i, j int) bool { return bucketList[i].Bucket < bucketList[j].Bucket })
	stats.Buckets = len(bucketList)

	out := OrigLangManifest{
		Translation:       translationID,
		TotalBooks:        stats.Books,
		TotalChapters:     stats.Chapters,
		TotalVerses:       stats.Verses,
		TotalStrongTags:   stats.Tags,
		TotalIndexedTerms: stats.Terms,
		Buckets:           bucketList,
	}
	b.queue.Enqueue(func() error {
		return jsonio.WriteIndented(filepath.Join(outDir, "index.json"), out)
	})

	b.log.Info("original_language_index_built",
		slog.String("translation", translationID),
		slog.Int("tags", stats.Tags),
		slog.Int("terms", stats.Terms),
		slog.Int("buckets", stats.Buckets))

	return stats, nil
}
