package index

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// WordBucket is one entry of a word index manifest's bucket list.
type WordBucket struct {
	Bucket    string `json:"bucket"`
	File      string `json:"file"`
	WordCount int    `json:"wordCount"`
}

// WordIndexManifest enumerates a translation's word index shards so
// consumers never probe for nonexistent bucket files.
type WordIndexManifest struct {
	Translation string       `json:"translation"`
	TotalWords  int          `json:"totalWords"`
	TotalVerses int          `json:"totalVerses"`
	Buckets     []WordBucket `json:"buckets"`
}

// WordIndexStats summarizes one translation's word indexing run.
type WordIndexStats struct {
	TotalWords      int
	TotalVerses     int
	Buckets         int
	SkippedChapters int
}

// WordIndexBuilder builds the per-translation word search index from the
// sharded chapter corpus. The index is an occurrence log, not a verse set:
// a word appearing twice in one verse contributes that verse id twice, so
// consumers can derive both occurrence and unique-verse counts.
type WordIndexBuilder struct {
	biblesDir string
	outDir    string
	minLen    int
	queue     *writequeue.Queue
	log       *slog.Logger
}

// NewWordIndexBuilder creates a builder reading the chapter corpus under
// biblesDir and writing index shards under outDir.
func NewWordIndexBuilder(biblesDir, outDir string, minLen int, queue *writequeue.Queue, log *slog.Logger) *WordIndexBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &WordIndexBuilder{
		biblesDir: biblesDir,
		outDir:    outDir,
		minLen:    minLen,
		queue:     queue,
		log:       log,
	}
}

// Build indexes one translation. A missing translation directory or
// manifest fails only this translation; missing or unparseable chapter
// files are skipped and counted.
//
// Output is deterministic: books iterate in canonical order, chapters
// ascending per the manifest, and bucket maps marshal with sorted keys, so
// a fixed corpus yields byte-identical shards across runs.
func (b *WordIndexBuilder) Build(translationID string) (WordIndexStats, error) {
	var stats WordIndexStats

	transDir := filepath.Join(b.biblesDir, translationID)
	var manifest corpus.Manifest
	if err := jsonio.Read(filepath.Join(transDir, "index.json"), &manifest); err != nil {
		return stats, pipeerr.Wrap(pipeerr.ErrCodeTranslationNotFound, err).
			WithDetail("translation", translationID)
	}

	occurrences := make(map[string][]string)

	for _, bookID := range manifest.SortedBooks() {
		for _, chapterNum := range manifest.Books[bookID] {
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
				verseID := corpus.VerseID(bookID, chapterNum, verse.V)
				stats.TotalVerses++
				for _, word := range Tokenize(verse.Text, b.minLen) {
					occurrences[word] = append(occurrences[word], verseID)
				}
			}
		}
	}

	stats.TotalWords = len(occurrences)

	buckets := make(map[string]map[string][]string)
	for word, verseIDs := range occurrences {
		bucket := BucketFor(word)
		words, ok := buckets[bucket]
		if !ok {
			words = make(map[string][]string)
			buckets[bucket] = words
		}
		words[word] = verseIDs
	}

	outDir := filepath.Join(b.outDir, translationID)
	bucketList := make([]WordBucket, 0, len(buckets))
	for bucket, words := range buckets {
		file := bucket + ".json"
		path := filepath.Join(outDir, file)
		words := words
		b.queue.Enqueue(func() error {
			return jsonio.Write(path, words)
		})
		bucketList = append(bucketList, WordBucket{
			Bucket:    bucket,
			File:      file,
			WordCount: len(words),
		})
	}
	sort.Slice(bucketList, func(i, j int) bool { return bucketList[i].Bucket < bucketList[j].Bucket })
	stats.Buckets = len(bucketList)

	out := WordIndexManifest{
		Translation: translationID,
		TotalWords:  stats.TotalWords,
		TotalVerses: stats.TotalVerses,
		Buckets:     bucketList,
	}
	b.queue.Enqueue(func() error {
		return jsonio.WriteIndented(filepath.Join(outDir, "index.json"), out)
	})

	b.log.Info("word_index_built",
		slog.String("translation", translationID),
		slog.Int("words", stats.TotalWords),
		slog.Int("verses", stats.TotalVerses),
		slog.Int("buckets", stats.Buckets))

	return stats, nil
}
