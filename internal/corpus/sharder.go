package corpus

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// ShardStats summarizes one translation's sharding run.
type ShardStats struct {
	Verses   int
	Chapters int
	Books    int
	Dropped  int
}

// Sharder writes the per-chapter chunk tree for loaded translations:
// one file per (book, chapter) plus a manifest per translation. This tree
// is the base corpus every other index is built from.
type Sharder struct {
	outRoot string
	queue   *writequeue.Queue
	log     *slog.Logger
}

// NewSharder creates a sharder writing under outRoot (the bibles/ root).
func NewSharder(outRoot string, queue *writequeue.Queue, log *slog.Logger) *Sharder {
	if log == nil {
		log = slog.Default()
	}
	return &Sharder{outRoot: outRoot, queue: queue, log: log}
}

// Shard groups a translation's verses by (book, chapter), sorts each group
// ascending by verse number, and writes every chapter chunk plus the
// translation manifest. Source verse order is not trusted.
//
// Each generation run rewrites its files wholesale; chunks are never
// patched in place.
func (s *Sharder) Shard(t *Translation) (ShardStats, error) {
	grouped := make(map[string]map[int][]ChapterVerse)
	stats := ShardStats{Dropped: t.Dropped}

	for _, v := range t.Verses {
		chapters, ok := grouped[v.Book]
		if !ok {
			chapters = make(map[int][]ChapterVerse)
			grouped[v.Book] = chapters
		}
		chapters[v.Chapter] = append(chapters[v.Chapter], ChapterVerse{V: v.Verse, Text: v.Text})
		stats.Verses++
	}

	manifest := Manifest{
		ID:    t.ID,
		Name:  t.Name,
		Lang:  t.Lang,
		Books: make(map[string][]int, len(grouped)),
	}

	transDir := filepath.Join(s.outRoot, t.ID)

	for bookID, chapters := range grouped {
		nums := make([]int, 0, len(chapters))
		for n := range chapters {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		manifest.Books[bookID] = nums
		stats.Books++

		for _, n := range nums {
			verses := chapters[n]
			sort.Slice(verses, func(i, j int) bool { return verses[i].V < verses[j].V })

			path := filepath.Join(transDir, bookID, strconv.Itoa(n)+".json")
			s.queue.Enqueue(func() error {
				return jsonio.Write(path, verses)
			})
			stats.Chapters++
		}
	}

	s.queue.Enqueue(func() error {
		return jsonio.Write(filepath.Join(transDir, "index.json"), manifest)
	})

	s.log.Info("translation_sharded",
		slog.String("translation", t.ID),
		slog.Int("verses", stats.Verses),
		slog.Int("chapters", stats.Chapters),
		slog.Int("dropped", stats.Dropped))

	return stats, nil
}

// SortedBooks returns a manifest's book ids in canonical scan order
// (Genesis first). Index builders iterate with this so a fixed corpus
// always produces byte-identical output.
func (m Manifest) SortedBooks() []string {
	books := make([]string, 0, len(m.Books))
	for id := range m.Books {
		books = append(books, id)
	}
	sort.Slice(books, func(i, j int) bool {
		return BookIndex(books[i]) < BookIndex(books[j])
	})
	return books
}
