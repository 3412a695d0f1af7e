package lexicon

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// DefaultChunkSize is the nominal number of codes per lexicon chunk file.
const DefaultChunkSize = 400

// Chunk is one fixed-size window of a normalized lexicon, keyed by full
// code so consumers can address entries without re-deriving ids.
type Chunk struct {
	Start   int
	End     int
	Entries map[string]Entry
}

// File returns the chunk's filename. Bounds are nominal window bounds,
// not the actual first/last code present: the final window of a lexicon
// is usually short but keeps its full nominal name, because consumers
// compute the filename from the code number alone
// (block = (n-1)/size, file = "{block*size+1}-{block*size+size}.json").
func (c Chunk) File() string {
	return fmt.Sprintf("%d-%d.json", c.Start, c.End)
}

// ChunkEntries windows sorted entries by code number into fixed-size
// ranges: window k covers code numbers [k*size+1, (k+1)*size]. Windowing
// by number rather than position keeps the filename arithmetic valid even
// when a lexicon has gaps in its numbering. Empty windows produce no file.
func ChunkEntries(entries []Entry, size int) []Chunk {
	if size < 1 {
		size = DefaultChunkSize
	}

	byWindow := make(map[int]map[string]Entry)
	for _, e := range entries {
		n := e.Number()
		if n < 1 {
			continue
		}
		block := (n - 1) / size
		window, ok := byWindow[block]
		if !ok {
			window = make(map[string]Entry)
			byWindow[block] = window
		}
		window[e.ID] = e
	}

	chunks := make([]Chunk, 0, len(byWindow))
	for block, window := range byWindow {
		start := block*size + 1
		chunks = append(chunks, Chunk{
			Start:   start,
			End:     start + size - 1,
			Entries: window,
		})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Start < chunks[j].Start })
	return chunks
}

// WriteChunks normalizes one lexicon source into its chunked output tree
// under outDir (the strongs/{hebrew|greek} directory).
func WriteChunks(outDir string, entries []Entry, size int, queue *writequeue.Queue, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}

	chunks := ChunkEntries(entries, size)
	for _, c := range chunks {
		path := filepath.Join(outDir, c.File())
		entries := c.Entries
		queue.Enqueue(func() error {
			return jsonio.Write(path, entries)
		})
	}

	log.Info("lexicon_chunked",
		slog.String("dir", outDir),
		slog.Int("entries", len(entries)),
		slog.Int("chunks", len(chunks)))

	return len(chunks)
}
