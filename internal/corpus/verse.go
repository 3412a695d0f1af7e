// Package corpus loads raw translation sources and shards them into the
// per-chapter chunk tree every index is built from.
package corpus

import "fmt"

// VerseRecord is one normalized verse after ingestion: canonical book id,
// 1-based chapter and verse numbers, raw text with any inline tags intact.
type VerseRecord struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

// ID returns the verse's join key, "{book}-{chapter}-{verse}". Every
// index references verses by this key.
func (v VerseRecord) ID() string {
	return VerseID(v.Book, v.Chapter, v.Verse)
}

// VerseID builds the join key for a (book, chapter, verse) triple.
func VerseID(book string, chapter, verse int) string {
	return fmt.Sprintf("%s-%d-%d", book, chapter, verse)
}

// ChapterVerse is one verse inside a chapter chunk file.
type ChapterVerse struct {
	V    int    `json:"v"`
	Text string `json:"text"`
}

// Manifest is a translation's index.json: identity plus the map of book
// ids to the chapter numbers present for each. Consumers enumerate the
// chunk tree from it instead of probing for files.
type Manifest struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Lang  string           `json:"lang"`
	Books map[string][]int `json:"books"`
}

// Translation is a fully loaded source: identity, normalized verses, and
// the count of records dropped during ingestion.
type Translation struct {
	ID      string
	Name    string
	Lang    string
	Verses  []VerseRecord
	Dropped int
}
