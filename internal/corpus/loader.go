package corpus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
)

// rawMetadata is the optional identity block of a translation source file.
type rawMetadata struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// rawTranslation is the top-level shape of a translation source file. The
// verses field is kept raw because sources disagree on its shape: some are
// flat arrays, some are objects keyed by arbitrary strings.
type rawTranslation struct {
	Metadata *rawMetadata    `json:"metadata"`
	Verses   json.RawMessage `json:"verses"`
}

// bookRef accepts either a numeric book index (1-66) or a canonical
// 3-letter id. Resolve() collapses both into the canonical id.
type bookRef struct {
	index int
	id    string
}

// UnmarshalJSON implements the array-or-string sum at the ingestion
// boundary so the rest of the pipeline only sees canonical ids.
func (b *bookRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.id = strings.ToLower(strings.TrimSpace(s))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	b.index = n
	return nil
}

// Resolve returns the canonical book id, or "" when the reference does not
// map to one of the 66 canonical books.
func (b bookRef) Resolve() string {
	if b.id != "" {
		if IsCanonicalBook(b.id) {
			return b.id
		}
		return ""
	}
	return BookID(b.index)
}

type rawVerse struct {
	Book    bookRef `json:"book"`
	Chapter int     `json:"chapter"`
	Verse   int     `json:"verse"`
	Text    string  `json:"text"`
}

// LoadTranslation reads and normalizes one raw translation source file.
//
// The translation id comes from embedded metadata when present, otherwise
// from the filename (lowercased, extension stripped). Verses whose book
// reference does not resolve are dropped, not errored: partial and
// experimental source files are expected. The drop count is retained on
// the returned Translation so callers can report it.
func LoadTranslation(path string) (*Translation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeSourceUnreadable, err).WithDetail("path", path)
	}

	var src rawTranslation
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeSourceMalformed, err).WithDetail("path", path)
	}

	verses, err := decodeVerses(src.Verses)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeSourceMalformed, err).WithDetail("path", path)
	}

	filenameID := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	t := &Translation{
		ID:   filenameID,
		Name: filenameID,
		Lang: "en",
	}
	if src.Metadata != nil {
		if src.Metadata.ID != "" {
			t.ID = src.Metadata.ID
		}
		if src.Metadata.Name != "" {
			t.Name = src.Metadata.Name
		}
		if src.Metadata.Lang != "" {
			t.Lang = src.Metadata.Lang
		}
	}

	t.Verses = make([]VerseRecord, 0, len(verses))
	for _, v := range verses {
		bookID := v.Book.Resolve()
		if bookID == "" {
			t.Dropped++
			continue
		}
		t.Verses = append(t.Verses, VerseRecord{
			Book:    bookID,
			Chapter: v.Chapter,
			Verse:   v.Verse,
			Text:    v.Text,
		})
	}

	return t, nil
}

// decodeVerses handles both source shapes: a flat array of verse records,
// or an object keyed by arbitrary strings. Keyed objects are flattened in
// sorted key order so a given source always yields the same record order.
func decodeVerses(raw json.RawMessage) ([]rawVerse, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var verses []rawVerse
		if err := json.Unmarshal(trimmed, &verses); err != nil {
			return nil, err
		}
		return verses, nil
	}

	var keyed map[string]rawVerse
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	verses := make([]rawVerse, 0, len(keyed))
	for _, k := range keys {
		verses = append(verses, keyed[k])
	}
	return verses, nil
}
