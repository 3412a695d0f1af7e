// Package lexicon normalizes the heterogeneous Strong's lexicon sources
// into one uniform entry shape and re-shards them into fixed-size chunk
// files for static retrieval.
package lexicon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
)

// Entry is the uniform lexicon entry shape both source schemas normalize
// into.
type Entry struct {
	ID        string            `json:"id"`
	Lemma     string            `json:"lemma"`
	Translit  string            `json:"translit"`
	Pronounce string            `json:"pronounce"`
	Defs      map[string]string `json:"defs"`
}

// Number returns the numeric part of the entry's code, or 0 if the id has
// no parseable number.
func (e Entry) Number() int {
	if len(e.ID) < 2 {
		return 0
	}
	n, err := strconv.Atoi(e.ID[1:])
	if err != nil {
		return 0
	}
	return n
}

// greekEntry is the Greek-alternate source schema. Its entries carry a
// bare strongs number instead of a full code id.
type greekEntry struct {
	Strongs         int               `json:"strongs"`
	OriginalWord    string            `json:"original_word"`
	Transliteration string            `json:"transliteration"`
	Language        string            `json:"language"`
	Definition      map[string]string `json:"definition"`
}

// LoadHebrew reads the Hebrew-native lexicon file (object keyed "H<n>",
// entries already in near-final shape) and returns its entries sorted
// numerically by code number.
func LoadHebrew(path string) ([]Entry, error) {
	var raw map[string]Entry
	if err := jsonio.Read(path, &raw); err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeLexiconMalformed, err).WithDetail("path", path)
	}

	entries := make([]Entry, 0, len(raw))
	for id, e := range raw {
		if e.ID == "" {
			e.ID = id
		}
		e.ID = strings.ToUpper(e.ID)
		entries = append(entries, e)
	}
	sortByNumber(entries)
	return entries, nil
}

// LoadGreek reads the Greek-alternate lexicon file (object with arbitrary
// keys), remaps each entry's fields into the uniform shape, synthesizes
// its id as "G" + strongs number, and returns the entries sorted
// numerically.
func LoadGreek(path string) ([]Entry, error) {
	var raw map[string]greekEntry
	if err := jsonio.Read(path, &raw); err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeLexiconMalformed, err).WithDetail("path", path)
	}

	entries := make([]Entry, 0, len(raw))
	for _, g := range raw {
		entries = append(entries, Entry{
			ID:       fmt.Sprintf("G%d", g.Strongs),
			Lemma:    g.OriginalWord,
			Translit: g.Transliteration,
			Defs:     g.Definition,
		})
	}
	sortByNumber(entries)
	return entries, nil
}

// Table maps uppercase Strong's codes to their lexicon entries across
// both languages.
type Table map[string]Entry

// LoadTable loads both lexicon sources into one lookup table keyed by
// uppercase code.
func LoadTable(hebrewPath, greekPath string) (Table, error) {
	hebrew, err := LoadHebrew(hebrewPath)
	if err != nil {
		return nil, err
	}
	greek, err := LoadGreek(greekPath)
	if err != nil {
		return nil, err
	}

	table := make(Table, len(hebrew)+len(greek))
	for _, e := range hebrew {
		table[e.ID] = e
	}
	for _, e := range greek {
		table[e.ID] = e
	}
	return table, nil
}

func sortByNumber(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number() < entries[j].Number() })
}
