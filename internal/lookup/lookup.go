// Package lookup answers queries against a generated asset tree. It
// performs the same reads a static-hosting consumer would: manifest to
// find the shard, shard to find the key, never probing for files the
// manifests do not name.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/VeryOriginalIK/BibleFetch/internal/config"
	"github.com/VeryOriginalIK/BibleFetch/internal/index"
	"github.com/VeryOriginalIK/BibleFetch/internal/lexicon"
)

// ErrNotFound reports that a key has no entry in the generated tree. It
// is distinct from read errors: the tree is intact, the key is absent.
var ErrNotFound = errors.New("not found")

const defaultCacheSize = 64

// Client reads the generated tree. Shard files are kept in a small LRU so
// repeated lookups against the same bucket do not reread from disk.
type Client struct {
	cfg   *config.Config
	cache *lru.Cache[string, []byte]
	log   *slog.Logger
}

// New creates a lookup client over the asset tree cfg points at.
func New(cfg *config.Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	cache, err := lru.New[string, []byte](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, cache: cache, log: log}, nil
}

// read loads a JSON file through the shard cache.
func (c *Client) read(path string, v any) error {
	if data, ok := c.cache.Get(path); ok {
		return json.Unmarshal(data, v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.cache.Add(path, data)
	return json.Unmarshal(data, v)
}

// WordResult is one word's search index entry.
type WordResult struct {
	Word         string
	Translation  string
	Occurrences  []string
	UniqueVerses int
}

// Word looks a word up in a translation's search index. The occurrence
// list keeps duplicates, so len(Occurrences) counts occurrences and
// UniqueVerses counts distinct verses.
func (c *Client) Word(translationID, word string) (*WordResult, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return nil, ErrNotFound
	}

	dir := filepath.Join(c.cfg.SearchIndexDir(), translationID)
	var manifest index.WordIndexManifest
	if err := c.read(filepath.Join(dir, "index.json"), &manifest); err != nil {
		return nil, fmt.Errorf("word index for %q: %w", translationID, err)
	}

	bucket := index.BucketFor(key)
	file := ""
	for _, b := range manifest.Buckets {
		if b.Bucket == bucket {
			file = b.File
			break
		}
	}
	if file == "" {
		return nil, fmt.Errorf("word %q: %w", key, ErrNotFound)
	}

	var words map[string][]string
	if err := c.read(filepath.Join(dir, file), &words); err != nil {
		return nil, fmt.Errorf("bucket %q: %w", bucket, err)
	}
	occurrences, ok := words[key]
	if !ok {
		return nil, fmt.Errorf("word %q: %w", key, ErrNotFound)
	}

	unique := make(map[string]struct{}, len(occurrences))
	for _, id := range occurrences {
		unique[id] = struct{}{}
	}
	return &WordResult{
		Word:         key,
		Translation:  manifest.Translation,
		Occurrences:  occurrences,
		UniqueVerses: len(unique),
	}, nil
}

// Strongs returns the verse ids referencing a Strong's code in the
// concordance.
func (c *Client) Strongs(code string) ([]string, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return nil, ErrNotFound
	}
	var verses []string
	path := filepath.Join(c.cfg.StrongsIndexDir(), key+".json")
	if err := c.read(path, &verses); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("code %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return verses, nil
}

// TermResult is one term's original-language index entry.
type TermResult struct {
	Term        string
	Translation string
	Verses      []string
}

// Original looks a term up in the original-language index. The query is
// normalized the same way index terms were, so "shalom", "Shālôm" and
// "H7965" all resolve. An empty translationID picks the indexed
// translation automatically; the generator only ever builds one.
func (c *Client) Original(translationID, term string) (*TermResult, error) {
	if translationID == "" {
		var err error
		if translationID, err = c.indexedTranslation(); err != nil {
			return nil, err
		}
	}

	key := index.NormalizeTerm(term)
	if key == "" {
		return nil, ErrNotFound
	}

	dir := filepath.Join(c.cfg.OrigLangIndexDir(), translationID)
	var manifest index.OrigLangManifest
	if err := c.read(filepath.Join(dir, "index.json"), &manifest); err != nil {
		return nil, fmt.Errorf("original-language index for %q: %w", translationID, err)
	}

	bucket := index.BucketFor(key)
	file := ""
	for _, b := range manifest.Buckets {
		if b.Bucket == bucket {
			file = b.File
			break
		}
	}
	if file == "" {
		return nil, fmt.Errorf("term %q: %w", key, ErrNotFound)
	}

	var terms map[string][]string
	if err := c.read(filepath.Join(dir, file), &terms); err != nil {
		return nil, fmt.Errorf("bucket %q: %w", bucket, err)
	}
	verses, ok := terms[key]
	if !ok {
		return nil, fmt.Errorf("term %q: %w", key, ErrNotFound)
	}
	return &TermResult{Term: key, Translation: manifest.Translation, Verses: verses}, nil
}

func (c *Client) indexedTranslation() (string, error) {
	entries, err := os.ReadDir(c.cfg.OrigLangIndexDir())
	if err != nil {
		return "", fmt.Errorf("original-language index: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("original-language index: %w", ErrNotFound)
	}
	sort.Strings(dirs)
	return dirs[0], nil
}

// Define returns the lexicon entry for a Strong's code, reading only the
// chunk file whose name the code number determines.
func (c *Client) Define(code string) (lexicon.Entry, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	var lang string
	switch {
	case strings.HasPrefix(key, "H"):
		lang = "hebrew"
	case strings.HasPrefix(key, "G"):
		lang = "greek"
	default:
		return lexicon.Entry{}, fmt.Errorf("code %q: %w", code, ErrNotFound)
	}
	n, err := strconv.Atoi(key[1:])
	if err != nil || n < 1 {
		return lexicon.Entry{}, fmt.Errorf("code %q: %w", code, ErrNotFound)
	}

	size := c.cfg.Index.LexiconChunkSize
	if size < 1 {
		size = lexicon.DefaultChunkSize
	}
	block := (n - 1) / size
	file := fmt.Sprintf("%d-%d.json", block*size+1, block*size+size)

	var chunk map[string]lexicon.Entry
	path := filepath.Join(c.cfg.LexiconOutDir(lang), file)
	if err := c.read(path, &chunk); err != nil {
		if os.IsNotExist(err) {
			return lexicon.Entry{}, fmt.Errorf("code %q: %w", key, ErrNotFound)
		}
		return lexicon.Entry{}, err
	}
	entry, ok := chunk[key]
	if !ok {
		return lexicon.Entry{}, fmt.Errorf("code %q: %w", key, ErrNotFound)
	}
	return entry, nil
}
