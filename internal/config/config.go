// Package config loads and validates the pipeline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
)

// DefaultConfigFile is the project-level configuration filename.
const DefaultConfigFile = ".biblefetch.yaml"

// Config is the complete pipeline configuration.
type Config struct {
	Version     int               `yaml:"version"`
	Paths       PathsConfig       `yaml:"paths"`
	Index       IndexConfig       `yaml:"index"`
	Performance PerformanceConfig `yaml:"performance"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PathsConfig describes the asset tree layout. All paths are relative to
// Assets unless absolute.
type PathsConfig struct {
	// Assets is the root under which everything is read and written.
	Assets string `yaml:"assets"`
	// Texts holds the raw translation source files.
	Texts string `yaml:"texts"`
	// Lexicons holds the raw hebrew.json and greek.json sources.
	Lexicons string `yaml:"lexicons"`
}

// IndexConfig configures the index builders.
type IndexConfig struct {
	// Translations is the ordered list of translation ids to word-index.
	Translations []string `yaml:"translations"`
	// PreferredStrongs is the ordered list of Strong's-tagged translation
	// ids tried by the original-language builder.
	PreferredStrongs []string `yaml:"preferred_strongs"`
	// StrongsSource is the tagged source file (under Texts) the
	// concordance is built from.
	StrongsSource string `yaml:"strongs_source"`
	// MinWordLength is the minimum token length kept by the word index.
	MinWordLength int `yaml:"min_word_length"`
	// LexiconChunkSize is the nominal entries-per-file window for the
	// normalized lexicon shards.
	LexiconChunkSize int `yaml:"lexicon_chunk_size"`
}

// PerformanceConfig configures resource bounds.
type PerformanceConfig struct {
	// WriteConcurrency caps simultaneous file writes.
	WriteConcurrency int `yaml:"write_concurrency"`
	// Parallel enables cross-translation parallelism in the batch run.
	// Translations share no mutable state, so this is safe; sequential
	// remains the default for predictable log and console ordering.
	Parallel bool `yaml:"parallel"`
}

// PipelineConfig configures batch failure propagation.
type PipelineConfig struct {
	// FailFast aborts the whole batch on the first translation failure
	// instead of isolating it and continuing.
	FailFast bool `yaml:"fail_fast"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Assets:   "assets",
			Texts:    "texts",
			Lexicons: "strongs",
		},
		Index: IndexConfig{
			Translations:     []string{"kjv_strongs", "karoli"},
			PreferredStrongs: []string{"asvs", "kjv_strongs"},
			StrongsSource:    "kjv_strongs.json",
			MinWordLength:    3,
			LexiconChunkSize: 400,
		},
		Performance: PerformanceConfig{
			WriteConcurrency: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path (or the default file if path is
// empty), overlaying the built-in defaults and then BIBLEFETCH_* env
// overrides. A missing default file is not an error; a named one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, pipeerr.Wrap(pipeerr.ErrCodeConfigInvalid, err).WithDetail("path", path)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, pipeerr.Wrap(pipeerr.ErrCodeConfigInvalid, err).WithDetail("path", path)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays BIBLEFETCH_* environment variables. Env has the last
// word so CI pipelines can tune runs without editing files.
func (c *Config) applyEnv() {
	if v := os.Getenv("BIBLEFETCH_ASSETS"); v != "" {
		c.Paths.Assets = v
	}
	if v := os.Getenv("BIBLEFETCH_TRANSLATIONS"); v != "" {
		c.Index.Translations = splitList(v)
	}
	if v := os.Getenv("BIBLEFETCH_MIN_WORD_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Index.MinWordLength = n
		}
	}
	if v := os.Getenv("BIBLEFETCH_WRITE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Performance.WriteConcurrency = n
		}
	}
	if v := os.Getenv("BIBLEFETCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks invariants the builders rely on.
func (c *Config) Validate() error {
	if c.Index.MinWordLength < 1 {
		return pipeerr.Newf(pipeerr.ErrCodeConfigInvalid,
			"min_word_length must be >= 1, got %d", c.Index.MinWordLength)
	}
	if c.Performance.WriteConcurrency < 1 {
		return pipeerr.Newf(pipeerr.ErrCodeConfigInvalid,
			"write_concurrency must be >= 1, got %d", c.Performance.WriteConcurrency)
	}
	if c.Index.LexiconChunkSize < 1 {
		return pipeerr.Newf(pipeerr.ErrCodeConfigInvalid,
			"lexicon_chunk_size must be >= 1, got %d", c.Index.LexiconChunkSize)
	}
	if len(c.Index.PreferredStrongs) == 0 {
		return pipeerr.Newf(pipeerr.ErrCodeConfigInvalid, "preferred_strongs must not be empty")
	}
	return nil
}

// resolve joins a configured path with the assets root unless it is
// already absolute.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.Assets, path)
}

// TextsDir is the raw translation source directory.
func (c *Config) TextsDir() string { return c.resolve(c.Paths.Texts) }

// BiblesDir is the chapter chunk output root.
func (c *Config) BiblesDir() string { return c.resolve("bibles") }

// SearchIndexDir is the word index output root.
func (c *Config) SearchIndexDir() string { return c.resolve(filepath.Join("index", "search")) }

// StrongsIndexDir is the concordance output directory.
func (c *Config) StrongsIndexDir() string { return c.resolve(filepath.Join("index", "strongs")) }

// OrigLangIndexDir is the original-language index output root.
func (c *Config) OrigLangIndexDir() string {
	return c.resolve(filepath.Join("index", "original-language"))
}

// HebrewLexicon is the raw Hebrew lexicon source file.
func (c *Config) HebrewLexicon() string {
	return filepath.Join(c.resolve(c.Paths.Lexicons), "hebrew.json")
}

// GreekLexicon is the raw Greek lexicon source file.
func (c *Config) GreekLexicon() string {
	return filepath.Join(c.resolve(c.Paths.Lexicons), "greek.json")
}

// LexiconOutDir is the chunked lexicon output directory for one language
// ("hebrew" or "greek").
func (c *Config) LexiconOutDir(lang string) string {
	return filepath.Join(c.resolve(c.Paths.Lexicons), lang)
}

// StrongsSourcePath is the tagged translation file the concordance reads.
func (c *Config) StrongsSourcePath() string {
	return filepath.Join(c.TextsDir(), c.Index.StrongsSource)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String renders the effective configuration for debug output.
func (c *Config) String() string {
	return fmt.Sprintf("assets=%s translations=%v preferred=%v concurrency=%d",
		c.Paths.Assets, c.Index.Translations, c.Index.PreferredStrongs,
		c.Performance.WriteConcurrency)
}
