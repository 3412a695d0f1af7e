// Package errors provides structured error handling for the generation
// pipeline.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Corpus and index errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryCorpus indicates corpus and index content errors.
	CategoryCorpus Category = "CORPUS"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines how a failure propagates through a batch run.
type Severity string

const (
	// SeverityFatal aborts the whole run; no partial output is safe.
	SeverityFatal Severity = "FATAL"
	// SeverityError fails the current item (translation, chapter) but
	// lets sibling items continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeInputDirNotFound = "ERR_201_INPUT_DIR_NOT_FOUND"
	ErrCodeSourceUnreadable = "ERR_202_SOURCE_UNREADABLE"
	ErrCodeSourceMalformed  = "ERR_203_SOURCE_MALFORMED"
	ErrCodeWriteFailed      = "ERR_204_WRITE_FAILED"
	ErrCodeLockHeld         = "ERR_205_LOCK_HELD"

	// Corpus and index errors (300-399)
	ErrCodeTranslationNotFound = "ERR_301_TRANSLATION_NOT_FOUND"
	ErrCodeStrongsMissing      = "ERR_302_STRONGS_TRANSLATION_MISSING"
	ErrCodeChapterUnreadable   = "ERR_303_CHAPTER_UNREADABLE"
	ErrCodeLexiconMalformed    = "ERR_304_LEXICON_MALFORMED"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode derives the category from the numeric range of a code.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryCorpus
	default:
		return CategoryInternal
	}
}

// severityFromCode maps each code to its propagation behavior.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeInputDirNotFound, ErrCodeStrongsMissing, ErrCodeConfigInvalid, ErrCodeLockHeld:
		return SeverityFatal
	case ErrCodeChapterUnreadable:
		return SeverityWarning
	default:
		return SeverityError
	}
}
