// Package pipeline sequences the generation stages over one asset tree:
// shard the raw translations, then build every index off the sharded
// corpus, then chunk the lexicons.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/VeryOriginalIK/BibleFetch/internal/config"
	"github.com/VeryOriginalIK/BibleFetch/internal/corpus"
	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
	"github.com/VeryOriginalIK/BibleFetch/internal/index"
	"github.com/VeryOriginalIK/BibleFetch/internal/lexicon"
	"github.com/VeryOriginalIK/BibleFetch/internal/output"
	"github.com/VeryOriginalIK/BibleFetch/internal/report"
	"github.com/VeryOriginalIK/BibleFetch/internal/writequeue"
)

// Stage names, in execution order.
const (
	StageBibles   = "bibles"
	StageSearch   = "search"
	StageStrongs  = "strongs"
	StageOrigLang = "original-language"
	StageLexicon  = "lexicon"
)

// Stages returns every stage name in canonical execution order.
func Stages() []string {
	return []string{StageBibles, StageSearch, StageStrongs, StageOrigLang, StageLexicon}
}

// IsStage reports whether name is a known stage.
func IsStage(name string) bool {
	for _, s := range Stages() {
		if s == name {
			return true
		}
	}
	return false
}

// Runner executes generation stages against the configured asset tree.
type Runner struct {
	cfg *config.Config
	log *slog.Logger
	out *output.Writer
}

// New creates a runner. A nil logger uses slog.Default; a nil writer
// discards console output.
func New(cfg *config.Config, log *slog.Logger, out *output.Writer) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if out == nil {
		out = output.NewPlain(io.Discard)
	}
	return &Runner{cfg: cfg, log: log, out: out}
}

// Run executes the requested stages in canonical order, holding the run
// lock for the duration and writing report.json under the asset root
// whether or not the run succeeds. An empty stage list runs everything.
//
// Fatal errors abort the run immediately. Per-item failures are isolated
// by default: the failing translation or lexicon is recorded in the
// report, the rest of the run continues, and Run returns nil. FailFast
// promotes the first per-item failure to an abort.
func (r *Runner) Run(ctx context.Context, stages []string) error {
	requested, err := normalizeStages(stages)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.cfg.Paths.Assets, 0o755); err != nil {
		return pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, err).WithDetail("dir", r.cfg.Paths.Assets)
	}
	lock := newRunLock(r.cfg.Paths.Assets)
	if err := lock.acquire(); err != nil {
		return err
	}
	defer lock.release()

	rep := report.New()
	defer func() {
		if werr := rep.Write(r.cfg.Paths.Assets); werr != nil {
			r.log.Error("report_write_failed", slog.String("error", werr.Error()))
		}
	}()

	r.out.Header("biblefetch generate")
	r.log.Info("run_started", slog.String("run_id", rep.RunID),
		slog.String("stages", strings.Join(requestedNames(requested), ",")))

	for _, stage := range Stages() {
		if !requested[stage] {
			rep.StartStage(stage)(report.StatusSkipped, nil, nil)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.out.Statusf("stage %s", stage)
		if err := r.runStage(ctx, stage, rep); err != nil {
			r.out.Errorf("stage %s aborted: %v", stage, err)
			return err
		}
	}

	if rep.Failed {
		r.out.Warning("generation completed with failures, see report.json")
	} else {
		r.out.Success("generation complete")
	}
	return nil
}

func normalizeStages(stages []string) (map[string]bool, error) {
	requested := make(map[string]bool, len(Stages()))
	if len(stages) == 0 {
		for _, s := range Stages() {
			requested[s] = true
		}
		return requested, nil
	}
	for _, s := range stages {
		if !IsStage(s) {
			return nil, pipeerr.Newf(pipeerr.ErrCodeConfigInvalid,
				"unknown stage %q, valid stages: %s", s, strings.Join(Stages(), ", "))
		}
		requested[s] = true
	}
	return requested, nil
}

func requestedNames(requested map[string]bool) []string {
	var names []string
	for _, s := range Stages() {
		if requested[s] {
			names = append(names, s)
		}
	}
	return names
}

func (r *Runner) runStage(ctx context.Context, stage string, rep *report.Report) error {
	switch stage {
	case StageBibles:
		return r.runBibles(ctx, rep)
	case StageSearch:
		return r.runSearch(ctx, rep)
	case StageStrongs:
		return r.runStrongs(ctx, rep)
	case StageOrigLang:
		return r.runOrigLang(ctx, rep)
	case StageLexicon:
		return r.runLexicon(ctx, rep)
	default:
		return pipeerr.Newf(pipeerr.ErrCodeInternal, "unhandled stage %q", stage)
	}
}

// runBibles loads every raw translation source and shards it into the
// chapter chunk tree. An unreadable or empty texts directory is fatal;
// a single bad source file fails only itself.
func (r *Runner) runBibles(ctx context.Context, rep *report.Report) error {
	done := rep.StartStage(StageBibles)

	sources, err := listSources(r.cfg.TextsDir())
	if err != nil {
		done(report.StatusFailed, err, nil)
		return err
	}

	queue := writequeue.New(r.cfg.Performance.WriteConcurrency)
	sharder := corpus.NewSharder(r.cfg.BiblesDir(), queue, r.log)

	var mu sync.Mutex
	counts := map[string]int{}
	errs, abort := r.forEach(ctx, sources, func(path string) error {
		t, err := corpus.LoadTranslation(path)
		if err != nil {
			return err
		}
		stats, err := sharder.Shard(t)
		if err != nil {
			return err
		}
		mu.Lock()
		counts["translations"]++
		counts["verses"] += stats.Verses
		counts["chapters"] += stats.Chapters
		counts["droppedVerses"] += stats.Dropped
		mu.Unlock()
		r.out.Statusf("  %s: %d verses, %d dropped", t.ID, stats.Verses, stats.Dropped)
		return nil
	})
	if werr := queue.Wait(); werr != nil {
		errs = append(errs, pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, werr))
	}
	counts["filesWritten"] = queue.Submitted() - queue.Failed()
	rep.AddDropped(counts["droppedVerses"])

	return r.finishStage(done, counts, errs, abort)
}

// runSearch builds the word index for every configured translation off
// the sharded corpus. A translation missing from the corpus fails only
// itself.
func (r *Runner) runSearch(ctx context.Context, rep *report.Report) error {
	done := rep.StartStage(StageSearch)

	queue := writequeue.New(r.cfg.Performance.WriteConcurrency)
	builder := index.NewWordIndexBuilder(r.cfg.BiblesDir(), r.cfg.SearchIndexDir(),
		r.cfg.Index.MinWordLength, queue, r.log)

	var mu sync.Mutex
	counts := map[string]int{}
	errs, abort := r.forEach(ctx, r.cfg.Index.Translations, func(id string) error {
		stats, err := builder.Build(id)
		if err != nil {
			return err
		}
		mu.Lock()
		counts["translations"]++
		counts["words"] += stats.TotalWords
		counts["verses"] += stats.TotalVerses
		counts["buckets"] += stats.Buckets
		counts["skippedChapters"] += stats.SkippedChapters
		mu.Unlock()
		r.out.Statusf("  %s: %d words in %d buckets", id, stats.TotalWords, stats.Buckets)
		return nil
	})
	if werr := queue.Wait(); werr != nil {
		errs = append(errs, pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, werr))
	}
	counts["filesWritten"] = queue.Submitted() - queue.Failed()

	return r.finishStage(done, counts, errs, abort)
}

// runStrongs builds the concordance from the configured tagged source.
func (r *Runner) runStrongs(ctx context.Context, rep *report.Report) error {
	done := rep.StartStage(StageStrongs)

	t, err := corpus.LoadTranslation(r.cfg.StrongsSourcePath())
	if err != nil {
		done(report.StatusFailed, err, nil)
		if r.cfg.Pipeline.FailFast || pipeerr.IsFatal(err) {
			return err
		}
		return nil
	}

	queue := writequeue.New(r.cfg.Performance.WriteConcurrency)
	builder := index.NewConcordanceBuilder(r.cfg.StrongsIndexDir(), queue, r.log)

	stats, err := builder.Build(t)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if werr := queue.Wait(); werr != nil {
		errs = append(errs, pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, werr))
	}
	counts := map[string]int{
		"verses":       stats.Verses,
		"tags":         stats.Tags,
		"codes":        stats.Codes,
		"filesWritten": queue.Submitted() - queue.Failed(),
	}
	r.out.Statusf("  %s: %d codes from %d tags", t.ID, stats.Codes, stats.Tags)

	return r.finishStage(done, counts, errs, nil)
}

// runOrigLang builds the original-language term index from the first
// available preferred Strong's-tagged translation. No candidate in the
// corpus is fatal: the index cannot exist without one.
func (r *Runner) runOrigLang(ctx context.Context, rep *report.Report) error {
	done := rep.StartStage(StageOrigLang)

	translationID, err := index.ChooseTranslation(r.cfg.BiblesDir(), r.cfg.Index.PreferredStrongs)
	if err != nil {
		done(report.StatusFailed, err, nil)
		return err
	}

	table, err := lexicon.LoadTable(r.cfg.HebrewLexicon(), r.cfg.GreekLexicon())
	if err != nil {
		done(report.StatusFailed, err, nil)
		if r.cfg.Pipeline.FailFast || pipeerr.IsFatal(err) {
			return err
		}
		return nil
	}

	queue := writequeue.New(r.cfg.Performance.WriteConcurrency)
	builder := index.NewOrigLangBuilder(r.cfg.BiblesDir(), r.cfg.OrigLangIndexDir(), queue, r.log)

	stats, err := builder.Build(translationID, table)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if werr := queue.Wait(); werr != nil {
		errs = append(errs, pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, werr))
	}
	counts := map[string]int{
		"verses":       stats.Verses,
		"tags":         stats.Tags,
		"terms":        stats.Terms,
		"buckets":      stats.Buckets,
		"filesWritten": queue.Submitted() - queue.Failed(),
	}
	r.out.Statusf("  %s: %d terms from %d tags", translationID, stats.Terms, stats.Tags)

	return r.finishStage(done, counts, errs, nil)
}

// runLexicon normalizes both lexicon sources into chunked shards. Each
// language fails independently.
func (r *Runner) runLexicon(ctx context.Context, rep *report.Report) error {
	done := rep.StartStage(StageLexicon)

	queue := writequeue.New(r.cfg.Performance.WriteConcurrency)
	size := r.cfg.Index.LexiconChunkSize

	var errs []error
	counts := map[string]int{}

	hebrew, err := lexicon.LoadHebrew(r.cfg.HebrewLexicon())
	if err != nil {
		errs = append(errs, err)
	} else {
		n := lexicon.WriteChunks(r.cfg.LexiconOutDir("hebrew"), hebrew, size, queue, r.log)
		counts["hebrewEntries"] = len(hebrew)
		counts["hebrewChunks"] = n
		r.out.Statusf("  hebrew: %d entries in %d chunks", len(hebrew), n)
	}

	greek, err := lexicon.LoadGreek(r.cfg.GreekLexicon())
	if err != nil {
		errs = append(errs, err)
	} else {
		n := lexicon.WriteChunks(r.cfg.LexiconOutDir("greek"), greek, size, queue, r.log)
		counts["greekEntries"] = len(greek)
		counts["greekChunks"] = n
		r.out.Statusf("  greek: %d entries in %d chunks", len(greek), n)
	}

	if werr := queue.Wait(); werr != nil {
		errs = append(errs, pipeerr.Wrap(pipeerr.ErrCodeWriteFailed, werr))
	}
	counts["filesWritten"] = queue.Submitted() - queue.Failed()

	if r.cfg.Pipeline.FailFast && len(errs) > 0 {
		abort := errs[0]
		return r.finishStage(done, counts, errs[1:], abort)
	}
	return r.finishStage(done, counts, errs, nil)
}

// finishStage closes a stage's report entry and decides propagation:
// abort errors return to the caller, isolated errors mark the stage
// failed but let the run continue.
func (r *Runner) finishStage(done func(string, error, map[string]int), counts map[string]int, errs []error, abort error) error {
	if abort != nil {
		done(report.StatusFailed, errors.Join(append(errs, abort)...), counts)
		return abort
	}
	if len(errs) > 0 {
		for _, e := range errs {
			r.out.Warningf("  %v", e)
		}
		done(report.StatusFailed, errors.Join(errs...), counts)
		return nil
	}
	done(report.StatusOK, nil, counts)
	return nil
}

// forEach runs fn over items, sequentially by default or concurrently
// when parallel mode is on. Items share no mutable pipeline state, so
// concurrency is safe; the write queue serializes disk pressure either
// way. Returns the isolated per-item errors plus the abort error, if
// any: a fatal error, any error under FailFast, or a cancelled context.
func (r *Runner) forEach(ctx context.Context, items []string, fn func(string) error) (errs []error, abort error) {
	if r.cfg.Performance.Parallel {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items {
			item := item
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				err := fn(item)
				if err == nil {
					return nil
				}
				if r.cfg.Pipeline.FailFast || pipeerr.IsFatal(err) {
					return err
				}
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			})
		}
		return errs, g.Wait()
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		err := fn(item)
		if err == nil {
			continue
		}
		if r.cfg.Pipeline.FailFast || pipeerr.IsFatal(err) {
			return errs, err
		}
		errs = append(errs, err)
	}
	return errs, nil
}

// listSources returns the JSON source files under the texts directory,
// sorted for a stable processing order. Unreadable and empty directories
// are fatal: there is nothing to generate from.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.ErrCodeInputDirNotFound, err).WithDetail("dir", dir)
	}
	var sources []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		sources = append(sources, filepath.Join(dir, e.Name()))
	}
	if len(sources) == 0 {
		return nil, pipeerr.Newf(pipeerr.ErrCodeInputDirNotFound,
			"no translation sources in %s", dir)
	}
	sort.Strings(sources)
	return sources, nil
}
