// Package watch triggers regeneration when translation or lexicon source
// files change. Rapid bursts of writes, such as an editor save or a bulk
// copy into the texts directory, are coalesced into a single rebuild.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet window after the last change before a
// rebuild fires.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc regenerates the output tree. changed lists the source
// paths that triggered it, sorted and deduplicated.
type RebuildFunc func(changed []string) error

// Watcher watches source directories and invokes a rebuild after each
// debounced batch of changes. It watches flat directories, not trees:
// the pipeline's sources are plain files in known locations.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fsw: fsw, debounce: debounce, log: log}, nil
}

// Close releases the underlying file system watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run watches dirs until ctx is cancelled, calling rebuild once per
// debounced batch of JSON source changes. A failed rebuild is logged and
// watching continues; the next change gets a fresh attempt.
func (w *Watcher) Run(ctx context.Context, dirs []string, rebuild RebuildFunc) error {
	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.log.Info("watching", slog.String("dir", dir))
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})
			timer = nil
			fire = nil

			w.log.Info("sources_changed", slog.Int("files", len(changed)))
			if err := rebuild(changed); err != nil {
				w.log.Error("rebuild_failed", slog.String("error", err.Error()))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

// relevant filters watcher noise: only JSON source files matter, and only
// operations that change their content or presence.
func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
}
