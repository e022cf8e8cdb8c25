package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"lipi/internal/logging"
)

// ErrWatchBusy indicates another watcher already holds the inbox lock.
var ErrWatchBusy = errors.New("watch: another watcher is already running for this inbox")

// DefaultDebounce is applied when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// ProcessFunc handles one settled transcript file.
type ProcessFunc func(ctx context.Context, inputPath, outputPath, language string) error

// Options configure a watch session.
type Options struct {
	// InDir is the inbox to watch for *.json transcripts.
	InDir string
	// OutDir receives checked transcripts under the same base name.
	OutDir string
	// Language is the declared language for every checked file.
	Language string
	// Debounce is how long a file must stay quiet before processing.
	Debounce time.Duration
	// LockPath overrides the inbox lock location.
	LockPath string
}

// Watcher owns one watch session over an inbox directory.
type Watcher struct {
	opts    Options
	process ProcessFunc
	logger  *slog.Logger
	lock    *flock.Flock

	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer

	processed atomic.Int64
	skipped   atomic.Int64
}

// New validates the options and builds a watcher.
func New(opts Options, process ProcessFunc, logger *slog.Logger) (*Watcher, error) {
	if opts.InDir == "" {
		return nil, errors.New("watch: in dir required")
	}
	if opts.OutDir == "" {
		return nil, errors.New("watch: out dir required")
	}
	if filepath.Clean(opts.InDir) == filepath.Clean(opts.OutDir) {
		return nil, errors.New("watch: in dir and out dir must differ")
	}
	if opts.Language == "" {
		return nil, errors.New("watch: language required")
	}
	if process == nil {
		return nil, errors.New("watch: process func required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.LockPath == "" {
		opts.LockPath = filepath.Join(opts.InDir, ".watch.lock")
	}
	return &Watcher{
		opts:           opts,
		process:        process,
		logger:         logging.NewComponentLogger(logger, "watch"),
		lock:           flock.New(opts.LockPath),
		debounceTimers: make(map[string]*time.Timer),
	}, nil
}

// Run watches the inbox until ctx is cancelled. Files already present are
// swept first. Returns nil on clean shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.opts.InDir, 0o755); err != nil {
		return fmt.Errorf("watch: ensure in dir: %w", err)
	}
	if err := os.MkdirAll(w.opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("watch: ensure out dir: %w", err)
	}

	locked, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("watch: acquire lock: %w", err)
	}
	if !locked {
		return ErrWatchBusy
	}
	defer func() {
		_ = w.lock.Unlock()
	}()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer notifier.Close()

	if err := notifier.Add(w.opts.InDir); err != nil {
		return fmt.Errorf("watch: watch %s: %w", w.opts.InDir, err)
	}

	w.logger.Info("watching for transcripts",
		logging.String("in_dir", w.opts.InDir),
		logging.String("out_dir", w.opts.OutDir),
		logging.String(logging.FieldLanguage, w.opts.Language),
		logging.Duration("debounce", w.opts.Debounce))

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.drainTimers()
			w.logger.Info("watcher stopped",
				logging.Int64("files_processed", w.processed.Load()),
				logging.Int64("files_skipped", w.skipped.Load()))
			return nil

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isTranscriptName(filepath.Base(event.Name)) {
				continue
			}
			w.scheduleProcess(ctx, event.Name)

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", logging.Error(err))
		}
	}
}

// sweep processes transcripts already sitting in the inbox, oldest names
// first so reruns are deterministic.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.opts.InDir)
	if err != nil {
		w.logger.Warn("sweep failed", logging.Error(err))
		return
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isTranscriptName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) > 0 {
		w.logger.Info("sweeping existing transcripts", logging.Int("count", len(names)))
	}
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, filepath.Join(w.opts.InDir, name))
	}
}

// scheduleProcess debounces a file until events on it stop arriving.
func (w *Watcher) scheduleProcess(ctx context.Context, path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, ok := w.debounceTimers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.debounceTimers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, path)
	})
}

// drainTimers stops pending debounce timers during shutdown.
func (w *Watcher) drainTimers() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	for path, t := range w.debounceTimers {
		t.Stop()
		delete(w.debounceTimers, path)
	}
}

// handle checks one transcript. Failures are logged and counted, never
// returned: a bad file must not stop the watcher.
func (w *Watcher) handle(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		w.skipped.Add(1)
		return
	}

	outputPath := filepath.Join(w.opts.OutDir, filepath.Base(path))
	if err := w.process(ctx, path, outputPath, w.opts.Language); err != nil {
		w.skipped.Add(1)
		w.logger.Warn("transcript check failed",
			logging.String("path", path),
			logging.Error(err))
		return
	}
	w.processed.Add(1)
}

// isTranscriptName reports whether a file name looks like a transcript.
// Hidden files are excluded so editors' and atomic writers' temp files
// never trigger a check.
func isTranscriptName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".json")
}
