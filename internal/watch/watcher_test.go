package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

type callRecorder struct {
	mu    sync.Mutex
	calls [][3]string
	err   error
	ch    chan string
}

func (c *callRecorder) process(ctx context.Context, inputPath, outputPath, language string) error {
	c.mu.Lock()
	c.calls = append(c.calls, [3]string{inputPath, outputPath, language})
	c.mu.Unlock()
	if c.ch != nil {
		select {
		case c.ch <- inputPath:
		default:
		}
	}
	return c.err
}

func (c *callRecorder) snapshot() [][3]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][3]string(nil), c.calls...)
}

func newTestOptions(t *testing.T) Options {
	t.Helper()
	base := t.TempDir()
	return Options{
		InDir:    filepath.Join(base, "inbox"),
		OutDir:   filepath.Join(base, "outbox"),
		Language: "hi",
		Debounce: 30 * time.Millisecond,
	}
}

func TestNewValidation(t *testing.T) {
	recorder := &callRecorder{}
	valid := newTestOptions(t)

	cases := []struct {
		name    string
		mutate  func(*Options)
		process ProcessFunc
	}{
		{"missing in dir", func(o *Options) { o.InDir = "" }, recorder.process},
		{"missing out dir", func(o *Options) { o.OutDir = "" }, recorder.process},
		{"identical dirs", func(o *Options) { o.OutDir = o.InDir }, recorder.process},
		{"missing language", func(o *Options) { o.Language = "" }, recorder.process},
		{"nil process", func(o *Options) {}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := valid
			tc.mutate(&opts)
			if _, err := New(opts, tc.process, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	opts := newTestOptions(t)
	opts.Debounce = 0
	watcher, err := New(opts, (&callRecorder{}).process, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if watcher.opts.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", watcher.opts.Debounce, DefaultDebounce)
	}
	if watcher.opts.LockPath != filepath.Join(opts.InDir, ".watch.lock") {
		t.Errorf("LockPath = %q", watcher.opts.LockPath)
	}
}

func TestSweepProcessesExisting(t *testing.T) {
	opts := newTestOptions(t)
	if err := os.MkdirAll(opts.InDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.json", "a.json", "notes.txt", ".hidden.json"} {
		if err := os.WriteFile(filepath.Join(opts.InDir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	recorder := &callRecorder{}
	watcher, err := New(opts, recorder.process, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	watcher.sweep(context.Background())

	calls := recorder.snapshot()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d: %v", len(calls), calls)
	}
	if filepath.Base(calls[0][0]) != "a.json" || filepath.Base(calls[1][0]) != "b.json" {
		t.Fatalf("expected sorted sweep, got %v", calls)
	}
	if calls[0][1] != filepath.Join(opts.OutDir, "a.json") {
		t.Errorf("unexpected output path %q", calls[0][1])
	}
	if calls[0][2] != "hi" {
		t.Errorf("unexpected language %q", calls[0][2])
	}
}

func TestHandleSkipsFailingFiles(t *testing.T) {
	opts := newTestOptions(t)
	if err := os.MkdirAll(opts.InDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(opts.InDir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	recorder := &callRecorder{err: errors.New("parse failed")}
	watcher, err := New(opts, recorder.process, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	watcher.handle(context.Background(), path)
	if got := watcher.skipped.Load(); got != 1 {
		t.Errorf("skipped = %d, want 1", got)
	}
	if got := watcher.processed.Load(); got != 0 {
		t.Errorf("processed = %d, want 0", got)
	}
}

func TestRunBusy(t *testing.T) {
	opts := newTestOptions(t)
	if err := os.MkdirAll(opts.InDir, 0o755); err != nil {
		t.Fatal(err)
	}

	holder := flock.New(filepath.Join(opts.InDir, ".watch.lock"))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock for test: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	watcher, err := New(opts, (&callRecorder{}).process, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := watcher.Run(context.Background()); !errors.Is(err, ErrWatchBusy) {
		t.Fatalf("expected ErrWatchBusy, got %v", err)
	}
}

func TestRunPicksUpNewFile(t *testing.T) {
	opts := newTestOptions(t)
	recorder := &callRecorder{ch: make(chan string, 4)}
	watcher, err := New(opts, recorder.process, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	path := filepath.Join(opts.InDir, "fresh.json")
	deadline := time.After(5 * time.Second)
	touch := time.NewTicker(300 * time.Millisecond)
	defer touch.Stop()

	var processedPath string
waitLoop:
	for {
		select {
		case processedPath = <-recorder.ch:
			break waitLoop
		case <-touch.C:
			if err := os.WriteFile(path, []byte(`{"text": "namaste"}`), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for watcher to process file")
		}
	}
	if processedPath != path {
		t.Fatalf("processed %q, want %q", processedPath, path)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsTranscriptName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"clip.json", true},
		{"CLIP.JSON", true},
		{"clip.words.json", true},
		{"clip.txt", false},
		{".hidden.json", false},
		{".clip.json.tmp-123", false},
		{"clip", false},
	}
	for _, tc := range cases {
		if got := isTranscriptName(tc.name); got != tc.want {
			t.Errorf("isTranscriptName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
