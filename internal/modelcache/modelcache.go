package modelcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"lipi/internal/logging"
)

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// Manager handles inspecting and clearing the model cache.
type Manager struct {
	root   string
	logger *slog.Logger
	statfs statfsFunc
	lock   *flock.Flock
}

// Entry describes one cached model.
type Entry struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
	IsDir      bool      `json:"is_dir"`
}

// Stats describes current cache usage and the filesystem it sits on.
type Stats struct {
	Exists       bool    `json:"exists"`
	Root         string  `json:"root"`
	Entries      int     `json:"entries"`
	TotalBytes   int64   `json:"total_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	TotalFSBytes uint64  `json:"total_fs_bytes"`
	FreeRatio    float64 `json:"free_ratio"`
	Models       []Entry `json:"models"`
}

// ResetResult summarizes a completed cache reset.
type ResetResult struct {
	Existed       bool  `json:"existed"`
	ModelsRemoved int   `json:"models_removed"`
	BytesFreed    int64 `json:"bytes_freed"`
}

// ErrCacheBusy indicates another destructive cache operation holds the lock.
var ErrCacheBusy = errors.New("modelcache: another cache operation is in progress")

// NewManager builds a cache manager rooted at root.
func NewManager(root string, logger *slog.Logger) *Manager {
	root = strings.TrimSpace(root)
	return &Manager{
		root:   root,
		logger: logging.NewComponentLogger(logger, "modelcache"),
		statfs: realStatfs,
		lock:   flock.New(root + ".lock"),
	}
}

// Root returns the cache directory this manager operates on.
func (m *Manager) Root() string {
	return m.root
}

// Entries lists cached models sorted by name. A missing cache root
// yields an empty list.
func (m *Manager) Entries() ([]Entry, error) {
	entries, _, err := m.scan()
	return entries, err
}

// Stats returns current cache contents and free-space information for
// the filesystem holding the cache.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	s := Stats{Root: m.root}
	entries, total, err := m.scan()
	if err != nil {
		return s, err
	}
	if _, err := os.Stat(m.root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("modelcache: stat root: %w", err)
	}
	s.Exists = true
	s.Entries = len(entries)
	s.TotalBytes = total
	s.Models = entries

	totalFS, freeFS, err := m.statfs(m.root)
	if err != nil {
		return s, fmt.Errorf("modelcache: statfs: %w", err)
	}
	s.TotalFSBytes = totalFS
	s.FreeBytes = freeFS
	if totalFS > 0 {
		s.FreeRatio = float64(freeFS) / float64(totalFS)
	}
	if len(entries) == 0 {
		m.logger.DebugContext(ctx, "model cache empty", logging.String("root", m.root))
	}
	return s, nil
}

// Reset deletes the entire cache root and recreates it empty. The
// engine re-downloads models on demand, so this is always safe. Reset
// of an absent cache is a no-op that still leaves an empty root
// behind, making repeated resets idempotent.
func (m *Manager) Reset(ctx context.Context) (ResetResult, error) {
	var result ResetResult

	unlock, err := m.acquireLock()
	if err != nil {
		return result, err
	}
	defer unlock()

	entries, total, err := m.scan()
	if err != nil {
		return result, err
	}
	if _, err := os.Stat(m.root); err == nil {
		result.Existed = true
	}

	for _, entry := range entries {
		m.logger.InfoContext(ctx, "removing cached model",
			logging.String("model", entry.Name),
			logging.Int64("size_bytes", entry.SizeBytes),
		)
	}

	if err := os.RemoveAll(m.root); err != nil {
		return result, fmt.Errorf("modelcache: remove root: %w", err)
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return result, fmt.Errorf("modelcache: recreate root: %w", err)
	}

	result.ModelsRemoved = len(entries)
	result.BytesFreed = total
	m.logger.InfoContext(ctx, "model cache reset",
		logging.String("root", m.root),
		logging.Int("models_removed", result.ModelsRemoved),
		logging.Int64("bytes_freed", result.BytesFreed),
	)
	return result, nil
}

// Remove deletes a single cached model by name and reports the bytes
// freed. The name must be a direct child of the cache root.
func (m *Manager) Remove(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("modelcache: model name is empty")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return 0, fmt.Errorf("modelcache: invalid model name %q", name)
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	path := filepath.Join(m.root, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("modelcache: model %q not found", name)
		}
		return 0, fmt.Errorf("modelcache: stat model: %w", err)
	}

	var size int64
	if info.IsDir() {
		size, _, err = dirSizeAndTime(path)
		if err != nil {
			return 0, fmt.Errorf("modelcache: size model: %w", err)
		}
	} else {
		size = info.Size()
	}

	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("modelcache: remove %q: %w", name, err)
	}
	m.logger.InfoContext(ctx, "removed cached model",
		logging.String("model", name),
		logging.Int64("size_bytes", size),
	)
	return size, nil
}

func (m *Manager) acquireLock() (func(), error) {
	if dir := filepath.Dir(m.root); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("modelcache: create cache parent: %w", err)
		}
	}
	locked, err := m.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("modelcache: acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrCacheBusy
	}
	return func() {
		_ = m.lock.Unlock()
	}, nil
}

func (m *Manager) scan() ([]Entry, int64, error) {
	entries := make([]Entry, 0)
	var total int64
	rootEntries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, 0, nil
		}
		return nil, 0, fmt.Errorf("modelcache: list root: %w", err)
	}
	for _, entry := range rootEntries {
		name := entry.Name()
		path := filepath.Join(m.root, name)
		var item Entry
		if entry.IsDir() {
			size, mtime, err := dirSizeAndTime(path)
			if err != nil {
				m.logger.Warn("skipping unreadable cache entry",
					logging.String("model", name),
					logging.Error(err),
					logging.String(logging.FieldEventType, "model_entry_skipped"),
				)
				continue
			}
			item = Entry{Name: name, SizeBytes: size, ModifiedAt: mtime, IsDir: true}
		} else {
			info, err := entry.Info()
			if err != nil {
				m.logger.Warn("skipping unreadable cache entry",
					logging.String("model", name),
					logging.Error(err),
					logging.String(logging.FieldEventType, "model_entry_skipped"),
				)
				continue
			}
			item = Entry{Name: name, SizeBytes: info.Size(), ModifiedAt: info.ModTime()}
		}
		total += item.SizeBytes
		entries = append(entries, item)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, total, nil
}

func dirSizeAndTime(path string) (int64, time.Time, error) {
	var (
		size   int64
		latest time.Time
	)
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return size, latest, nil
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
