package tier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/autopeer-io/platecheck/pkg/log"
)

// Store persists the raw tier value under a single key. Values read back are
// untrusted and validated by the Resolver.
type Store interface {
	// Load returns the stored value and whether one exists.
	Load() (string, bool, error)
	Save(value string) error
}

// Watcher is implemented by stores that can be changed from outside the process.
type Watcher interface {
	// Watch calls onChange after every external modification until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}

// MemoryStore keeps the value in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	value string
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set, nil
}

func (s *MemoryStore) Save(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.set = value, true
	return nil
}

// FileStore keeps the value in a single small file.
type FileStore struct {
	path string
}

var _ Watcher = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read tier state: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Save replaces the file atomically so readers never see a partial value.
func (s *FileStore) Save(value string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tier state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tier-*")
	if err != nil {
		return fmt.Errorf("failed to write tier state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tier state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write tier state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace tier state: %w", err)
	}
	return nil
}

// Watch observes the parent directory, since atomic replacement swaps the
// file's inode and a watch on the file itself would be lost.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tier state dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	log.Info("Watching tier state file", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error(err, "Tier state watcher error")
		}
	}
}
