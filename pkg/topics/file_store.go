package topics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrymomot/standup/pkg/logger"
)

// FileStore is a Store backed by a plain text file, one topic per line.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileLogger sets the logger used for debug output.
func WithFileLogger(l *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a store for the file at path. The file and its parent
// directory are created on the first write.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, ErrInvalidLocation
	}
	s := &FileStore{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("topics.file"))
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *FileStore) Size(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(topics), nil
}

func (s *FileStore) Append(ctx context.Context, candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return 0, err
	}

	merged, added := Merge(existing, candidates)
	if added == 0 && len(merged) == len(existing) {
		return 0, nil
	}

	if err := s.write(merged); err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "topics appended", logger.Count(added), logger.Size(len(merged)))
	return added, nil
}

func (s *FileStore) Pop(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued, err := s.read()
	if err != nil {
		return "", false, err
	}
	if len(queued) == 0 {
		return "", false, nil
	}

	head, rest := queued[0], queued[1:]
	if err := s.write(rest); err != nil {
		return "", false, err
	}

	s.logger.DebugContext(ctx, "topic popped", logger.Topic(head), logger.Size(len(rest)))
	return head, true, nil
}

// read loads the file. A missing file is an empty queue.
// Callers must hold s.mu.
func (s *FileStore) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, errors.Join(ErrStore, fmt.Errorf("read %s: %w", s.path, err))
	}
	return parseLines(string(data)), nil
}

// write replaces the file atomically: the new content goes to a temp file in
// the same directory, is synced, then renamed over the target.
// Callers must hold s.mu.
func (s *FileStore) write(topics []string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrStore, fmt.Errorf("create directory %s: %w", dir, err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Join(ErrStore, fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(formatLines(topics)); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrStore, fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrStore, fmt.Errorf("sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrStore, fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Join(ErrStore, fmt.Errorf("chmod temp file: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Join(ErrStore, fmt.Errorf("replace %s: %w", s.path, err))
	}
	return nil
}
