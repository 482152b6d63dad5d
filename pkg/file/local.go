package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files below a single directory on disk and serves them
// under baseURL.
type LocalStorage struct {
	baseDir string // absolute
	baseURL string
}

// NewLocalStorage resolves baseDir to an absolute path, creating it if needed.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

// BaseDir returns the absolute storage root.
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// Put writes r to path below the storage root. A partially written file is
// removed if the copy fails or ctx is cancelled.
func (s *LocalStorage) Put(ctx context.Context, path string, r io.Reader, contentType string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	if target == s.baseDir {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	dst, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}

	n, err := io.Copy(dst, source{ctx: ctx, r: r})
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: %v", ErrFailedToWriteFile, closeErr)
	}
	if err != nil {
		_ = os.Remove(target)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, ErrFailedToReadFile) || errors.Is(err, ErrFailedToWriteFile) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	rel, err := filepath.Rel(s.baseDir, target)
	if err != nil {
		rel = path
	}
	return &File{
		Name:     filepath.Base(target),
		Path:     filepath.ToSlash(rel),
		Size:     n,
		MIMEType: detectContentType(contentType),
	}, nil
}

// source stops a copy once ctx is done and marks errors from the
// underlying reader so they are not reported as write failures.
type source struct {
	ctx context.Context
	r   io.Reader
}

func (s source) Read(p []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return n, err
}

// Delete removes a single file.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}

	return nil
}

// Exists checks if a file exists.
// Returns false for invalid paths or on context cancellation.
func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return false
	}

	_, err = os.Stat(absPath)
	return err == nil
}

// URL returns the public URL for a file.
func (s *LocalStorage) URL(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if strings.HasPrefix(path, "/") {
		return path
	}
	return s.baseURL + path
}

// resolvePath validates and resolves a path within the base directory.
func (s *LocalStorage) resolvePath(path string) (string, error) {
	path = filepath.Clean(path)
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, path))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}

	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) && absPath != s.baseDir {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	return absPath, nil
}
