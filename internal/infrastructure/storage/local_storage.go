package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"

	mediaapp "github.com/shopadmin/backend/internal/application/media"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Ensure LocalStorage implements ObjectStorage
var _ mediaapp.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage stores objects as files below a root directory.
// Keys are slash separated and relative to the root.
type LocalStorage struct {
	fs      afero.Fs
	baseURL string
	logger  *zap.Logger
}

// LocalStorageOption is a functional option for configuring LocalStorage
type LocalStorageOption func(*LocalStorage)

// WithLocalLogger sets a custom logger for LocalStorage
func WithLocalLogger(logger *zap.Logger) LocalStorageOption {
	return func(s *LocalStorage) {
		s.logger = logger
	}
}

// NewLocalStorage creates a LocalStorage rooted at dir on the OS filesystem.
// The directory is created if it does not exist.
func NewLocalStorage(dir, baseURL string, opts ...LocalStorageOption) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return NewLocalStorageFs(afero.NewBasePathFs(osFs, dir), baseURL, opts...), nil
}

// NewLocalStorageFs creates a LocalStorage on top of an existing filesystem.
// Tests pass afero.NewMemMapFs().
func NewLocalStorageFs(fsys afero.Fs, baseURL string, opts ...LocalStorageOption) *LocalStorage {
	s := &LocalStorage{
		fs:      fsys,
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put writes data to key, creating parent directories
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	s.logger.Debug("Stored object", zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// Delete removes the file at key
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if err := s.fs.Remove(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mediaapp.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks if a regular file exists at key
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	info, err := s.fs.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return !info.IsDir(), nil
}

// URL returns the public URL of key under the configured base URL
func (s *LocalStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// KeyFromURL strips the base URL from rawURL
func (s *LocalStorage) KeyFromURL(rawURL string) (string, bool) {
	return trimBaseURL(s.baseURL, rawURL)
}

// HTTPFileSystem exposes the stored files for static serving.
// Directory listings are not served.
func (s *LocalStorage) HTTPFileSystem() http.FileSystem {
	return filesOnly{afero.NewHttpFs(s.fs).Dir("/")}
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
