package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ObjectInfo describes a stored archive
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage keeps converted archives until they are downloaded
type Storage interface {
	Put(ctx context.Context, key, path string) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadSeekCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// NewStorage creates the storage backend selected in the configuration
func NewStorage(ctx context.Context, config *Config) (Storage, error) {
	switch config.Storage.Type {
	case StorageMinIO:
		return NewMinIOStorage(ctx, config.Storage.MinIO)
	default:
		return NewLocalStorage(config.DownloadsDir)
	}
}

// LocalStorage keeps archives in a directory on disk
type LocalStorage struct {
	dir       string
	temporary bool
}

// NewLocalStorage creates a local storage in dir, or in a temporary
// directory when dir is empty
func NewLocalStorage(dir string) (*LocalStorage, error) {
	temporary := dir == ""
	if temporary {
		tmpDir, err := os.MkdirTemp("", "gitbook-downloads-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary downloads directory: %w", err)
		}
		dir = tmpDir
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}
	log.Debugf("Storing archives in %s", dir)
	return &LocalStorage{dir: dir, temporary: temporary}, nil
}

// Close removes the downloads directory when it was created by
// NewLocalStorage. A configured directory is left in place.
func (s *LocalStorage) Close() error {
	if !s.temporary {
		return nil
	}
	return os.RemoveAll(s.dir)
}

func (s *LocalStorage) objectPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	path := filepath.Join(s.dir, key)
	if err := validatePathContainment(s.dir, path); err != nil {
		return "", err
	}
	return path, nil
}

// Put copies the file at path into the storage under key
func (s *LocalStorage) Put(_ context.Context, key, path string) (ObjectInfo, error) {
	target, err := s.objectPath(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	src, err := os.Open(path)
	if err != nil {
		return ObjectInfo{}, err
	}
	defer closeWithLog(src, "archive")

	dst, err := os.Create(target)
	if err != nil {
		return ObjectInfo{}, err
	}
	size, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to store %s: %w", key, err)
	}

	return ObjectInfo{Key: key, Size: size, LastModified: time.Now()}, nil
}

// Get opens a stored archive
func (s *LocalStorage) Get(_ context.Context, key string) (io.ReadSeekCloser, ObjectInfo, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	info, err := file.Stat()
	if err != nil {
		closeWithLog(file, "archive")
		return nil, ObjectInfo{}, err
	}
	return file, ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime()}, nil
}

// Delete removes a stored archive
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// validatePathContainment ensures the final path stays within the base directory
func validatePathContainment(basePath, fullPath string) error {
	cleanBase := filepath.Clean(basePath)
	cleanFull := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanFull, cleanBase+string(filepath.Separator)) && cleanFull != cleanBase {
		return fmt.Errorf("path traversal detected: path escapes base directory")
	}
	return nil
}

func closeWithLog(c io.Closer, context string) {
	if err := c.Close(); err != nil {
		log.Errorf("Failed to close %s: %v", context, err)
	}
}
