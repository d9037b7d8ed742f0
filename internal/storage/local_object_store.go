package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type LocalObjectStore struct {
	baseDir string
	bucket  string
}

var _ ObjectStore = (*LocalObjectStore)(nil)

func NewLocalObjectStore(dir, bucket string) (*LocalObjectStore, error) {
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	return &LocalObjectStore{baseDir: baseDir, bucket: bucket}, nil
}

func (s *LocalObjectStore) Bucket() string {
	return s.bucket
}

func (s *LocalObjectStore) CreateBucket(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(s.baseDir, s.bucket), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create bucket directory %s/%s: %w", s.baseDir, s.bucket, err)
	}
	return nil
}

func (s *LocalObjectStore) PutObject(ctx context.Context, key string, data io.Reader) error {
	path, err := localStorageFullpath(s.baseDir, s.bucket, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s/%s: %w", s.bucket, key, err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s/%s: %w", s.bucket, key, err)
	}

	_, err = io.Copy(dst, data)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// A partial object must not be left at the key.
		if removeErr := os.Remove(path); removeErr != nil {
			slog.Error("failed to remove partial object", "bucket", s.bucket, "key", key, "error", removeErr)
		}
		return fmt.Errorf("failed to write file %s/%s: %w", s.bucket, key, err)
	}

	slog.Info("object written to local store", "bucket", s.bucket, "key", key)

	return nil
}

func (s *LocalObjectStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := localStorageFullpath(s.baseDir, s.bucket, key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s/%s: %w", s.bucket, key, err)
	}
	return file, nil
}
