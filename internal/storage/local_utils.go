package storage

import (
	"fmt"
	"path/filepath"
)

func localStorageFullpath(baseDir, bucket, key string) (string, error) {
	if !filepath.IsLocal(key) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(baseDir, bucket, key), nil
}
