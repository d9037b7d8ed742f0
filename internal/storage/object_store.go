package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

type ObjectStore interface {
	Bucket() string

	CreateBucket(ctx context.Context) error

	PutObject(ctx context.Context, key string, data io.Reader) error

	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectRef identifies a stored dataset. It is handed to the prediction and
// monitoring jobs as their only argument.
type ObjectRef struct {
	Bucket string
	Key    string
}

func (r ObjectRef) String() string {
	return r.Bucket + "/" + r.Key
}

// UploadFile copies the local file at path into the store under key and
// returns once the store has acknowledged the write.
func UploadFile(ctx context.Context, store ObjectStore, path, key string) (ObjectRef, error) {
	ref := ObjectRef{Bucket: store.Bucket(), Key: key}

	file, err := os.Open(path)
	if err != nil {
		return ref, fmt.Errorf("failed to open staged file %s: %w", path, err)
	}
	defer file.Close()

	if err := store.PutObject(ctx, key, file); err != nil {
		return ref, err
	}

	return ref, nil
}
