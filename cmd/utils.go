package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"rul-backend/internal/config"
	"rul-backend/internal/storage"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func NewObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	var (
		store storage.ObjectStore
		err   error
	)

	switch cfg.StorageBackend {
	case config.StorageLocal:
		store, err = storage.NewLocalObjectStore(cfg.LocalStorageDir, cfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("error creating local object store: %w", err)
		}
		slog.Info("using local object store", "dir", cfg.LocalStorageDir, "bucket", cfg.BucketName)
	default:
		store, err = storage.NewS3ObjectStore(cfg.BucketName, storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating s3 object store: %w", err)
		}
		slog.Info("using s3 object store", "endpoint", cfg.S3EndpointURL, "bucket", cfg.BucketName, "project_id", cfg.ProjectID)
	}

	if cfg.CreateBucket {
		if err := store.CreateBucket(ctx); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.BucketName, err)
		}
	}

	return store, nil
}
