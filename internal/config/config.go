package config

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

type Config struct {
	APIPort     string `env:"API_PORT" envDefault:"8001"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://rul-backend.db"`

	StorageBackend  string `env:"STORAGE_BACKEND" envDefault:"s3"`
	LocalStorageDir string `env:"LOCAL_STORAGE_DIR" envDefault:"./object-store"`
	BucketName      string `env:"BUCKET_NAME,notEmpty,required"`
	CreateBucket    bool   `env:"CREATE_BUCKET" envDefault:"false"`
	// ProjectID is only reported at startup; GCS buckets are reached through
	// the S3 interoperability endpoint.
	ProjectID         string `env:"PROJECT_ID"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	PredictCommand    []string      `env:"PREDICT_COMMAND" envSeparator:" " envDefault:"python3 routes/predict.py"`
	MonitorCommand    []string      `env:"MONITOR_COMMAND" envSeparator:" " envDefault:"python3 routes/monitor.py"`
	JobTimeout        time.Duration `env:"JOB_TIMEOUT" envDefault:"5m"`
	QueueTimeout      time.Duration `env:"QUEUE_TIMEOUT" envDefault:"30s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10m"`
	MaxConcurrentJobs int           `env:"MAX_CONCURRENT_JOBS" envDefault:"0"`

	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"67108864"`
	UploadDir      string `env:"UPLOAD_DIR"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.StorageBackend != StorageS3 && cfg.StorageBackend != StorageLocal {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND '%s': expected '%s' or '%s'", cfg.StorageBackend, StorageS3, StorageLocal)
	}

	if len(cfg.PredictCommand) == 0 || len(cfg.MonitorCommand) == 0 {
		return nil, fmt.Errorf("PREDICT_COMMAND and MONITOR_COMMAND must not be empty")
	}

	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = runtime.NumCPU()
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %d", cfg.MaxUploadBytes)
	}

	if cfg.StorageBackend == StorageS3 && cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		log.Println("Warning: S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing.")
	}

	return &cfg, nil
}
