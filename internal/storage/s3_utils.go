package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// region used to sign requests to custom endpoints when none is configured
const defaultEndpointRegion = "us-east-1"

type S3ClientConfig struct {
	// Endpoint overrides the AWS endpoint, e.g. MinIO or the GCS interop API.
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

func loadAWSConfig(ctx context.Context, cfg S3ClientConfig) (aws.Config, error) {
	var opts []func(*aws_config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, aws_config.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	if awsCfg.Region == "" && cfg.Endpoint != "" {
		awsCfg.Region = defaultEndpointRegion
	}

	// Without credentials from the environment or ~/.aws/credentials requests
	// go out unsigned, which only works for publicly writable buckets.
	if awsCfg.Credentials == nil {
		awsCfg.Credentials = aws.AnonymousCredentials{}
	} else if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		awsCfg.Credentials = aws.AnonymousCredentials{}
	}

	return awsCfg, nil
}

func initializeS3Client(cfg S3ClientConfig) (*s3.Client, error) {
	awsCfg, err := loadAWSConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// Path-style addressing is required by MinIO and the GCS XML interop endpoint.
		o.UsePathStyle = true
	})

	return client, nil
}
