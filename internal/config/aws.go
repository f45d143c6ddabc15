package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LoadAwsConfig loads the default credential chain pinned to the storage region
func LoadAwsConfig(ctx context.Context, cfg StorageConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// NewS3Client builds an S3 client. A custom endpoint and path style addressing
// let the same client talk to MinIO or any other S3 compatible store.
func NewS3Client(awsCfg aws.Config, cfg StorageConfig) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
}
