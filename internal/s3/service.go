package s3

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/cockroachdb/errors"
)

const (
	defaultPresignExpiryDuration = 30 * time.Minute
)

// Service stores templates and generated documents. Upload returns a URL
// that resolves to the object; Delete takes the same key.
type Service interface {
	Upload(ctx context.Context, obj *Object) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetPresignedURL(ctx context.Context, key string) (string, error)
}

type s3ServiceImpl struct {
	client *s3.Client
	config config.StorageConfig
	logger *logger.Logger
}

// NewService returns nil when storage is disabled; callers report that as an
// invalid operation instead of failing at boot.
func NewService(cfg *config.Configuration, log *logger.Logger) (Service, error) {
	if !cfg.Storage.Enabled {
		log.Warnw("object storage is disabled, uploads and generation will fail")
		return nil, nil
	}

	awsCfg, err := config.LoadAwsConfig(context.Background(), cfg.Storage)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &s3ServiceImpl{
		client: config.NewS3Client(awsCfg, cfg.Storage),
		config: cfg.Storage,
		logger: log,
	}, nil
}

func (s *s3ServiceImpl) Upload(ctx context.Context, obj *Object) (string, error) {
	contentType := obj.ContentType
	if contentType == "" {
		contentType = ContentTypeBinary
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(obj.Data))),
	})
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, obj.Key).
			Mark(ierr.ErrHTTPClient)
	}

	s.logger.Debugw("uploaded object", "key", obj.Key, "size", len(obj.Data))
	return ObjectURL(s.config, obj.Key), nil
}

func (s *s3ServiceImpl) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ierr.WithError(err).WithHint("Document file not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to read document").
			Mark(ierr.ErrHTTPClient)
	}
	return data, nil
}

// Delete removes the object. S3 reports success for missing keys, so deleting
// twice is not an error.
func (s *s3ServiceImpl) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	s.logger.Debugw("deleted object", "key", key)
	return nil
}

func (s *s3ServiceImpl) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, ierr.WithError(err).WithHint("failed to check if document exists").
			Mark(ierr.ErrHTTPClient)
	}
	return true, nil
}

func (s *s3ServiceImpl) GetPresignedURL(ctx context.Context, key string) (string, error) {
	duration, err := time.ParseDuration(s.config.PresignExpiryDuration)
	if err != nil {
		duration = defaultPresignExpiryDuration
	}

	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	return result.URL, nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
