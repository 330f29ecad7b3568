package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"skill-bridge/internal/config"
	"skill-bridge/internal/pkg/retry"
)

// MaxDocumentBytes bounds downloaded and uploaded resumes.
const MaxDocumentBytes = 10 << 20

var (
	ErrStorageDisabled = errors.New("object storage not configured")
	ErrObjectTooLarge  = errors.New("object exceeds size limit")
)

type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads resumes from an S3 compatible bucket.
type S3Fetcher struct {
	client   ObjectGetter
	bucket   string
	attempts int
	backoff  time.Duration
}

func NewS3Fetcher(ctx context.Context, cfg config.StorageConfig) (*S3Fetcher, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})
	return NewS3FetcherWithClient(client, cfg.Bucket), nil
}

func NewS3FetcherWithClient(client ObjectGetter, bucket string) *S3Fetcher {
	return &S3Fetcher{client: client, bucket: bucket, attempts: 3, backoff: 500 * time.Millisecond}
}

func (f *S3Fetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	if f == nil || f.client == nil {
		return nil, ErrStorageDisabled
	}
	return retry.Do(ctx, f.attempts, f.backoff, func(ctx context.Context) ([]byte, error) {
		return f.download(ctx, key)
	})
}

func (f *S3Fetcher) download(ctx context.Context, key string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	if len(b) > MaxDocumentBytes {
		return nil, retry.Permanent(fmt.Errorf("%w: %s", ErrObjectTooLarge, key))
	}
	return b, nil
}
