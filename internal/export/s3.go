package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/config"
)

// S3Exporter uploads report records to an S3-compatible bucket.
type S3Exporter struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Exporter(cfg config.ExportConfig) (*S3Exporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("export: bucket is required")
	}
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // MinIO
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &S3Exporter{client: s3.New(opts), bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Upload stores rec as JSON and returns the object key.
func (e *S3Exporter) Upload(ctx context.Context, rec analyzer.Record) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	key := ObjectKey(e.prefix, rec)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey lays records out by creation day: <prefix>/YYYY/MM/DD/<id>.json.
func ObjectKey(prefix string, rec analyzer.Record) string {
	prefix = strings.Trim(prefix, "/")
	return path.Join(prefix, rec.CreatedAt.UTC().Format("2006/01/02"), rec.ID+".json")
}
