// Package s3 serves experiment configuration from S3 objects.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hatsunemiku3939/chaoslambda/source"
)

// maxObjectSize caps the configuration object read into memory.
const maxObjectSize = 64 << 10

// Client defines the S3 operations needed by Source.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source reads the parameter name as an object key inside a bucket.
type Source struct {
	client Client
	bucket string
	prefix string
}

// New creates an S3 source. Keys are resolved as prefix/name.
func New(client Client, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: prefix}
}

// Fetch implements source.Source.
func (s *Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.prefix, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", source.ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("%w: get object s3://%s/%s: %w", source.ErrUnavailable, s.bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %w", source.ErrUnavailable, s.bucket, key, err)
	}
	if len(body) > maxObjectSize {
		return nil, fmt.Errorf("s3://%s/%s exceeds %d bytes", s.bucket, key, maxObjectSize)
	}
	return body, nil
}
