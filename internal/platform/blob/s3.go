// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/taibuivan/innkeep/pkg/slice"
)

// photoCacheControl lets CDNs keep photos; keys are content-addressed.
const photoCacheControl = "public, max-age=31536000, immutable"

// S3Options configures an S3-compatible bucket (AWS, R2, B2, MinIO).
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the CDN or bucket URL photos are served from.
	PublicBaseURL string
}

// S3Store stores objects in one S3 bucket.
type S3Store struct {
	publicBase
	api    *s3.S3
	bucket string
}

// NewS3Store creates a session for the configured endpoint. No request is
// made until the first operation.
func NewS3Store(options S3Options) (*S3Store, error) {
	s3Config := &aws.Config{
		Region:           aws.String(options.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if options.Endpoint != "" {
		s3Config.Endpoint = aws.String(options.Endpoint)
	}
	if options.AccessKeyID != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(options.AccessKeyID, options.SecretAccessKey, "")
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to create s3 session: %w", err)
	}

	return &S3Store{
		publicBase: newPublicBase(s3PublicBase(options)),
		api:        s3.New(sess),
		bucket:     options.Bucket,
	}, nil
}

// s3PublicBase picks the URL prefix objects are reachable under.
func s3PublicBase(options S3Options) string {
	if options.PublicBaseURL != "" {
		return options.PublicBaseURL
	}
	if options.Endpoint != "" {
		return strings.TrimRight(options.Endpoint, "/") + "/" + options.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", options.Bucket, options.Region)
}

func (s *S3Store) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(photoCacheControl),
	})
	return err
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	err := s.api.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		keys = append(keys, slice.Map(page.Contents, func(item *s3.Object) string {
			return aws.StringValue(item.Key)
		})...)
		return true
	})
	return keys, err
}
