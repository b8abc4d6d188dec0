package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxDocumentSize bounds a single content document read from S3.
const maxDocumentSize = 1 << 20

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint  string
	PathStyle bool
	// AccessKeyID and SecretAccessKey are optional; without them requests
	// are anonymous, which works for public buckets.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from cfg without reading shared AWS
// configuration files.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Source:          "landing",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

// S3Source reads <prefix><locale>.yaml objects from a bucket.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source creates a source over bucket. A non-empty prefix is used as
// a key prefix and gets a trailing slash if it lacks one.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.prefix }

func (s *S3Source) Locales(ctx context.Context) ([]string, error) {
	var locales []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", s.Name(), err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, ".yaml") {
				continue
			}
			locales = append(locales, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(locales)
	return locales, nil
}

func (s *S3Source) Read(ctx context.Context, locale string) ([]byte, error) {
	if !validLocaleName(locale) {
		return nil, fmt.Errorf("read %q: %w", locale, fs.ErrNotExist)
	}
	key := s.prefix + locale + ".yaml"
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %s: %w", key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("read %s: document larger than %d bytes", key, maxDocumentSize)
	}
	return data, nil
}
