package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Backend delegates storage to a bucket. Revisions map 1:1 onto S3
// ETags (single-part puts), and the precondition runs on S3's side as a
// native conditional write.
type S3Backend struct {
	s3Client *s3.Client
	config   *S3Config
}

func NewS3Backend(s3Client *s3.Client, config *S3Config) *S3Backend {
	return &S3Backend{
		s3Client: s3Client,
		config:   config,
	}
}

func NewS3BackendWithConfig(cfg *S3Config) (*S3Backend, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		config.WithHTTPClient(newS3HTTPClient()),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoints (minio and friends) rarely speak
		// virtual-host addressing.
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.UseAccelerate = cfg.UseAccelerate
	})

	return NewS3Backend(client, cfg), nil
}

// newS3HTTPClient pools generously: every gateway request fans into at
// most a couple of S3 calls, so the pool bound is the gateway's own
// concurrency.
func newS3HTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        128,
			MaxIdleConnsPerHost: 128,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

// bareETag strips the quotes S3 wraps around entity tags; revisions are
// compared and stored unquoted.
func bareETag(etag *string) string {
	return strings.Trim(aws.ToString(etag), "\"")
}

// ===================================================================================================

func (s *S3Backend) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	resp, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, mapS3Error(err)
	}

	return &ObjectInfo{
		Key:          key,
		ETag:         bareETag(resp.ETag),
		Size:         aws.ToInt64(resp.ContentLength),
		LastModified: aws.ToTime(resp.LastModified),
	}, nil
}

func (s *S3Backend) GetObject(ctx context.Context, key string) (*GetObjectResponse, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, mapS3Error(err)
	}

	return &GetObjectResponse{
		Body:         resp.Body,
		Size:         aws.ToInt64(resp.ContentLength),
		ETag:         bareETag(resp.ETag),
		LastModified: aws.ToTime(resp.LastModified),
	}, nil
}

// ===================================================================================================

func (s *S3Backend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	if params.IfMatch == "" {
		return s.put(ctx, params, nil)
	}
	return s.putConditional(ctx, params)
}

// putConditional writes only if the stored revision matches params.IfMatch.
// S3 rejects If-Match against a missing key with NoSuchKey, but the protocol
// treats that case as a create, so fall back to an If-None-Match:* write.
// Each write is atomic on S3's side; the loop only re-checks after losing a
// create race, then gives up with ErrPreconditionFailed.
func (s *S3Backend) putConditional(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	for range 2 {
		resp, err := s.put(ctx, params, func(in *s3.PutObjectInput) {
			in.IfMatch = aws.String(params.IfMatch)
		})
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrKeyNotFound) {
			return nil, err
		}

		resp, err = s.put(ctx, params, func(in *s3.PutObjectInput) {
			in.IfNoneMatch = aws.String("*")
		})
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrPreconditionFailed) {
			return nil, err
		}
	}

	return nil, ErrPreconditionFailed
}

func (s *S3Backend) put(ctx context.Context, params *PutObjectParams, mutate func(*s3.PutObjectInput)) (*PutObjectResponse, error) {
	input := &s3.PutObjectInput{
		Bucket:        &s.config.BucketName,
		Key:           &params.Key,
		Body:          bytes.NewReader(params.Body),
		ContentLength: aws.Int64(int64(len(params.Body))),
	}
	if mutate != nil {
		mutate(input)
	}

	resp, err := s.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, mapS3Error(err)
	}

	// PutObjectOutput carries no LastModified, only the new ETag.
	return &PutObjectResponse{
		Key:          params.Key,
		Size:         int64(len(params.Body)),
		ETag:         bareETag(resp.ETag),
		LastModified: time.Now().UTC(),
	}, nil
}

// ===================================================================================================

func (s *S3Backend) DeleteObject(ctx context.Context, key string) error {
	// S3 deletes are blind (204 either way); probe first so a missing key
	// surfaces as ErrKeyNotFound.
	if _, err := s.HeadObject(ctx, key); err != nil {
		return err
	}

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	if err != nil {
		return mapS3Error(err)
	}
	return nil
}

// ===================================================================================================

func (s *S3Backend) ListObjects(ctx context.Context) ([]*ObjectInfo, error) {
	var objects []*ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: &s.config.BucketName,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Contents {
			objects = append(objects, &ObjectInfo{
				Key:          aws.ToString(obj.Key),
				ETag:         bareETag(obj.ETag),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

// ===================================================================================================

func mapS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return ErrKeyNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return ErrKeyNotFound
		case "PreconditionFailed", "ConditionalRequestConflict":
			return ErrPreconditionFailed
		}
	}

	return err
}

// check if S3Backend implements the Backend interface
var _ Backend = (*S3Backend)(nil)
