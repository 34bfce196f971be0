package store

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidKey         = errors.New("invalid key")
	ErrKeyNotFound        = errors.New("key not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Backend defines the interface for object storage backend operations.
// Revisions are content-derived hex digests handled unquoted on both ends.
// A PutObject with IfMatch set must be atomic: it either observes a matching
// current revision and commits, or fails with ErrPreconditionFailed leaving
// the stored object untouched. IfMatch against a missing key creates it.
type Backend interface {
	// HeadObject retrieves object metadata without the body
	HeadObject(ctx context.Context, key string) (*ObjectInfo, error)

	// GetObject retrieves an object from storage by its key
	GetObject(ctx context.Context, key string) (*GetObjectResponse, error)

	// PutObject writes an object, honoring the revision precondition if set
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error)

	// DeleteObject removes an object, ErrKeyNotFound if it does not exist
	DeleteObject(ctx context.Context, key string) error

	// ListObjects returns metadata for all stored objects
	ListObjects(ctx context.Context) ([]*ObjectInfo, error)
}

// ===================================================================================================

type GetObjectResponse struct {
	Body         io.ReadCloser
	ETag         string
	Size         int64
	LastModified time.Time
}

// ===================================================================================================

type PutObjectParams struct {
	Key  string
	Body []byte

	// IfMatch is the expected current revision, unquoted.
	// Empty means unconditional write.
	IfMatch string
}

type PutObjectResponse struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

// ===================================================================================================

type ObjectInfo struct {
	Key          string    `json:"key"`
	ETag         string    `json:"etag"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
