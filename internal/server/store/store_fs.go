package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/syncstash/syncstash/internal/utils"
)

const (
	fsLockFile   = ".syncstash.lock"
	fsTempPrefix = ".put-"
)

// FSBackend stores each object as a plain file under a root directory.
// Revisions are content MD5 digests computed on read. A store-wide flock
// keeps check-then-write atomic across processes, and commits go through a
// temp file plus rename so readers never observe partial content.
type FSBackend struct {
	root string
	lock *flock.Flock
}

func NewFSBackend(root string) (*FSBackend, error) {
	resolved, err := utils.ResolvePath(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}

	if err := utils.EnsureDir(resolved); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}

	return &FSBackend{
		root: resolved,
		lock: flock.New(filepath.Join(resolved, fsLockFile)),
	}, nil
}

// objectPath maps a validated key to its on-disk location. ValidateKey
// rejects "..", backslashes and absolute keys, so the result cannot escape
// the root.
func (f *FSBackend) objectPath(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

// ===================================================================================================

func (f *FSBackend) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	if !ValidateKey(key) {
		return nil, ErrInvalidKey
	}

	path := f.objectPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, mapFSError(err)
	}
	if info.IsDir() {
		return nil, ErrKeyNotFound
	}

	etag, err := utils.FileHash(path)
	if err != nil {
		return nil, mapFSError(err)
	}

	return &ObjectInfo{
		Key:          key,
		ETag:         etag,
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
	}, nil
}

func (f *FSBackend) GetObject(ctx context.Context, key string) (*GetObjectResponse, error) {
	if !ValidateKey(key) {
		return nil, ErrInvalidKey
	}

	path := f.objectPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, mapFSError(err)
	}
	if info.IsDir() {
		return nil, ErrKeyNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapFSError(err)
	}

	return &GetObjectResponse{
		Body:         io.NopCloser(bytes.NewReader(data)),
		ETag:         utils.ContentHash(data),
		Size:         int64(len(data)),
		LastModified: info.ModTime().UTC(),
	}, nil
}

// ===================================================================================================

func (f *FSBackend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	if err := f.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	defer f.lock.Unlock()

	path := f.objectPath(params.Key)

	if params.IfMatch != "" {
		current, err := utils.FileHash(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// absent object, the conditional write creates it
		case err != nil:
			return nil, fmt.Errorf("read current revision: %w", err)
		case current != params.IfMatch:
			return nil, ErrPreconditionFailed
		}
	}

	if err := utils.EnsureParent(path); err != nil {
		return nil, fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), fsTempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create temp object: %w", err)
	}

	if _, err := tmp.Write(params.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write temp object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("close temp object: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("commit object: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, mapFSError(err)
	}

	return &PutObjectResponse{
		Key:          params.Key,
		ETag:         utils.ContentHash(params.Body),
		Size:         int64(len(params.Body)),
		LastModified: info.ModTime().UTC(),
	}, nil
}

// ===================================================================================================

func (f *FSBackend) DeleteObject(ctx context.Context, key string) error {
	if !ValidateKey(key) {
		return ErrInvalidKey
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer f.lock.Unlock()

	path := f.objectPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return mapFSError(err)
	}
	if info.IsDir() {
		return ErrKeyNotFound
	}

	if err := os.Remove(path); err != nil {
		return mapFSError(err)
	}
	return nil
}

// ===================================================================================================

func (f *FSBackend) ListObjects(ctx context.Context) ([]*ObjectInfo, error) {
	var objects []*ObjectInfo

	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if name == fsLockFile || strings.HasPrefix(name, fsTempPrefix) {
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		etag, err := utils.FileHash(path)
		if err != nil {
			return err
		}

		objects = append(objects, &ObjectInfo{
			Key:          filepath.ToSlash(rel),
			ETag:         etag,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	return objects, nil
}

// ===================================================================================================

func mapFSError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrKeyNotFound
	}
	return err
}

// check if FSBackend implements the Backend interface
var _ Backend = (*FSBackend)(nil)
