package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/syncstash/syncstash/internal/utils"
)

const objectsSchema = `
CREATE TABLE IF NOT EXISTS objects (
	key TEXT PRIMARY KEY,
	etag TEXT NOT NULL,
	size INTEGER NOT NULL,
	body BLOB NOT NULL,
	last_modified TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_objects_last_modified ON objects(last_modified);
`

// SQLiteBackend keeps objects in a single SQLite database. Conditional
// writes run inside a write transaction, so the revision check and the row
// update hold the database lock together (the opener's DSN begins
// transactions with an immediate lock).
type SQLiteBackend struct {
	db *sqlx.DB
}

func NewSQLiteBackend(db *sqlx.DB) (*SQLiteBackend, error) {
	if _, err := db.Exec(objectsSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize objects table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close releases the underlying database handle
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

type objectRow struct {
	Key          string `db:"key"`
	ETag         string `db:"etag"`
	Size         int64  `db:"size"`
	Body         []byte `db:"body"`
	LastModified string `db:"last_modified"`
}

func (r *objectRow) info() *ObjectInfo {
	return &ObjectInfo{
		Key:          r.Key,
		ETag:         r.ETag,
		Size:         r.Size,
		LastModified: parseStoredTime(r.LastModified),
	}
}

// ===================================================================================================

func (s *SQLiteBackend) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	var row objectRow
	err := s.db.GetContext(ctx, &row,
		"SELECT key, etag, size, last_modified FROM objects WHERE key = ?", key)
	if err != nil {
		return nil, mapSQLiteError(err)
	}

	return row.info(), nil
}

func (s *SQLiteBackend) GetObject(ctx context.Context, key string) (*GetObjectResponse, error) {
	var row objectRow
	err := s.db.GetContext(ctx, &row,
		"SELECT key, etag, size, body, last_modified FROM objects WHERE key = ?", key)
	if err != nil {
		return nil, mapSQLiteError(err)
	}

	return &GetObjectResponse{
		Body:         io.NopCloser(bytes.NewReader(row.Body)),
		ETag:         row.ETag,
		Size:         row.Size,
		LastModified: parseStoredTime(row.LastModified),
	}, nil
}

// ===================================================================================================

func (s *SQLiteBackend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	body := params.Body
	if body == nil {
		body = []byte{}
	}
	etag := utils.ContentHash(body)
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin write transaction: %w", err)
	}
	defer tx.Rollback()

	if params.IfMatch != "" {
		var current string
		err := tx.GetContext(ctx, &current, "SELECT etag FROM objects WHERE key = ?", params.Key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// absent object, the conditional write creates it
		case err != nil:
			return nil, fmt.Errorf("read current revision: %w", err)
		case current != params.IfMatch:
			return nil, ErrPreconditionFailed
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO objects (key, etag, size, body, last_modified) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			etag = excluded.etag,
			size = excluded.size,
			body = excluded.body,
			last_modified = excluded.last_modified`,
		params.Key, etag, int64(len(body)), body, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("write object: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit write: %w", err)
	}

	return &PutObjectResponse{
		Key:          params.Key,
		ETag:         etag,
		Size:         int64(len(body)),
		LastModified: now,
	}, nil
}

// ===================================================================================================

func (s *SQLiteBackend) DeleteObject(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM objects WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if deleted == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// ===================================================================================================

func (s *SQLiteBackend) ListObjects(ctx context.Context) ([]*ObjectInfo, error) {
	var rows []objectRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT key, etag, size, last_modified FROM objects ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	objects := make([]*ObjectInfo, 0, len(rows))
	for i := range rows {
		objects = append(objects, rows[i].info())
	}
	return objects, nil
}

// ===================================================================================================

func mapSQLiteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrKeyNotFound
	}
	return err
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// check if SQLiteBackend implements the Backend interface
var _ Backend = (*SQLiteBackend)(nil)
