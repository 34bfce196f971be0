package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/syncstash/syncstash/internal/stashsdk"
	"github.com/syncstash/syncstash/internal/utils"
)

const DefaultServerURL = "http://localhost:8080"

var (
	home, _                = os.UserHomeDir()
	DefaultCredentialsPath = filepath.Join(home, ".syncstash", "credentials.json")
)

// FileStore persists gateway credentials as a JSON file. A lock file next
// to it guards every read and write, so two stash processes cannot
// interleave a read-modify-write such as a credential invalidation.
type FileStore struct {
	path string
	lock *flock.Flock
}

var _ stashsdk.CredentialSource = (*FileStore)(nil)

// NewFileStore creates a store at path, or at DefaultCredentialsPath when
// path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultCredentialsPath
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path is the location of the credentials file.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored credentials, or nil when none have been stored
// yet.
func (s *FileStore) Load() (*stashsdk.Credentials, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds stashsdk.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials %q: %w", s.path, err)
	}
	return &creds, nil
}

// Store writes the credentials with owner-only permissions; the file holds
// a bearer token.
func (s *FileStore) Store(creds *stashsdk.Credentials) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// acquire takes the file lock, creating the parent directory first since
// the lock file lives beside the credentials.
func (s *FileStore) acquire() error {
	if err := utils.EnsureParent(s.path); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock credentials: %w", err)
	}
	return nil
}
