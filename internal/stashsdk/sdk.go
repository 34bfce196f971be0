package stashsdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/imroc/req/v3"
)

// RemoteFile is a path-addressed, revision-aware accessor for objects on a
// stash gateway. Every operation is a single request/response round trip
// with credentials loaded fresh from the source; the only shared mutable
// state is the credential source itself, so one RemoteFile is safe for
// concurrent use across different paths.
type RemoteFile struct {
	source  CredentialSource
	client  *req.Client
	scope   string
	timeout time.Duration
}

type Option func(*RemoteFile)

// WithScope nests this instance's keys under an extra path segment, so e.g.
// a staging deployment never collides with production data on the same
// gateway.
func WithScope(scope string) Option {
	return func(rf *RemoteFile) {
		rf.scope = scope
	}
}

// WithTimeout overrides DefaultTimeout for this instance's requests.
func WithTimeout(timeout time.Duration) Option {
	return func(rf *RemoteFile) {
		rf.timeout = timeout
	}
}

// NewRemoteFile creates an accessor backed by the given credential source.
func NewRemoteFile(source CredentialSource, opts ...Option) *RemoteFile {
	rf := &RemoteFile{
		source:  source,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(rf)
	}
	rf.client = HTTPClient.Clone().SetTimeout(rf.timeout)
	return rf
}

// IsReady reports whether both a server URL and a token are configured.
// It never touches the network.
func (rf *RemoteFile) IsReady() bool {
	creds, err := rf.source.Load()
	return err == nil && creds.IsComplete()
}

// FetchRevision probes the object at path and returns its current revision.
func (rf *RemoteFile) FetchRevision(ctx context.Context, path string) (string, error) {
	creds, err := rf.credentials()
	if err != nil {
		return "", err
	}

	resp, err := rf.client.R().
		SetContext(ctx).
		SetBearerAuthToken(creds.Token).
		Head(rf.objectURL(creds, path))
	if err := apiOutcome(resp, err, "fetch revision"); err != nil {
		return "", err
	}

	return rf.revisionOf(resp, "fetch revision")
}

// Download reads the object at path, returning its body together with the
// revision it was read at.
func (rf *RemoteFile) Download(ctx context.Context, path string) (*Snapshot, error) {
	creds, err := rf.credentials()
	if err != nil {
		return nil, err
	}

	resp, err := rf.client.R().
		SetContext(ctx).
		SetBearerAuthToken(creds.Token).
		Get(rf.objectURL(creds, path))
	if err := apiOutcome(resp, err, "download"); err != nil {
		return nil, err
	}

	revision, err := rf.revisionOf(resp, "download")
	if err != nil {
		return nil, err
	}

	body := resp.Bytes()
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("sdk: download: %w", ErrMalformedPayload)
	}

	return &Snapshot{
		Path:     path,
		Body:     string(body),
		Revision: revision,
	}, nil
}

// Upload writes the object at params.Path and returns the revision assigned
// to the new content. With a Revision set and Force off the write is
// conditional: if the stored revision moved since it was read, the gateway
// rejects the write and Upload reports ErrConflict with the stored content
// untouched. Force drops the precondition entirely (last-writer-wins).
func (rf *RemoteFile) Upload(ctx context.Context, params *UploadParams) (string, error) {
	creds, err := rf.credentials()
	if err != nil {
		return "", err
	}

	request := rf.client.R().
		SetContext(ctx).
		SetBearerAuthToken(creds.Token).
		SetBodyJsonString(params.Body)
	if params.Revision != "" && !params.Force {
		request.SetHeader("If-Match", `"`+trimRevision(params.Revision)+`"`)
	}

	resp, err := request.Put(rf.objectURL(creds, params.Path))
	if err := apiOutcome(resp, err, "upload"); err != nil {
		return "", err
	}

	return rf.revisionOf(resp, "upload")
}

// Remove deletes the object at path. Removing an absent object reports
// ErrNotFound.
func (rf *RemoteFile) Remove(ctx context.Context, path string) error {
	creds, err := rf.credentials()
	if err != nil {
		return err
	}

	resp, err := rf.client.R().
		SetContext(ctx).
		SetBearerAuthToken(creds.Token).
		Delete(rf.objectURL(creds, path))
	return apiOutcome(resp, err, "remove")
}

// InvalidateCredentials clears the stored token so every subsequent
// operation fails as unconfigured until the user signs in again. The server
// URL and folder survive, sparing the user a full reconfiguration.
func (rf *RemoteFile) InvalidateCredentials() error {
	creds, err := rf.source.Load()
	if err != nil {
		return fmt.Errorf("sdk: load credentials: %w", err)
	}
	if creds == nil {
		return nil
	}

	creds.Token = ""
	if err := rf.source.Store(creds); err != nil {
		return fmt.Errorf("sdk: store credentials: %w", err)
	}
	return nil
}

// credentials loads and checks credentials for one operation. Rotation
// takes effect here: nothing from a previous call is reused.
func (rf *RemoteFile) credentials() (*Credentials, error) {
	creds, err := rf.source.Load()
	if err != nil {
		return nil, fmt.Errorf("sdk: load credentials: %w", err)
	}
	if !creds.IsComplete() {
		return nil, ErrNotConfigured
	}
	return creds, nil
}

func (rf *RemoteFile) objectURL(creds *Credentials, path string) string {
	return objectURL(creds.ServerURL, ComposeKey(creds.folder(), rf.scope, path))
}

// revisionOf extracts the revision from a successful response. A 2xx
// without a usable ETag means the backend cannot support conditional
// writes, which callers must know about.
func (rf *RemoteFile) revisionOf(resp *req.Response, operation string) (string, error) {
	revision := trimRevision(resp.Header.Get("ETag"))
	if revision == "" {
		return "", fmt.Errorf("sdk: %s: %w", operation, ErrMissingRevision)
	}
	return revision, nil
}

// Ping checks that a gateway is answering at serverURL. OPTIONS needs no
// token, so this works before the user has one.
func Ping(ctx context.Context, serverURL string) error {
	client := HTTPClient.Clone().SetTimeout(DefaultTimeout)
	resp, err := client.R().
		SetContext(ctx).
		Options(strings.TrimRight(serverURL, "/") + "/")
	return apiOutcome(resp, err, "ping")
}

// VerifyCredentials makes a single authenticated probe against the gateway
// to prove the credentials work before they are stored. The probed key not
// existing is fine; only auth and transport failures are reported.
func VerifyCredentials(ctx context.Context, creds *Credentials) error {
	if !creds.IsComplete() {
		return ErrNotConfigured
	}

	client := HTTPClient.Clone().SetTimeout(DefaultTimeout)
	resp, err := client.R().
		SetContext(ctx).
		SetBearerAuthToken(creds.Token).
		Head(objectURL(creds.ServerURL, creds.folder()))
	if err := apiOutcome(resp, err, "verify credentials"); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
