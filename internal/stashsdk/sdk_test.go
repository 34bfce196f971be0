package stashsdk

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory CredentialSource for tests.
type memSource struct {
	mu    sync.Mutex
	creds *Credentials
	err   error
}

func (s *memSource) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.creds == nil {
		return nil, nil
	}
	copied := *s.creds
	return &copied, nil
}

func (s *memSource) Store(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *creds
	s.creds = &copied
	return nil
}

func (s *memSource) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Token = token
}

type fakeObject struct {
	body     []byte
	revision string
}

// fakeGateway speaks just enough of the gateway wire contract for the
// accessor: bearer auth, content-derived revisions, If-Match checks, and
// the JSON error envelope.
type fakeGateway struct {
	mu      sync.Mutex
	objects map[string]*fakeObject
	token   string
	lastKey string
	rawPath string
}

func newFakeGateway(token string) *fakeGateway {
	return &fakeGateway{
		objects: make(map[string]*fakeObject),
		token:   token,
	}
}

func contentRevision(body []byte) string {
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:])
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rawPath = r.URL.EscapedPath()
	key := strings.TrimPrefix(r.URL.Path, "/")
	g.lastKey = key

	if r.Header.Get("Authorization") != "Bearer "+g.token {
		writeEnvelope(w, http.StatusUnauthorized, "E_UNAUTHORIZED", "invalid or expired token")
		return
	}

	obj, exists := g.objects[key]
	switch r.Method {
	case http.MethodHead, http.MethodGet:
		if !exists {
			writeEnvelope(w, http.StatusNotFound, "E_OBJECT_NOT_FOUND", "object not found")
			return
		}
		w.Header().Set("ETag", `"`+obj.revision+`"`)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(obj.body)
		}
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		ifMatch := trimRevision(r.Header.Get("If-Match"))
		if ifMatch != "" && exists && obj.revision != ifMatch {
			writeEnvelope(w, http.StatusPreconditionFailed, "E_REVISION_MISMATCH", "revision mismatch")
			return
		}
		next := &fakeObject{body: body, revision: contentRevision(body)}
		g.objects[key] = next
		w.Header().Set("ETag", `"`+next.revision+`"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"key":%q,"etag":%q}`, key, next.revision)
	case http.MethodDelete:
		if !exists {
			writeEnvelope(w, http.StatusNotFound, "E_OBJECT_NOT_FOUND", "object not found")
			return
		}
		delete(g.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeEnvelope(w, http.StatusMethodNotAllowed, "E_METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func writeEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":%q,"error":%q}`, code, message)
}

func (g *fakeGateway) setToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

func (g *fakeGateway) seenKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastKey
}

func (g *fakeGateway) seenRawPath() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rawPath
}

func newTestRemote(t *testing.T, opts ...Option) (*RemoteFile, *fakeGateway, *memSource) {
	t.Helper()

	gateway := newFakeGateway("test-token")
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)

	source := &memSource{creds: &Credentials{
		ServerURL: server.URL,
		Token:     "test-token",
	}}
	return NewRemoteFile(source, opts...), gateway, source
}

func TestRemoteFileIsReady(t *testing.T) {
	tests := []struct {
		name   string
		source *memSource
		want   bool
	}{
		{"complete", &memSource{creds: &Credentials{ServerURL: "http://localhost:8080", Token: "tok"}}, true},
		{"nothing stored", &memSource{}, false},
		{"token missing", &memSource{creds: &Credentials{ServerURL: "http://localhost:8080"}}, false},
		{"server url missing", &memSource{creds: &Credentials{Token: "tok"}}, false},
		{"load failure", &memSource{err: errors.New("disk gone")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRemoteFile(tt.source).IsReady())
		})
	}
}

func TestRemoteFileUnconfiguredFailsBeforeNetwork(t *testing.T) {
	// no server anywhere; every operation must fail on configuration alone
	remote := NewRemoteFile(&memSource{})
	ctx := context.Background()

	_, err := remote.FetchRevision(ctx, "sync-data.json")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = remote.Download(ctx, "sync-data.json")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, remote.Remove(ctx, "sync-data.json"), ErrNotConfigured)
}

func TestRemoteFileLifecycle(t *testing.T) {
	remote, _, _ := newTestRemote(t)
	ctx := context.Background()

	// absent object: the whole not-found family
	_, err := remote.FetchRevision(ctx, "sync-data.json")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = remote.Download(ctx, "sync-data.json")
	require.ErrorIs(t, err, ErrNotFound)

	// first write creates
	rev1, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: `{"v":1}`})
	require.NoError(t, err)
	require.NotEmpty(t, rev1)

	// probe and read agree on the revision
	fetched, err := remote.FetchRevision(ctx, "sync-data.json")
	require.NoError(t, err)
	assert.Equal(t, rev1, fetched)

	snap, err := remote.Download(ctx, "sync-data.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, snap.Body)
	assert.Equal(t, rev1, snap.Revision)
	assert.Equal(t, "sync-data.json", snap.Path)

	// conditional write on the current revision advances it
	rev2, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: `{"v":2}`, Revision: rev1})
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)

	// a stale revision conflicts and leaves the content untouched
	_, err = remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: `{"v":3}`, Revision: rev1})
	require.ErrorIs(t, err, ErrConflict)

	snap, err = remote.Download(ctx, "sync-data.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, snap.Body)
	assert.Equal(t, rev2, snap.Revision)

	// force drops the precondition no matter how stale the revision is
	rev3, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: `{"v":4}`, Revision: rev1, Force: true})
	require.NoError(t, err)
	assert.NotEqual(t, rev2, rev3)

	// remove, then removing again stays a clean not-found
	require.NoError(t, remote.Remove(ctx, "sync-data.json"))
	assert.ErrorIs(t, remote.Remove(ctx, "sync-data.json"), ErrNotFound)
	_, err = remote.FetchRevision(ctx, "sync-data.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteFileKeyComposition(t *testing.T) {
	gateway := newFakeGateway("test-token")
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)
	ctx := context.Background()

	t.Run("folder and scope prefix the key", func(t *testing.T) {
		source := &memSource{creds: &Credentials{ServerURL: server.URL, Token: "test-token", Folder: "super-productivity"}}
		remote := NewRemoteFile(source, WithScope("staging"))

		_, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: "x"})
		require.NoError(t, err)
		assert.Equal(t, "super-productivity/staging/sync-data.json", gateway.seenKey())
	})

	t.Run("folder defaults when credentials carry none", func(t *testing.T) {
		source := &memSource{creds: &Credentials{ServerURL: server.URL, Token: "test-token"}}
		remote := NewRemoteFile(source)

		_, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: "x"})
		require.NoError(t, err)
		assert.Equal(t, DefaultFolder+"/sync-data.json", gateway.seenKey())
	})

	t.Run("key rides as a single path segment", func(t *testing.T) {
		source := &memSource{creds: &Credentials{ServerURL: server.URL, Token: "test-token"}}
		remote := NewRemoteFile(source)

		_, err := remote.FetchRevision(ctx, "nested/file.json")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, DefaultFolder+"/nested/file.json", gateway.seenKey())
		assert.Contains(t, gateway.seenRawPath(), "%2F")
	})
}

func TestRemoteFileCredentialRotation(t *testing.T) {
	remote, gateway, source := newTestRemote(t)
	ctx := context.Background()

	_, err := remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: "x"})
	require.NoError(t, err)

	// gateway rotates; the old token stops working mid-flight
	gateway.setToken("rotated")
	_, err = remote.FetchRevision(ctx, "sync-data.json")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	assert.Equal(t, "invalid or expired token", transportErr.Message)

	// updating the source is enough: credentials are loaded per operation
	source.setToken("rotated")
	_, err = remote.FetchRevision(ctx, "sync-data.json")
	require.NoError(t, err)
}

func TestInvalidateCredentials(t *testing.T) {
	remote, _, source := newTestRemote(t)
	require.True(t, remote.IsReady())

	require.NoError(t, remote.InvalidateCredentials())
	assert.False(t, remote.IsReady())

	// only the token is gone; the rest of the configuration survives
	creds, err := source.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Empty(t, creds.Token)
	assert.NotEmpty(t, creds.ServerURL)

	_, err = remote.Download(context.Background(), "sync-data.json")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestInvalidateCredentialsWithNothingStored(t *testing.T) {
	source := &memSource{}
	require.NoError(t, NewRemoteFile(source).InvalidateCredentials())

	creds, err := source.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestRemoteFileMissingRevision(t *testing.T) {
	// a backend that answers 2xx without an ETag cannot support conditional
	// writes; every revision-bearing operation must say so
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	remote := NewRemoteFile(&memSource{creds: &Credentials{ServerURL: server.URL, Token: "tok"}})
	ctx := context.Background()

	_, err := remote.FetchRevision(ctx, "sync-data.json")
	assert.ErrorIs(t, err, ErrMissingRevision)

	_, err = remote.Download(ctx, "sync-data.json")
	assert.ErrorIs(t, err, ErrMissingRevision)

	_, err = remote.Upload(ctx, &UploadParams{Path: "sync-data.json", Body: "x"})
	assert.ErrorIs(t, err, ErrMissingRevision)
}

func TestRemoteFileMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	t.Cleanup(server.Close)

	remote := NewRemoteFile(&memSource{creds: &Credentials{ServerURL: server.URL, Token: "tok"}})

	_, err := remote.Download(context.Background(), "sync-data.json")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestRemoteFileContextCancellation(t *testing.T) {
	remote, _, _ := newTestRemote(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := remote.FetchRevision(ctx, "sync-data.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyCredentials(t *testing.T) {
	gateway := newFakeGateway("good-token")
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)
	ctx := context.Background()

	t.Run("working token passes on an empty store", func(t *testing.T) {
		err := VerifyCredentials(ctx, &Credentials{ServerURL: server.URL, Token: "good-token"})
		assert.NoError(t, err)
	})

	t.Run("rejected token fails", func(t *testing.T) {
		err := VerifyCredentials(ctx, &Credentials{ServerURL: server.URL, Token: "bad-token"})
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	})

	t.Run("incomplete credentials never dial", func(t *testing.T) {
		assert.ErrorIs(t, VerifyCredentials(ctx, &Credentials{ServerURL: server.URL}), ErrNotConfigured)
		assert.ErrorIs(t, VerifyCredentials(ctx, nil), ErrNotConfigured)
	})
}

// The lost-update race across two devices, end to end: A and B sync the
// same key, B falls behind, and B's stale write must lose without
// clobbering A's data.
func TestDeviceSyncScenario(t *testing.T) {
	gateway := newFakeGateway("shared-token")
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)

	creds := &Credentials{ServerURL: server.URL, Token: "shared-token"}
	deviceA := NewRemoteFile(&memSource{creds: creds})
	deviceB := NewRemoteFile(&memSource{creds: creds})
	ctx := context.Background()

	// A seeds the file
	rev1, err := deviceA.Upload(ctx, &UploadParams{Path: "task/1", Body: `{"v":1}`})
	require.NoError(t, err)

	// B picks it up
	snap, err := deviceB.Download(ctx, "task/1")
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, snap.Body)
	require.Equal(t, rev1, snap.Revision)

	// A moves on
	rev2, err := deviceA.Upload(ctx, &UploadParams{Path: "task/1", Body: `{"v":2}`, Revision: rev1})
	require.NoError(t, err)
	require.NotEqual(t, rev1, rev2)

	// B writes against the revision it last saw and must lose
	_, err = deviceB.Upload(ctx, &UploadParams{Path: "task/1", Body: `{"v":3}`, Revision: snap.Revision})
	require.ErrorIs(t, err, ErrConflict)

	// B refreshes, then retries cleanly
	snap, err = deviceB.Download(ctx, "task/1")
	require.NoError(t, err)
	require.Equal(t, `{"v":2}`, snap.Body)
	require.Equal(t, rev2, snap.Revision)

	rev3, err := deviceB.Upload(ctx, &UploadParams{Path: "task/1", Body: `{"v":3}`, Revision: snap.Revision})
	require.NoError(t, err)
	require.NotEqual(t, rev2, rev3)
}
