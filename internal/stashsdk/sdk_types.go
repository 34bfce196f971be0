package stashsdk

import (
	"fmt"
	"runtime"
	"time"

	"github.com/imroc/req/v3"

	"github.com/syncstash/syncstash/internal/utils"
	"github.com/syncstash/syncstash/internal/version"
)

const (
	HeaderUserAgent     = "User-Agent"
	HeaderStashVersion  = "X-Stash-Version"
	HeaderStashDeviceId = "X-Stash-Device-Id"
)

// DefaultTimeout bounds every network operation unless the RemoteFile was
// built with WithTimeout.
const DefaultTimeout = 30 * time.Second

var StashUserAgent = fmt.Sprintf("SyncStash/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// A simple HTTP client with some common values set. Requests never retry:
// replaying a conditional write could race the very conflict it detected.
var HTTPClient = req.C().
	SetUserAgent(StashUserAgent).
	SetCommonHeader(HeaderStashVersion, version.Version).
	SetCommonHeader(HeaderStashDeviceId, utils.HWID).
	SetJsonMarshal(jsonMarshal).
	SetJsonUnmarshal(jsonUnmarshal)

// Snapshot is a downloaded object body together with the revision it was
// read at.
type Snapshot struct {
	Path     string
	Body     string
	Revision string
}

// UploadParams describe a single write of the object at Path.
type UploadParams struct {
	Path     string // target path below the folder and scope
	Body     string // full object content
	Revision string // last-known revision; empty on a first write
	Force    bool   // overwrite regardless of the stored revision
}
