package stashsdk

import (
	"net/url"
	"strings"
)

// DefaultFolder is the namespace prefix used when credentials carry none.
const DefaultFolder = "syncstash"

// ComposeKey builds the object key for a target path: folder, optional
// scope, then path, joined with single slashes and with separator runs
// collapsed. The same inputs always yield the same key; the key is the
// rendezvous point shared by every device syncing the file.
func ComposeKey(folder, scope, path string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{folder, scope, path} {
		if part = strings.Trim(part, "/"); part != "" {
			parts = append(parts, part)
		}
	}
	key := strings.Join(parts, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}

// objectURL joins the gateway base URL with the key encoded as a single
// path segment, so slashes inside the key survive proxies unmangled.
func objectURL(serverURL, key string) string {
	return strings.TrimRight(serverURL, "/") + "/" + url.PathEscape(key)
}

// trimRevision strips RFC 7232 quoting and any weak prefix from an ETag,
// leaving the opaque revision token used for equality checks.
func trimRevision(etag string) string {
	etag = strings.TrimSpace(etag)
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}
