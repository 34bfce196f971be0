package stashsdk

// Credentials are the connection settings for one gateway. ServerURL and
// Token travel as a unit: missing either one is a configuration error, not
// a per-request failure. Folder is optional and defaults to DefaultFolder.
type Credentials struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	Folder    string `json:"folder,omitempty"`
}

// IsComplete reports whether the credentials can back a network operation.
func (c *Credentials) IsComplete() bool {
	return c != nil && c.ServerURL != "" && c.Token != ""
}

func (c *Credentials) folder() string {
	if c == nil || c.Folder == "" {
		return DefaultFolder
	}
	return c.Folder
}

// CredentialSource supplies and persists gateway credentials. The RemoteFile
// loads them on every operation, never caching across calls, so a rotated
// token or URL takes effect on the next call. Load returns (nil, nil) when
// nothing has been stored yet.
type CredentialSource interface {
	Load() (*Credentials, error)
	Store(*Credentials) error
}
