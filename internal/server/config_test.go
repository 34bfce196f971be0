package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncstash/syncstash/internal/server/auth"
	"github.com/syncstash/syncstash/internal/server/store"
)

func validConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:           DefaultAddr,
			RateLimit:      DefaultRateLimit,
			MaxObjectBytes: DefaultMaxObjectBytes,
		},
		Store: store.Config{
			Backend: store.BackendFS,
			FS:      store.FSConfig{Root: "/var/lib/stashd/objects"},
		},
		Auth: auth.Config{
			TokenSecret: "secret",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfigValidate_MissingAddr(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addr")
}

func TestConfigValidate_TLSPair(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.CertFile = "cert.pem"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cert_file")

	cfg.HTTP.KeyFile = "key.pem"
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.HTTP.TLSEnabled())
}

func TestConfigValidate_MaxObjectBytes(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.MaxObjectBytes = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_object_bytes")
}

func TestConfigValidate_BadStore(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "redis"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NoAuthSource(t *testing.T) {
	cfg := validConfig()
	cfg.Auth = auth.Config{}
	assert.Error(t, cfg.Validate())
}
