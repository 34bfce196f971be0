package server

import (
	"fmt"

	"github.com/syncstash/syncstash/internal/server/auth"
	"github.com/syncstash/syncstash/internal/server/store"
)

const (
	DefaultAddr           = "localhost:8080"
	DefaultRateLimit      = "100-M"
	DefaultMaxObjectBytes = 64 << 20 // 64 MiB
)

type Config struct {
	HTTP  HTTPConfig   `mapstructure:"http"`
	Store store.Config `mapstructure:"store"`
	Auth  auth.Config  `mapstructure:"auth"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string `mapstructure:"rate_limit"`

	// MaxObjectBytes caps PUT request bodies. Requests above it get a 413.
	MaxObjectBytes int64 `mapstructure:"max_object_bytes"`
}

func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

func (c *HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("http `addr` is required")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("http `cert_file` and `key_file` must be set together")
	}
	if c.MaxObjectBytes <= 0 {
		return fmt.Errorf("http `max_object_bytes` must be positive")
	}
	return nil
}

func (c *HTTPConfig) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}
