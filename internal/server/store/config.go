package store

import (
	"fmt"

	"github.com/syncstash/syncstash/internal/db"
	"github.com/syncstash/syncstash/internal/utils"
)

const (
	BackendS3     = "s3"
	BackendSQLite = "sqlite"
	BackendFS     = "fs"
)

type Config struct {
	Backend string       `mapstructure:"backend"`
	S3      S3Config     `mapstructure:"s3"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	FS      FSConfig     `mapstructure:"fs"`
}

type S3Config struct {
	BucketName    string `mapstructure:"bucket_name"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Endpoint      string `mapstructure:"endpoint"`
	UseAccelerate bool   `mapstructure:"use_accelerate"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type FSConfig struct {
	Root string `mapstructure:"root"`
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendS3:
		return c.S3.Validate()
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("store `sqlite.path` required")
		}
	case BackendFS:
		if c.FS.Root == "" {
			return fmt.Errorf("store `fs.root` required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	return nil
}

func (c *S3Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("store `s3.bucket_name` required")
	}
	if c.Region == "" {
		return fmt.Errorf("store `s3.region` required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("store `s3.access_key` required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("store `s3.secret_key` required")
	}
	if c.Endpoint != "" && !utils.IsValidURL(c.Endpoint) {
		return fmt.Errorf("store invalid `s3.endpoint` URL %q", c.Endpoint)
	}
	return nil
}

// NewBackend builds the configured storage backend.
func NewBackend(cfg *Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendS3:
		return NewS3BackendWithConfig(&cfg.S3)
	case BackendSQLite:
		sqldb, err := db.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return NewSQLiteBackend(sqldb)
	case BackendFS:
		return NewFSBackend(cfg.FS.Root)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
