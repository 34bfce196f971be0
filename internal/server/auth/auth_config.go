package auth

import (
	"fmt"
)

type Config struct {
	TokenIssuer string `mapstructure:"token_issuer"`
	TokenSecret string `mapstructure:"token_secret"`
	TokensFile  string `mapstructure:"tokens_file"`
}

func (c *Config) Validate() error {
	// Every verb except OPTIONS requires a bearer token, so the server
	// cannot start without at least one way to verify them.
	if c.TokenSecret == "" && c.TokensFile == "" {
		return fmt.Errorf("auth `token_secret` or `tokens_file` is required")
	}
	return nil
}
