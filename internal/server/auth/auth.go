package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/syncstash/syncstash/internal/utils"
)

const (
	verdictCacheSize = 4096
	verdictCacheTTL  = 1 * time.Minute
)

// AuthService verifies bearer tokens against two sources: a static token
// set loaded from a YAML file, and HS256 JWTs signed with the configured
// secret. Verification verdicts are cached for a short window so hot
// clients don't re-run signature checks on every request.
type AuthService struct {
	config   *Config
	static   mapset.Set[string]
	verdicts *expirable.LRU[string, string]
}

func NewAuthService(config *Config) (*AuthService, error) {
	static, err := loadTokensFile(config.TokensFile)
	if err != nil {
		return nil, err
	}

	if static.Cardinality() > 0 {
		slog.Info("auth static tokens", "count", static.Cardinality(), "path", config.TokensFile)
	}
	if config.TokenSecret != "" {
		slog.Info("auth signed tokens enabled", "issuer", config.TokenIssuer)
	}

	return &AuthService{
		config:   config,
		static:   static,
		verdicts: expirable.NewLRU[string, string](verdictCacheSize, nil, verdictCacheTTL),
	}, nil
}

// ValidateToken checks a bearer token and returns the subject it
// authenticates. Static tokens carry no identity, so they authenticate as
// their masked value.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	if subject, ok := s.verdicts.Get(token); ok {
		return subject, nil
	}

	if s.static.Contains(token) {
		subject := utils.MaskSecret(token)
		s.verdicts.Add(token, subject)
		return subject, nil
	}

	if s.config.TokenSecret == "" {
		return "", ErrInvalidToken
	}

	claims, err := ParseToken(token, s.config.TokenSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if s.config.TokenIssuer != "" && claims.Issuer != s.config.TokenIssuer {
		return "", fmt.Errorf("%w: wrong issuer %q", ErrInvalidToken, claims.Issuer)
	}

	s.verdicts.Add(token, claims.Subject)
	return claims.Subject, nil
}

// MintToken signs a new access token. Used by `stashd token new`.
func (s *AuthService) MintToken(subject string, expiry time.Duration) (string, error) {
	if s.config.TokenSecret == "" {
		return "", fmt.Errorf("auth `token_secret` is required to mint tokens")
	}
	return SignToken(subject, s.config.TokenIssuer, s.config.TokenSecret, expiry)
}

type tokensFile struct {
	Tokens []string `yaml:"tokens"`
}

func loadTokensFile(path string) (mapset.Set[string], error) {
	static := mapset.NewSet[string]()
	if path == "" {
		return static, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}

	var parsed tokensFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse tokens file %q: %w", path, err)
	}

	for _, token := range parsed.Tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			static.Add(token)
		}
	}

	if static.Cardinality() == 0 {
		return nil, fmt.Errorf("tokens file %q contains no tokens", path)
	}

	return static, nil
}
