package server

import (
	"fmt"
	"io"

	"github.com/syncstash/syncstash/internal/server/auth"
	"github.com/syncstash/syncstash/internal/server/store"
)

type Services struct {
	Store store.Backend
	Auth  *auth.AuthService
}

func NewServices(config *Config) (*Services, error) {
	backend, err := store.NewBackend(&config.Store)
	if err != nil {
		return nil, fmt.Errorf("create store backend: %w", err)
	}

	authSvc, err := auth.NewAuthService(&config.Auth)
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	return &Services{
		Store: backend,
		Auth:  authSvc,
	}, nil
}

func (s *Services) Shutdown() error {
	// the sqlite backend holds a database handle; the others have nothing
	// to release
	if closer, ok := s.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
