package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// Service wraps the inventory API login and logout calls.
type Service struct {
	api API
}

// NewService constructs a new Service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Authenticate opens an API session and returns its cookie value.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	cookie, err := s.api.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, upstream.ErrInvalidCredentials) {
			return "", shared.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: login: %w", err)
	}
	return cookie, nil
}

// SignOut closes the API session identified by apiSession.
func (s *Service) SignOut(ctx context.Context, apiSession string) error {
	if apiSession == "" {
		return nil
	}
	if err := s.api.Logout(upstream.WithSession(ctx, apiSession)); err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return nil
}
