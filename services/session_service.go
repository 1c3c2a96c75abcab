package services

import (
	"fmt"
	"time"
)

const (
	SessionCookieName = "sessionID"
	SessionMaxAge     = 30 * 24 * time.Hour
)

// TokenGenerator produces a fresh opaque session token.
type TokenGenerator func() (string, error)

// SessionService issues and recognizes anonymous session tokens. It stores
// nothing: the token is only the owner key for meals.
type SessionService struct {
	gen TokenGenerator
}

func NewSessionService(gen TokenGenerator) *SessionService {
	return &SessionService{gen: gen}
}

// Resolve reuses a non-empty token or generates a new one. issued reports
// whether the caller must hand the new token back to the client.
func (s *SessionService) Resolve(token string) (resolved string, issued bool, err error) {
	if token != "" {
		return token, false, nil
	}
	fresh, err := s.gen()
	if err != nil {
		return "", false, fmt.Errorf("generate session token: %w", err)
	}
	if fresh == "" {
		return "", false, fmt.Errorf("generate session token: empty token")
	}
	return fresh, true, nil
}

func (s *SessionService) RequireValid(token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	return nil
}
