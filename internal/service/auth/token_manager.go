package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"foodorder/internal/domain"
	sessionrepo "foodorder/internal/repository/session"
)

var errSessionExpired = errors.New("session expired")

type tokenManager struct {
	repo sessionrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo sessionrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo, now: time.Now}
}

func (m *tokenManager) Issue(ctx context.Context, userID, role string, ttl time.Duration) (sessionrepo.Session, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return sessionrepo.Session{}, err
		}
		s := sessionrepo.Session{
			Token:     token,
			UserID:    userID,
			Role:      role,
			ExpiresAt: expiresAt,
		}
		err = m.repo.Create(ctx, s)
		if err == nil {
			return s, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return sessionrepo.Session{}, err
	}
	return sessionrepo.Session{}, errors.New("token collision")
}

// Validate returns the live session for token. An expired session is
// deleted and reported with errSessionExpired to exactly one caller; the
// others see domain.ErrNotFound.
func (m *tokenManager) Validate(ctx context.Context, token string) (*sessionrepo.Session, error) {
	s, err := m.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.repo.Delete(ctx, token); err != nil {
			return nil, err
		}
		return s, errSessionExpired
	}
	return s, nil
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}

func (m *tokenManager) RevokeUser(ctx context.Context, userID string) ([]string, error) {
	return m.repo.DeleteByUser(ctx, userID)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
