package session

import (
	"context"
	"time"
)

// Session is an opaque bearer token issued at login.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteByUser removes every session of the user and returns the revoked tokens.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
}
