package cart

import (
	"context"

	"foodorder/internal/cart"
)

// Repository persists one cart per user. Writes carry the cart version and
// are ignored when the stored version is not older.
type Repository interface {
	// Get returns domain.ErrNotFound when the user has no stored cart.
	Get(ctx context.Context, userID string) (cart.State, error)
	// Save reports false when a newer or equal version is already stored.
	Save(ctx context.Context, userID string, s cart.State) (bool, error)
	Delete(ctx context.Context, userID string) error
}
