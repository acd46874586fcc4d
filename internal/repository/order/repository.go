package order

import (
	"context"

	"foodorder/internal/domain"
)

// Totals aggregates all orders for the admin dashboard.
type Totals struct {
	Count        int64
	RevenueCents int64
}

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Totals(ctx context.Context) (Totals, error)
}
