package restaurant

import (
	"context"

	"foodorder/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	// Create inserts the restaurant; an empty ID is generated by the database.
	Create(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
	Update(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
