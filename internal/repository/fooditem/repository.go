package fooditem

import (
	"context"

	"foodorder/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.FoodItem, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.FoodItem, error)
	ListTrending(ctx context.Context) ([]domain.FoodItem, error)
	// ListByRating returns every item, best rated first.
	ListByRating(ctx context.Context) ([]domain.FoodItem, error)
	GetByID(ctx context.Context, id string) (*domain.FoodItem, error)
	Create(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	Update(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	Delete(ctx context.Context, id string) error
	// Upsert inserts the item or updates the existing one with the same
	// restaurant and name.
	Upsert(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	// Categories returns the distinct non-empty categories in order of first use.
	Categories(ctx context.Context) ([]string, error)
}
