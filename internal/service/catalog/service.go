package catalog

import (
	"context"
	"strconv"
	"time"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	"foodorder/internal/menu"
	"github.com/jellydator/ttlcache/v3"
)

// DefaultCategoryImage is shown for categories that have no image of their own.
const DefaultCategoryImage = "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=100&h=100&fit=crop"

const allKey = "all"

type restaurantReader interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
}

type foodItemReader interface {
	List(ctx context.Context) ([]domain.FoodItem, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.FoodItem, error)
	ListTrending(ctx context.Context) ([]domain.FoodItem, error)
	ListByRating(ctx context.Context) ([]domain.FoodItem, error)
	GetByID(ctx context.Context, id string) (*domain.FoodItem, error)
	Categories(ctx context.Context) ([]string, error)
}

// Menu is a restaurant's items plus the categories they use.
type Menu struct {
	Items      []domain.FoodItem `json:"items"`
	Categories []string          `json:"categories"`
}

// Service is the read side of restaurants and menus. Restaurant lists,
// menus and categories are cached until the TTL passes or Invalidate is
// called.
type Service struct {
	restaurants restaurantReader
	items       foodItemReader

	restaurantCache *ttlcache.Cache[string, []domain.Restaurant]
	menuCache       *ttlcache.Cache[string, Menu]
	categoryCache   *ttlcache.Cache[string, []domain.Category]
}

func New(restaurants restaurantReader, items foodItemReader, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{
		restaurants:     restaurants,
		items:           items,
		restaurantCache: ttlcache.New[string, []domain.Restaurant](ttlcache.WithTTL[string, []domain.Restaurant](ttl)),
		menuCache:       ttlcache.New[string, Menu](ttlcache.WithTTL[string, Menu](ttl)),
		categoryCache:   ttlcache.New[string, []domain.Category](ttlcache.WithTTL[string, []domain.Category](ttl)),
	}
}

// Invalidate drops every cached entry. Admin writes call it.
func (s *Service) Invalidate() {
	s.restaurantCache.DeleteAll()
	s.menuCache.DeleteAll()
	s.categoryCache.DeleteAll()
}

func (s *Service) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return cached(s.restaurantCache, allKey, func() ([]domain.Restaurant, error) {
		return s.restaurants.List(ctx)
	})
}

func (s *Service) Restaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return s.restaurants.GetByID(ctx, id)
}

// Menu returns the items of a restaurant and their distinct categories in
// order of appearance.
func (s *Service) Menu(ctx context.Context, restaurantID string) (Menu, error) {
	return cached(s.menuCache, restaurantID, func() (Menu, error) {
		if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
			return Menu{}, err
		}
		items, err := s.items.ListByRestaurant(ctx, restaurantID)
		if err != nil {
			return Menu{}, err
		}
		m := Menu{Items: items, Categories: []string{}}
		seen := make(map[string]bool)
		for _, it := range items {
			if it.Category == "" || seen[it.Category] {
				continue
			}
			seen[it.Category] = true
			m.Categories = append(m.Categories, it.Category)
		}
		return m, nil
	})
}

// Categories lists the categories in use, numbered from 1.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return cached(s.categoryCache, allKey, func() ([]domain.Category, error) {
		names, err := s.items.Categories(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Category, 0, len(names))
		for i, name := range names {
			out = append(out, domain.Category{ID: strconv.Itoa(i + 1), Name: name, Image: DefaultCategoryImage})
		}
		return out, nil
	})
}

func (s *Service) Trending(ctx context.Context) ([]domain.FoodItem, error) {
	return s.items.ListTrending(ctx)
}

func (s *Service) BestReviewed(ctx context.Context) ([]domain.FoodItem, error) {
	return s.items.ListByRating(ctx)
}

// Popular currently returns every item.
func (s *Service) Popular(ctx context.Context) ([]domain.FoodItem, error) {
	return s.items.List(ctx)
}

func (s *Service) FoodItem(ctx context.Context, id string) (*domain.FoodItem, error) {
	return s.items.GetByID(ctx, id)
}

// AddOns returns the add-on menu offered with a food item.
func (s *Service) AddOns(ctx context.Context, foodItemID string) ([]cart.AddOn, error) {
	it, err := s.items.GetByID(ctx, foodItemID)
	if err != nil {
		return nil, err
	}
	return menu.AddOnsFor(it.Category, it.Name), nil
}

func cached[V any](c *ttlcache.Cache[string, V], key string, load func() (V, error)) (V, error) {
	if item := c.Get(key); item != nil {
		return item.Value(), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v, ttlcache.DefaultTTL)
	return v, nil
}
