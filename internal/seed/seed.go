// Package seed loads the demo restaurants, menus and customers.
package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"foodorder/internal/domain"
	authsvc "foodorder/internal/service/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type restaurantSeed struct {
	ID           string
	Name         string
	Rating       float64
	DeliveryTime string
	Image        string
	Cuisine      []string
	Distance     string
}

type foodItemSeed struct {
	ID           string
	RestaurantID string
	Name         string
	PriceCents   int64
	Category     string
	Image        string
	Rating       float64
	IsTrending   bool
}

type userSeed struct {
	Name       string
	Email      string
	Phone      string
	SignupDate string
}

const (
	img         = "https://images.unsplash.com/"
	minPassword = 6
)

var restaurants = []restaurantSeed{
	{"1", "Royal Bengal Restaurant", 4.5, "25-35 min", img + "photo-1555396273-367ea4eb4db5?w=400&h=300&fit=crop", []string{"Bengali", "Indian", "Spicy"}, "1.2 km"},
	{"2", "South Indian Delight", 4.2, "20-30 min", img + "photo-1550547660-9be8a3f6cb4b?w=400&h=300&fit=crop", []string{"South Indian", "Vegetarian", "Traditional"}, "2.5 km"},
	{"3", "Dragon Palace", 4.7, "30-40 min", img + "photo-1579584425555-c3ce17fd4351?w=400&h=300&fit=crop", []string{"Chinese", "Asian", "Seafood"}, "1.8 km"},
	{"4", "Pizza Express", 4.3, "25-35 min", img + "photo-1565299624946-b28f40a0ae38?w=400&h=300&fit=crop", []string{"Italian", "Fast Food", "Vegetarian Options"}, "3.1 km"},
	{"5", "Taco Fiesta", 4.6, "15-25 min", img + "photo-1563245372-f21724e3856d?w=400&h=300&fit=crop", []string{"Mexican", "Fast Food", "Gluten Free"}, "0.9 km"},
}

var foodItems = []foodItemSeed{
	{"1", "1", "Chicken Biryani", 1299, "Biryani", img + "photo-1513104890138-7c749659a591?w=200&h=200&fit=crop", 4.8, true},
	{"2", "1", "Paneer Tikka", 999, "Appetizers", img + "photo-1568901346375-23c9450c58cd?w=200&h=200&fit=crop", 4.6, true},
	{"3", "3", "Sushi Platter", 1499, "Japanese", img + "photo-1579584425555-c3ce17fd4351?w=200&h=200&fit=crop", 4.9, true},
	{"4", "1", "Butter Chicken", 1399, "Indian", img + "photo-1555396273-367ea4eb4db5?w=200&h=200&fit=crop", 4.7, false},
	{"5", "2", "Masala Dosa", 899, "South Indian", img + "photo-1512621776951-a57141f2eefd?w=200&h=200&fit=crop", 4.5, false},
	{"6", "4", "Chocolate Cake", 699, "Desserts", img + "photo-1563729784474-d77dbb933a9e?w=200&h=200&fit=crop", 4.8, false},
	{"7", "1", "Tandoori Chicken", 1599, "Indian", img + "photo-1565299624946-b28f40a0ae38?w=200&h=200&fit=crop", 4.9, false},
	{"8", "1", "Fish Curry", 1499, "Bengali", img + "photo-1563245372-f21724e3856d?w=200&h=200&fit=crop", 4.8, false},
	{"9", "1", "Vegetable Korma", 1199, "Indian", img + "photo-1555396273-367ea4eb4db5?w=200&h=200&fit=crop", 4.7, false},
	{"13", "1", "Mutton Biryani", 1699, "Biryani", img + "photo-1513104890138-7c749659a591?w=200&h=200&fit=crop", 4.6, false},
	{"14", "1", "Garlic Naan", 399, "Sides", img + "photo-1568901346375-23c9450c58cd?w=200&h=200&fit=crop", 4.5, false},
}

var users = []userSeed{
	{"John Doe", "john@example.com", "(555) 123-4567", "2023-01-15"},
	{"Jane Smith", "jane@example.com", "(555) 987-6543", "2023-02-20"},
	{"Robert Johnson", "robert@example.com", "(555) 456-7890", "2023-03-10"},
}

// Options controls what Apply loads.
type Options struct {
	// UserPassword is given to every demo customer.
	UserPassword string
	// SkipUsers leaves the users table untouched.
	SkipUsers bool
	Logger    *zap.SugaredLogger
}

// Result counts the rows written by Apply.
type Result struct {
	Restaurants int
	FoodItems   int
	Users       int
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT:
// restaurants and food items are refreshed, existing users are kept.
func Apply(ctx context.Context, pool *pgxpool.Pool, opts Options) (Result, error) {
	var res Result
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	for _, r := range restaurants {
		if err := upsertRestaurant(ctx, pool, r); err != nil {
			return res, fmt.Errorf("upsert restaurant %s: %w", r.ID, err)
		}
		res.Restaurants++
	}
	for _, it := range foodItems {
		if err := upsertFoodItem(ctx, pool, it); err != nil {
			return res, fmt.Errorf("upsert food item %s: %w", it.ID, err)
		}
		res.FoodItems++
	}
	if opts.SkipUsers {
		return res, nil
	}

	for _, u := range users {
		inserted, err := insertUser(ctx, pool, u, opts.UserPassword)
		if err != nil {
			return res, fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		if inserted {
			res.Users++
		} else {
			logger.Debugf("seed: user exists email=%s", u.Email)
		}
	}
	return res, nil
}

func upsertRestaurant(ctx context.Context, pool *pgxpool.Pool, r restaurantSeed) error {
	const q = `
INSERT INTO restaurants (id, name, rating, delivery_time, image, cuisine, distance)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    rating = EXCLUDED.rating,
    delivery_time = EXCLUDED.delivery_time,
    image = EXCLUDED.image,
    cuisine = EXCLUDED.cuisine,
    distance = EXCLUDED.distance
`
	cuisine, err := json.Marshal(r.Cuisine)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, q, r.ID, r.Name, r.Rating, r.DeliveryTime, r.Image, cuisine, r.Distance)
	return err
}

func upsertFoodItem(ctx context.Context, pool *pgxpool.Pool, it foodItemSeed) error {
	const q = `
INSERT INTO food_items (id, restaurant_id, name, price_cents, category, image, rating, is_trending)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE
SET restaurant_id = EXCLUDED.restaurant_id,
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    category = EXCLUDED.category,
    image = EXCLUDED.image,
    rating = EXCLUDED.rating,
    is_trending = EXCLUDED.is_trending
`
	_, err := pool.Exec(ctx, q, it.ID, it.RestaurantID, it.Name, it.PriceCents, it.Category, it.Image, it.Rating, it.IsTrending)
	return err
}

func insertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed, password string) (bool, error) {
	user, err := authsvc.NewUser(authsvc.SignupInput{Name: u.Name, Email: u.Email, Phone: u.Phone, Password: password}, domain.RoleUser, minPassword)
	if err != nil {
		return false, err
	}
	const q = `
INSERT INTO users (name, email, phone, password_hash, role, signup_date)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($2))
`
	tag, err := pool.Exec(ctx, q, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, u.SignupDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
