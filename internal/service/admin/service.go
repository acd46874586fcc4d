// Package admin implements the back-office operations: user, restaurant
// and menu maintenance, order overview and image uploads.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"foodorder/internal/domain"
	"foodorder/internal/logging"
	orderrepo "foodorder/internal/repository/order"
	sets "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCategories are always offered when editing a food item.
var DefaultCategories = []string{
	"Pizza", "Salads", "Sides", "Desserts", "Drinks",
	"Indian", "Chinese", "Mexican", "Ice Creams",
	"Milk Shakes", "Burgers", "Appetizers", "Biryani",
	"Noodles", "Sandwiches", "Pasta",
}

// unusablePassword is stored for accounts created without a password; no
// bcrypt comparison can succeed against it.
const unusablePassword = "!"

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type restaurantRepo interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	Create(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
	Update(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type foodItemRepo interface {
	List(ctx context.Context) ([]domain.FoodItem, error)
	GetByID(ctx context.Context, id string) (*domain.FoodItem, error)
	Create(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	Update(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type orderTotals interface {
	Totals(ctx context.Context) (orderrepo.Totals, error)
}

// sessionRevoker ends the sessions of a removed user.
type sessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// cacheInvalidator is told about every catalog write.
type cacheInvalidator interface {
	Invalidate()
}

// Deps wires the admin service.
type Deps struct {
	Users       userRepo
	Restaurants restaurantRepo
	FoodItems   foodItemRepo
	Orders      orderTotals
	Sessions    sessionRevoker
	Catalog     cacheInvalidator
	Uploads     *Uploads
	Logger      *zap.SugaredLogger
}

type Service struct {
	users       userRepo
	restaurants restaurantRepo
	items       foodItemRepo
	orders      orderTotals
	sessions    sessionRevoker
	catalog     cacheInvalidator
	uploads     *Uploads
	logger      *zap.SugaredLogger
}

func New(d Deps) *Service {
	return &Service{
		users:       d.Users,
		restaurants: d.Restaurants,
		items:       d.FoodItems,
		orders:      d.Orders,
		sessions:    d.Sessions,
		catalog:     d.Catalog,
		uploads:     d.Uploads,
		logger:      logging.OrNop(d.Logger),
	}
}

// UserInput is a partial user; nil fields are left unchanged on update.
type UserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	u := domain.User{Role: domain.RoleUser, PasswordHash: unusablePassword}
	if err := applyUser(&u, in); err != nil {
		return nil, err
	}
	if u.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if u.Email == "" {
		return nil, domain.Invalid("email", "required")
	}
	return s.users.Create(ctx, u)
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	if err := applyUser(u, in); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, *u)
}

// DeleteUser removes the user and ends their sessions.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.RevokeUser(ctx, id); err != nil {
			s.logger.Warnf("admin: revoke sessions user_id=%s error=%v", id, err)
		}
	}
	s.logger.Infof("admin: deleted user id=%s", id)
	return nil
}

func applyUser(u *domain.User, in UserInput) error {
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil {
		if *in.Role != domain.RoleUser && *in.Role != domain.RoleAdmin {
			return domain.Invalid("role", "must be user or admin")
		}
		u.Role = *in.Role
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(*in.Password)), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hashed)
	}
	return nil
}

// RestaurantInput is a partial restaurant; nil fields are left unchanged on update.
type RestaurantInput struct {
	Name         *string   `json:"name"`
	Rating       *float64  `json:"rating"`
	DeliveryTime *string   `json:"deliveryTime"`
	Image        *string   `json:"image"`
	Cuisine      *[]string `json:"cuisine"`
	Distance     *string   `json:"distance"`
}

func (s *Service) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return s.restaurants.List(ctx)
}

func (s *Service) CreateRestaurant(ctx context.Context, in RestaurantInput) (*domain.Restaurant, error) {
	var r domain.Restaurant
	if err := applyRestaurant(&r, in); err != nil {
		return nil, err
	}
	if r.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	out, err := s.restaurants.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return out, nil
}

func (s *Service) UpdateRestaurant(ctx context.Context, id string, in RestaurantInput) (*domain.Restaurant, error) {
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyRestaurant(r, in); err != nil {
		return nil, err
	}
	out, err := s.restaurants.Update(ctx, *r)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return out, nil
}

// DeleteRestaurant removes the restaurant together with its menu.
func (s *Service) DeleteRestaurant(ctx context.Context, id string) error {
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func applyRestaurant(r *domain.Restaurant, in RestaurantInput) error {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > 5 {
			return domain.Invalid("rating", "must be between 0 and 5")
		}
		r.Rating = *in.Rating
	}
	if in.DeliveryTime != nil {
		r.DeliveryTime = *in.DeliveryTime
	}
	if in.Image != nil {
		r.Image = *in.Image
	}
	if in.Cuisine != nil {
		r.Cuisine = append([]string{}, *in.Cuisine...)
	}
	if in.Distance != nil {
		r.Distance = *in.Distance
	}
	return nil
}

// FoodItemInput is a partial food item; nil fields are left unchanged on update.
type FoodItemInput struct {
	RestaurantID *string
	Name         *string
	Description  *string
	PriceCents   *int64
	Category     *string
	Image        *string
	Rating       *float64
	IsTrending   *bool
}

func (s *Service) ListFoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	return s.items.List(ctx)
}

func (s *Service) CreateFoodItem(ctx context.Context, in FoodItemInput) (*domain.FoodItem, error) {
	var it domain.FoodItem
	if err := applyFoodItem(&it, in); err != nil {
		return nil, err
	}
	if it.RestaurantID == "" {
		return nil, domain.Invalid("restaurantId", "restaurant ID is required")
	}
	if it.Name == "" {
		return nil, domain.Invalid("name", "required")
	}
	out, err := s.items.Create(ctx, it)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return out, nil
}

func (s *Service) UpdateFoodItem(ctx context.Context, id string, in FoodItemInput) (*domain.FoodItem, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyFoodItem(it, in); err != nil {
		return nil, err
	}
	if it.RestaurantID == "" {
		return nil, domain.Invalid("restaurantId", "restaurant ID is required")
	}
	out, err := s.items.Update(ctx, *it)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return out, nil
}

func (s *Service) DeleteFoodItem(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func applyFoodItem(it *domain.FoodItem, in FoodItemInput) error {
	if in.RestaurantID != nil {
		it.RestaurantID = strings.TrimSpace(*in.RestaurantID)
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return domain.Invalid("price", "must not be negative")
		}
		it.PriceCents = *in.PriceCents
	}
	if in.Category != nil {
		it.Category = strings.TrimSpace(*in.Category)
	}
	if in.Image != nil {
		it.Image = *in.Image
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > 5 {
			return domain.Invalid("rating", "must be between 0 and 5")
		}
		it.Rating = *in.Rating
	}
	if in.IsTrending != nil {
		it.IsTrending = *in.IsTrending
	}
	return nil
}

// Categories merges the default categories with those in use, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	inUse, err := s.items.Categories(ctx)
	if err != nil {
		return nil, err
	}
	all := sets.NewThreadUnsafeSet(DefaultCategories...)
	all.Append(inUse...)
	out := all.ToSlice()
	sort.Strings(out)
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	totals, err := s.orders.Totals(ctx)
	if err != nil {
		return st, fmt.Errorf("order totals: %w", err)
	}
	st.TotalOrders = totals.Count
	st.TotalRevenueCents = totals.RevenueCents
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return st, fmt.Errorf("count users: %w", err)
	}
	if st.TotalRestaurants, err = s.restaurants.Count(ctx); err != nil {
		return st, fmt.Errorf("count restaurants: %w", err)
	}
	return st, nil
}

// ErrUploadsDisabled is returned when no upload directory is configured.
var ErrUploadsDisabled = errors.New("uploads are not configured")

func (s *Service) invalidate() {
	if s.catalog != nil {
		s.catalog.Invalidate()
	}
}
