package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	adminsvc "foodorder/internal/service/admin"
	authsvc "foodorder/internal/service/auth"
	cartsvc "foodorder/internal/service/cart"
	catalogsvc "foodorder/internal/service/catalog"
	ordersvc "foodorder/internal/service/order"
	"github.com/gin-gonic/gin"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type stubAuthService struct {
	loggedOut []string
}

func (s *stubAuthService) Signup(_ context.Context, in authsvc.SignupInput) (*domain.User, error) {
	if in.Email == "" {
		return nil, domain.Invalid("email", "required")
	}
	return &domain.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: domain.RoleUser}, nil
}

func (s *stubAuthService) Login(_ context.Context, login, password string) (*authsvc.LoginResult, error) {
	if login != "john@example.com" || password != "password123" {
		return nil, authsvc.ErrInvalidCredentials
	}
	return &authsvc.LoginResult{
		Token:     userToken,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      domain.User{ID: "u1", Name: "John Doe", Email: login, Role: domain.RoleUser},
	}, nil
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*authsvc.Principal, error) {
	switch token {
	case userToken:
		return &authsvc.Principal{UserID: "u1", Role: domain.RoleUser, Token: token}, nil
	case adminToken:
		return &authsvc.Principal{UserID: authsvc.AdminUserID, Role: domain.RoleAdmin, Token: token}, nil
	}
	return nil, authsvc.ErrInvalidToken
}

func (s *stubAuthService) Me(_ context.Context, p authsvc.Principal) (*domain.User, error) {
	return &domain.User{ID: p.UserID, Name: "John Doe", Role: p.Role}, nil
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuthService) SessionTTLSeconds() int { return 3600 }

type stubCatalogService struct{}

func (stubCatalogService) Restaurants(context.Context) ([]domain.Restaurant, error) {
	return []domain.Restaurant{{ID: "1", Name: "Spice Garden", Cuisine: []string{"Indian"}}}, nil
}

func (stubCatalogService) Menu(_ context.Context, id string) (catalogsvc.Menu, error) {
	if id != "1" {
		return catalogsvc.Menu{}, domain.ErrNotFound
	}
	return catalogsvc.Menu{
		Items:      []domain.FoodItem{{ID: "f1", RestaurantID: "1", Name: "Chicken Biryani", PriceCents: 1299, Category: "Biryani"}},
		Categories: []string{"Biryani"},
	}, nil
}

func (stubCatalogService) Categories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "1", Name: "Biryani"}}, nil
}

func (stubCatalogService) Trending(context.Context) ([]domain.FoodItem, error) { return nil, nil }

func (stubCatalogService) BestReviewed(context.Context) ([]domain.FoodItem, error) { return nil, nil }

func (stubCatalogService) Popular(context.Context) ([]domain.FoodItem, error) { return nil, nil }

func (stubCatalogService) AddOns(_ context.Context, id string) ([]cart.AddOn, error) {
	if id != "f1" {
		return nil, domain.ErrNotFound
	}
	return []cart.AddOn{{ID: "raita", Name: "Raita", PriceCents: 150}}, nil
}

// stubCartService keeps one in-memory cart per user on top of the real reducer.
type stubCartService struct {
	carts map[string]cart.State
	calls []string
}

func newStubCartService() *stubCartService {
	return &stubCartService{carts: map[string]cart.State{}}
}

func (s *stubCartService) apply(userID, call string, a cart.Action) (cart.State, error) {
	s.calls = append(s.calls, call)
	st, ok := s.carts[userID]
	if !ok {
		st = cart.Empty()
	}
	st = cart.Apply(st, a)
	s.carts[userID] = st
	return st, nil
}

func (s *stubCartService) Get(_ context.Context, userID string) (cart.State, error) {
	if st, ok := s.carts[userID]; ok {
		return st, nil
	}
	return cart.Empty(), nil
}

func (s *stubCartService) AddItem(_ context.Context, userID string, in cartsvc.AddInput) (cart.State, error) {
	if in.FoodItemID != "f1" {
		return cart.State{}, domain.ErrNotFound
	}
	q := in.Quantity
	if q == 0 {
		q = 1
	}
	return s.apply(userID, "add", cart.AddItem(cart.LineItem{ID: "f1", Name: "Chicken Biryani", UnitPriceCents: 1299, Quantity: q}))
}

func (s *stubCartService) UpdateQuantity(_ context.Context, userID, productID string, q int) (cart.State, error) {
	return s.apply(userID, "update:"+productID, cart.UpdateQuantity(productID, q))
}

func (s *stubCartService) RemoveItem(_ context.Context, userID, productID string) (cart.State, error) {
	return s.apply(userID, "remove:"+productID, cart.RemoveItem(productID))
}

func (s *stubCartService) UpdateLine(_ context.Context, userID, key string, q int) (cart.State, error) {
	return s.apply(userID, "update-line:"+key, cart.UpdateLineQuantity(key, q))
}

func (s *stubCartService) RemoveLine(_ context.Context, userID, key string) (cart.State, error) {
	return s.apply(userID, "remove-line:"+key, cart.RemoveLine(key))
}

func (s *stubCartService) Clear(_ context.Context, userID string) (cart.State, error) {
	return s.apply(userID, "clear", cart.Clear())
}

type stubOrderService struct {
	submitted   []ordersvc.SubmitInput
	checkoutErr error
	updated     map[string]string
}

func (s *stubOrderService) Submit(_ context.Context, in ordersvc.SubmitInput) (*domain.Order, error) {
	s.submitted = append(s.submitted, in)
	return &domain.Order{ID: "o-1", UserID: in.UserID, Type: in.Type, Status: domain.OrderStatusPending}, nil
}

func (s *stubOrderService) Checkout(_ context.Context, userID string, in ordersvc.CheckoutInput) (*domain.Order, error) {
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	return &domain.Order{ID: "o-2", UserID: userID, Type: in.Type, TotalCents: 2598, TotalItems: 2, Status: domain.OrderStatusPending}, nil
}

func (s *stubOrderService) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	return []domain.Order{{ID: "o-1", UserID: userID, TotalCents: 1299}}, nil
}

func (s *stubOrderService) List(context.Context) ([]domain.Order, error) { return nil, nil }

func (s *stubOrderService) UpdateStatus(_ context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return domain.Invalid("status", "unknown status %q", status)
	}
	if id != "o-1" {
		return domain.ErrNotFound
	}
	if s.updated == nil {
		s.updated = map[string]string{}
	}
	s.updated[id] = status
	return nil
}

type stubAdminService struct {
	createdItem adminsvc.FoodItemInput
	uploaded    string
}

func (s *stubAdminService) ListUsers(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: "u1", Name: "John Doe", Email: "john@example.com", Role: domain.RoleUser, PasswordHash: "secret-hash"}}, nil
}

func (s *stubAdminService) CreateUser(_ context.Context, in adminsvc.UserInput) (*domain.User, error) {
	if in.Email != nil && *in.Email == "taken@example.com" {
		return nil, domain.ErrAlreadyExists
	}
	return &domain.User{ID: "u-new"}, nil
}

func (s *stubAdminService) UpdateUser(context.Context, string, adminsvc.UserInput) (*domain.User, error) {
	return &domain.User{ID: "u1"}, nil
}

func (s *stubAdminService) DeleteUser(context.Context, string) error { return nil }

func (s *stubAdminService) ListRestaurants(context.Context) ([]domain.Restaurant, error) {
	return nil, nil
}

func (s *stubAdminService) CreateRestaurant(context.Context, adminsvc.RestaurantInput) (*domain.Restaurant, error) {
	return &domain.Restaurant{ID: "r1"}, nil
}

func (s *stubAdminService) UpdateRestaurant(context.Context, string, adminsvc.RestaurantInput) (*domain.Restaurant, error) {
	return &domain.Restaurant{ID: "r1"}, nil
}

func (s *stubAdminService) DeleteRestaurant(context.Context, string) error { return nil }

func (s *stubAdminService) ListFoodItems(context.Context) ([]domain.FoodItem, error) { return nil, nil }

func (s *stubAdminService) CreateFoodItem(_ context.Context, in adminsvc.FoodItemInput) (*domain.FoodItem, error) {
	s.createdItem = in
	it := domain.FoodItem{ID: "f-new"}
	if in.PriceCents != nil {
		it.PriceCents = *in.PriceCents
	}
	return &it, nil
}

func (s *stubAdminService) UpdateFoodItem(context.Context, string, adminsvc.FoodItemInput) (*domain.FoodItem, error) {
	return nil, domain.ErrNotFound
}

func (s *stubAdminService) DeleteFoodItem(context.Context, string) error { return nil }

func (s *stubAdminService) Categories(context.Context) ([]string, error) {
	return []string{"Biryani", "Pizza"}, nil
}

func (s *stubAdminService) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{TotalOrders: 3, TotalUsers: 2, TotalRestaurants: 5, TotalRevenueCents: 4550}, nil
}

func (s *stubAdminService) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.uploaded = string(data)
	return "/uploads/123-" + name, nil
}

// testDeps returns stub services; tests override fields as needed.
func testDeps() Deps {
	return Deps{
		AuthSvc:    &stubAuthService{},
		CatalogSvc: stubCatalogService{},
		CartSvc:    newStubCartService(),
		OrderSvc:   &stubOrderService{},
		AdminSvc:   &stubAdminService{},
		LoginRate:  100,
		LoginBurst: 100,
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(nil, nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
