package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	"foodorder/internal/logging"
	"foodorder/internal/metrics"
	adminsvc "foodorder/internal/service/admin"
	authsvc "foodorder/internal/service/auth"
	cartsvc "foodorder/internal/service/cart"
	catalogsvc "foodorder/internal/service/catalog"
	ordersvc "foodorder/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, login, password string) (*authsvc.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*authsvc.Principal, error)
	Me(ctx context.Context, p authsvc.Principal) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	SessionTTLSeconds() int
}

type catalogService interface {
	Restaurants(ctx context.Context) ([]domain.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) (catalogsvc.Menu, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Trending(ctx context.Context) ([]domain.FoodItem, error)
	BestReviewed(ctx context.Context) ([]domain.FoodItem, error)
	Popular(ctx context.Context) ([]domain.FoodItem, error)
	AddOns(ctx context.Context, foodItemID string) ([]cart.AddOn, error)
}

type cartService interface {
	Get(ctx context.Context, userID string) (cart.State, error)
	AddItem(ctx context.Context, userID string, in cartsvc.AddInput) (cart.State, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (cart.State, error)
	RemoveItem(ctx context.Context, userID, productID string) (cart.State, error)
	UpdateLine(ctx context.Context, userID, key string, quantity int) (cart.State, error)
	RemoveLine(ctx context.Context, userID, key string) (cart.State, error)
	Clear(ctx context.Context, userID string) (cart.State, error)
}

type orderService interface {
	Submit(ctx context.Context, in ordersvc.SubmitInput) (*domain.Order, error)
	Checkout(ctx context.Context, userID string, in ordersvc.CheckoutInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type adminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in adminsvc.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in adminsvc.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	CreateRestaurant(ctx context.Context, in adminsvc.RestaurantInput) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id string, in adminsvc.RestaurantInput) (*domain.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
	ListFoodItems(ctx context.Context) ([]domain.FoodItem, error)
	CreateFoodItem(ctx context.Context, in adminsvc.FoodItemInput) (*domain.FoodItem, error)
	UpdateFoodItem(ctx context.Context, id string, in adminsvc.FoodItemInput) (*domain.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Upload(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// Deps carries the services behind the routes.
type Deps struct {
	AuthSvc    authService
	CatalogSvc catalogService
	CartSvc    cartService
	OrderSvc   orderService
	AdminSvc   adminService

	// UploadDir is served under /uploads when set.
	UploadDir string
	// PublicBaseURL prefixes upload URLs; the request host is used when empty.
	PublicBaseURL string
	LoginRate     float64
	LoginBurst    int
}

type handlers struct {
	logger *zap.SugaredLogger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.SugaredLogger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AuthSvc == nil {
		return nil, errors.New("httpserver: auth service is required")
	}
	logger = logging.OrNop(logger)
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger), metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.MaxMultipartMemory = 8 << 20

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", metrics.Handler())
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	h := &handlers{logger: logger, deps: deps}
	limiter := newClientLimiter(deps.LoginRate, deps.LoginBurst)
	authn := authMiddleware(deps.AuthSvc, logger)

	api := router.Group("/api")
	{
		api.POST("/auth/login", limiter.middleware(), h.login)
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/logout", authn, h.logout)
		api.GET("/auth/me", authn, h.me)

		api.GET("/restaurants", h.restaurants)
		api.GET("/restaurants/:id/menu", h.menu)
		api.GET("/categories", h.categories)
		api.GET("/trending", h.trending)
		api.GET("/best-reviewed", h.bestReviewed)
		api.GET("/popular", h.popular)
		api.GET("/food-items/:id/addons", h.addOns)

		api.POST("/orders", authn, h.submitOrder)
		api.GET("/orders/user/:userId", authn, h.userOrders)
	}

	carts := api.Group("/cart", authn, requireRole(domain.RoleUser))
	{
		carts.GET("", h.getCart)
		carts.DELETE("", h.clearCart)
		carts.POST("/items", h.addCartItem)
		carts.PUT("/items/:productId", h.updateCartItem)
		carts.DELETE("/items/:productId", h.removeCartItem)
		carts.PUT("/lines/:key", h.updateCartLine)
		carts.DELETE("/lines/:key", h.removeCartLine)
		carts.POST("/checkout", h.checkout)
	}

	admin := api.Group("/admin", authn, requireRole(domain.RoleAdmin))
	{
		admin.GET("/users", h.adminListUsers)
		admin.POST("/users", h.adminCreateUser)
		admin.PUT("/users/:id", h.adminUpdateUser)
		admin.DELETE("/users/:id", h.adminDeleteUser)

		admin.GET("/restaurants", h.adminListRestaurants)
		admin.POST("/restaurants", h.adminCreateRestaurant)
		admin.PUT("/restaurants/:id", h.adminUpdateRestaurant)
		admin.DELETE("/restaurants/:id", h.adminDeleteRestaurant)

		admin.GET("/food-items", h.adminListFoodItems)
		admin.POST("/food-items", h.adminCreateFoodItem)
		admin.PUT("/food-items/:id", h.adminUpdateFoodItem)
		admin.DELETE("/food-items/:id", h.adminDeleteFoodItem)

		admin.GET("/categories", h.adminCategories)
		admin.GET("/stats", h.adminStats)
		admin.GET("/orders", h.adminOrders)
		admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)
	}
	api.POST("/upload", authn, requireRole(domain.RoleAdmin), h.upload)

	return router, nil
}
