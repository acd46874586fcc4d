package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodorder/internal/config"
	"foodorder/internal/db"
	"foodorder/internal/httpserver"
	"foodorder/internal/logging"
	"foodorder/internal/migrate"
	cartrepo "foodorder/internal/repository/cart"
	fooditemrepo "foodorder/internal/repository/fooditem"
	orderrepo "foodorder/internal/repository/order"
	restaurantrepo "foodorder/internal/repository/restaurant"
	sessionrepo "foodorder/internal/repository/session"
	userrepo "foodorder/internal/repository/user"
	adminsvc "foodorder/internal/service/admin"
	authsvc "foodorder/internal/service/auth"
	cartsvc "foodorder/internal/service/cart"
	catalogsvc "foodorder/internal/service/catalog"
	ordersvc "foodorder/internal/service/order"
	"foodorder/internal/session"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("api", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	version, err := migrate.Apply(ctx, dbpool)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Infof("schema version=%d", version)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	restaurantRepo := restaurantrepo.NewPostgres(dbpool, logger)
	foodItemRepo := fooditemrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)

	notifier := session.NewNotifier()
	authService := authsvc.New(userRepo, sessionRepo, notifier, authsvc.Options{
		Admin:      authsvc.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger.Named("auth"),
	})
	catalogService := catalogsvc.New(restaurantRepo, foodItemRepo, cfg.CatalogCacheTTL)
	cartService := cartsvc.New(cartRepo, foodItemRepo, notifier, logger.Named("cart"))
	defer cartService.Close()
	orderService := ordersvc.New(orderRepo, cartService, userRepo, logger.Named("orders"))

	uploads, err := adminsvc.NewUploads(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("init uploads: %v", err)
	}
	adminService := adminsvc.New(adminsvc.Deps{
		Users:       userRepo,
		Restaurants: restaurantRepo,
		FoodItems:   foodItemRepo,
		Orders:      orderRepo,
		Sessions:    authService,
		Catalog:     catalogService,
		Uploads:     uploads,
		Logger:      logger.Named("admin"),
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), dbpool, httpserver.Deps{
		AuthSvc:       authService,
		CatalogSvc:    catalogService,
		CartSvc:       cartService,
		OrderSvc:      orderService,
		AdminSvc:      adminService,
		UploadDir:     uploads.Dir(),
		PublicBaseURL: cfg.PublicBaseURL,
		LoginRate:     cfg.LoginRate,
		LoginBurst:    cfg.LoginBurst,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Infof("server stopped")
	}
}
