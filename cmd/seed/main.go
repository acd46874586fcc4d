package main

import (
	"context"

	"foodorder/internal/config"
	"foodorder/internal/db"
	"foodorder/internal/logging"
	"foodorder/internal/migrate"
	"foodorder/internal/seed"
	"github.com/alecthomas/kong"
)

var cli struct {
	UserPassword string `help:"Password for the demo customers." env:"SEED_USER_PASSWORD" default:"password123"`
	SkipUsers    bool   `help:"Only load restaurants and menus."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description("Load demo restaurants, menus and customers."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	logger, err := logging.New("seed", cfg.LogLevel, "console")
	kctx.FatalIfErrorf(err, "init logger")
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	kctx.FatalIfErrorf(err, "connect db")
	defer pool.Close()

	_, err = migrate.Apply(ctx, pool)
	kctx.FatalIfErrorf(err, "apply migrations")

	res, err := seed.Apply(ctx, pool, seed.Options{
		UserPassword: cli.UserPassword,
		SkipUsers:    cli.SkipUsers,
		Logger:       logger,
	})
	kctx.FatalIfErrorf(err, "seed apply")

	logger.Infof("seed applied restaurants=%d food_items=%d users=%d", res.Restaurants, res.FoodItems, res.Users)
}
