package main

import (
	"context"

	"foodorder/internal/config"
	"foodorder/internal/db"
	"foodorder/internal/logging"
	"foodorder/internal/migrate"
	"github.com/alecthomas/kong"
)

var cli struct {
	Up   struct{} `cmd:"" default:"1" help:"Apply all pending migrations."`
	Down struct{} `cmd:"" help:"Roll back every migration."`
	DSN  string   `name:"dsn" help:"Postgres connection string; defaults to DB_DSN."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description("Manage the food ordering database schema."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	logger, err := logging.New("migrate", cfg.LogLevel, "console")
	kctx.FatalIfErrorf(err, "init logger")
	defer logger.Sync()

	dsn := cfg.DBConnString
	if cli.DSN != "" {
		dsn = cli.DSN
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, logger)
	kctx.FatalIfErrorf(err, "connect db")
	defer pool.Close()

	switch kctx.Command() {
	case "down":
		kctx.FatalIfErrorf(migrate.Down(ctx, pool), "roll back migrations")
		logger.Infof("migrations rolled back")
	default:
		version, err := migrate.Apply(ctx, pool)
		kctx.FatalIfErrorf(err, "apply migrations")
		logger.Infof("migrations applied version=%d", version)
	}
}
