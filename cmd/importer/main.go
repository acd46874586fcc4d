package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/db"
	"foodorder/internal/importer"
	"foodorder/internal/logging"
	fooditemrepo "foodorder/internal/repository/fooditem"
	restaurantrepo "foodorder/internal/repository/restaurant"
	"github.com/alecthomas/kong"
)

var cli struct {
	File       string `arg:"" type:"existingfile" help:"Menu CSV file."`
	Restaurant string `short:"r" help:"Restaurant id for rows without a restaurantId column."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description("Import food items from a menu CSV."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	logger, err := logging.New("importer", cfg.LogLevel, "console")
	kctx.FatalIfErrorf(err, "init logger")
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	kctx.FatalIfErrorf(err, "connect db")
	defer pool.Close()

	if cli.Restaurant != "" {
		_, err := restaurantrepo.NewPostgres(pool, logger).GetByID(ctx, cli.Restaurant)
		kctx.FatalIfErrorf(err, "restaurant %q", cli.Restaurant)
	}

	f, err := os.Open(cli.File)
	kctx.FatalIfErrorf(err, "open file")
	defer f.Close()

	imp := importer.NewMenuImporter(f, fooditemrepo.NewPostgres(pool, logger), cli.Restaurant, logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	kctx.FatalIfErrorf(err, "import failed")

	fmt.Printf("Imported %d food items in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
