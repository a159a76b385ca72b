package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/foodwaste-backend/internal/seed"
	"github.com/angelmondragon/foodwaste-backend/pkg/config"
	"github.com/angelmondragon/foodwaste-backend/pkg/db"
	"github.com/angelmondragon/foodwaste-backend/pkg/logger"
	"github.com/angelmondragon/foodwaste-backend/pkg/migrate"
)

func main() {
	providers := flag.String("providers", "", "providers CSV path")
	receivers := flag.String("receivers", "", "receivers CSV path")
	listings := flag.String("listings", "", "food listings CSV path")
	claims := flag.String("claims", "", "claims CSV path")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var files []*os.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	open := func(path string) io.Reader {
		if path == "" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			logg.Error(context.Background(), fmt.Sprintf("failed to open %s", path), err)
			os.Exit(1)
		}
		files = append(files, f)
		return f
	}

	src := seed.Sources{
		Providers: open(*providers),
		Receivers: open(*receivers),
		Listings:  open(*listings),
		Claims:    open(*claims),
	}
	if src.Providers == nil && src.Receivers == nil && src.Listings == nil && src.Claims == nil {
		fmt.Fprintln(os.Stderr, "nothing to import: pass at least one of -providers, -receivers, -listings, -claims")
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	importer, err := seed.NewImporter(logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create importer", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"db_driver": dbClient.Dialect(),
	})
	result, err := importer.Import(ctx, src)
	if err != nil {
		logg.Error(ctx, "seed import failed", err)
		os.Exit(1)
	}

	fmt.Printf("imported providers=%d receivers=%d listings=%d claims=%d\n",
		result.Providers, result.Receivers, result.Listings, result.Claims)
}
