package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_inventory/internal/adapters/observability"
	"hotel_inventory/internal/app"
	"hotel_inventory/internal/shared"
	"hotel_inventory/internal/storage/sqldb"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := cfg.SeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	log.Info().
		Str("file", path).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	seeds, err := app.LoadSeeds(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load seed file failed")
	}

	dialect, err := sqldb.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database driver")
	}
	db, err := sqldb.Open(ctx, sqldb.Options{Dialect: dialect, DSN: cfg.DatabaseDSN, MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := sqldb.Migrate(ctx, db, dialect); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("db ping ok")

	repo := sqldb.New(db, dialect)
	seeder := app.NewSeeder(app.NewHotelCatalog(repo), app.NewRoomInventory(repo))
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, seed := range seeds {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(seed app.HotelSeed) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := seeder.SeedHotel(ctx, seed)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", seed.Name).Err(err).Msg("seed failed")
				return
			}
			if res.Skipped {
				log.Warn().Str("hotel", res.Hotel).Msg("hotel already registered, skipped")
				return
			}
			log.Info().
				Str("hotel", res.Hotel).
				Int("rooms", res.Rooms).
				Int("rejected", res.Rejected).
				Msg("seed ok")
		}(seed)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Msg("seeding completed with failures")
		_ = db.Close()
		os.Exit(1)
	}
	log.Info().Msg("seeding completed")
}
