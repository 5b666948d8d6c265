package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_inventory/internal/adapters/http_server"
	"hotel_inventory/internal/adapters/observability"
	"hotel_inventory/internal/app"
	"hotel_inventory/internal/shared"
	"hotel_inventory/internal/storage/sqldb"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	// db
	dialect, err := sqldb.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database driver")
	}
	db, err := sqldb.Open(ctx, sqldb.Options{Dialect: dialect, DSN: cfg.DatabaseDSN, MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(dialect)).Msg("database connection failed")
	}
	defer db.Close()
	if err := sqldb.Migrate(ctx, db, dialect); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Str("driver", string(dialect)).Msg("database connection ok")

	// deps
	repo := sqldb.New(db, dialect)
	hotels := app.NewHotelCatalog(repo)
	rooms := app.NewRoomInventory(repo)

	// http
	srv := server.New(server.Options{
		Timeout:        cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CORSOrigins:    cfg.CORSOrigins,
	})
	reg := observability.InitRegistry()
	servers := []*http.Server{{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	} else {
		servers = append(servers, observability.NewMetricsServer(cfg.MetricsAddr, reg))
	}
	srv.MountHandlers(&server.Handlers{Hotels: hotels, Rooms: rooms})

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs error
		for _, s := range servers {
			errs = errors.Join(errs, s.Shutdown(sctx))
		}
		return errors.Join(errs, shutdownTracing(sctx))
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}
