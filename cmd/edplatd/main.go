// The edplatd command implements the educational platform video access server
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	activationpg "github.com/khaledhosny129/Educational-platform/internal/edplatd/activation/postgres"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	catalogpg "github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog/postgres"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	codepg "github.com/khaledhosny129/Educational-platform/internal/edplatd/code/postgres"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/config"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/database"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/events"
	edplathttp "github.com/khaledhosny129/Educational-platform/internal/edplatd/http"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/memstore"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
	redisstore "github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit/redis"
)

// repositories bundles the storage backend chosen at startup
type repositories struct {
	videos      catalog.Repository
	codes       code.Repository
	activations activation.Repository
	ready       func(ctx context.Context) error
	close       func() error
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	storeDriver := flag.String("store", "", "storage backend: postgres or memory (overrides config)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}

	logger = newLogger(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}

// newLogger builds the process logger from the log settings
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "edplatd").Logger()
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}()

	hub := events.NewHub(logger)

	catalogService := catalog.NewService(repos.videos, logger)
	codeService := code.NewService(repos.codes, logger,
		code.WithTTL(cfg.Codes.TTL),
		code.WithPublisher(hub),
	)
	activationService := activation.NewService(repos.activations, repos.videos, repos.codes, logger,
		activation.WithPublisher(hub),
	)

	opts := []edplathttp.Option{
		edplathttp.WithEventStream(hub),
		edplathttp.WithReadiness(repos.ready),
	}

	limiter, closeLimiter, err := newRateLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()
	if limiter != nil {
		opts = append(opts, edplathttp.WithRateLimiter(limiter))
	}

	handler := edplathttp.NewHandler(
		catalogService,
		codeService,
		activationService,
		auth.NewJWTVerifier(cfg.Auth.TokenSigningKey),
		logger,
		opts...,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := activation.NewSweeper(activationService, cfg.Activation.SweepInterval, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("store", cfg.Store.Driver).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error { return hub.Run(gctx) })

	return g.Wait()
}

// openStore connects the configured storage backend
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		store := memstore.New()
		return &repositories{
			videos:      store.Videos(),
			codes:       store.Codes(),
			activations: store.Activations(),
			ready:       func(context.Context) error { return nil },
			close:       func() error { return nil },
		}, nil

	case config.StoreDriverPostgres:
		db, err := database.SetupDatabase(ctx, cfg.Database.DSN(), database.PoolOptions{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, 5, time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		return &repositories{
			videos:      catalogpg.NewRepository(db, logger),
			codes:       codepg.NewRepository(db, logger),
			activations: activationpg.NewRepository(db, logger),
			ready:       pinger(db),
			close:       db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func pinger(db *sql.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

// newRateLimiter connects the Redis-backed limiter. It returns a nil service
// when no Redis address is configured.
func newRateLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ratelimit.Service, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Warn().Msg("redis not configured; rate limiting disabled")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	service := ratelimit.NewService(redisstore.NewStore(client), logger)
	service.RegisterDefaultLimits()

	overrides := map[string]config.LimitConfig{
		ratelimit.TypeCodeRedeem: cfg.RateLimit.CodeRedeem,
		ratelimit.TypeAPIRequest: cfg.RateLimit.APIRequest,
	}
	for limitType, lc := range overrides {
		if lc.Rate == 0 {
			continue
		}
		limit := ratelimit.Limit{Rate: lc.Rate, Period: lc.Period, BurstSize: lc.BurstSize}
		if err := service.RegisterLimit(limitType, limit); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("invalid %s limit: %w", limitType, err)
		}
	}

	return service, func() { _ = client.Close() }, nil
}
