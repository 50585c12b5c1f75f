package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sigcpef/personnel-api/internal/api"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/core/service"
	mongodb "github.com/sigcpef/personnel-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sigcpef/personnel-api/internal/infrastructure/db/redis"
	"github.com/sigcpef/personnel-api/internal/infrastructure/queue"
	"github.com/sigcpef/personnel-api/internal/infrastructure/ratelimit"
	"github.com/sigcpef/personnel-api/internal/pkg/config"
	"github.com/sigcpef/personnel-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "sigcpef",
	})

	trusted, err := cfg.TrustedProxyNets()
	if err != nil {
		return err
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)

	// MongoDB is dialed on first use, so the process starts even when the
	// database is briefly unreachable.
	db := mongodb.NewLazy(mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	}, mongodb.EnsureIndexes)

	rdb, err := connectRedis(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Background components outlive the signal context so they can be
	// stopped after the server has drained.
	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	limiter := newLoginLimiter(bgCtx, cfg, rdb, log)

	users := mongodb.NewUserRepository(db)
	employees := mongodb.NewEmployeeRepository(db)
	recorder := service.NewLoginRecorder(users, mongodb.NewLoginAuditRepository(db), logger.Component("login_audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, recorder, logger.Component("dispatcher"))
	dispatcher.Start(bgCtx)

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Guard:        service.NewGuard(tokens, logger.Component("guard")),
		Auth:         service.NewAuthService(users, hasher, tokens, dispatcher, logger.Component("auth")),
		Personnel:    service.NewPersonnelService(employees),
		Sanctions:    service.NewSanctionService(mongodb.NewSanctionRepository(db), employees),
		LoginLimiter: limiter,
		Mongo:        db,
		Redis:        rdb,
		CORSOrigin:   cfg.CORSOrigin,

		TrustedProxies: trusted,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelBg()
	dispatcher.Wait()

	if err := db.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}

	log.Info().Msg("server stopped gracefully")
	return serveErr
}

// connectRedis returns nil when Redis is not configured. A configured but
// unreachable Redis is fatal only when it backs the rate limiter.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.RateLimit.Backend == config.RateLimitRedis {
			return nil, fmt.Errorf("redis: %w", err)
		}
		log.Warn().Err(err).Msg("redis unavailable, continuing without it")
		return nil, nil
	}
	return rdb, nil
}

func newLoginLimiter(ctx context.Context, cfg *config.Config, rdb *redis.Client, log zerolog.Logger) ports.RateLimiter {
	if cfg.RateLimit.Backend == config.RateLimitRedis {
		log.Info().Msg("login rate limit backed by redis")
		return redisdb.NewRateLimiter(rdb, "login", cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	}

	fw := ratelimit.NewFixedWindow(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	go fw.Run(ctx)
	log.Info().Msg("login rate limit held in process memory")
	return fw
}
