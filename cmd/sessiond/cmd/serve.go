package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sessionguard/core/auth"
	"github.com/dmitrymomot/sessionguard/core/codec"
	"github.com/dmitrymomot/sessionguard/core/config"
	"github.com/dmitrymomot/sessionguard/core/cookie"
	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/core/server"
	"github.com/dmitrymomot/sessionguard/core/session"
	"github.com/dmitrymomot/sessionguard/integration/database/pg"
	"github.com/dmitrymomot/sessionguard/integration/database/redis"
	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server exposing:

  POST /signin        exchange credentials for a session cookie
  POST /signout       clear the session cookie
  GET  /me            the signed-in user
  GET  /health/live   liveness probe
  GET  /health/ready  readiness probe (PostgreSQL, Redis)

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log, err := newLogger()
		if err != nil {
			return err
		}
		return serve(ctx, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type serveConfig struct {
	Codec     codec.Config
	Session   session.Config
	Cookie    cookie.Config
	Auth      auth.Config
	DB        pg.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config
	Server    server.Config
}

func serve(ctx context.Context, log *slog.Logger) error {
	var cfg serveConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := cfg.RateLimit.Validate(); err != nil {
		return err
	}

	c, err := codec.NewFromConfig(cfg.Codec)
	if err != nil {
		return fmt.Errorf("session codec: %w", err)
	}
	sessions := session.NewFromConfig(cfg.Session, c,
		session.WithCookieManager(cookie.NewFromConfig(cfg.Cookie)),
		session.WithLogger(log.With(logger.Component("session"))),
	)

	db, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	checks := []func(context.Context) error{pg.Healthcheck(db)}

	eg, ctx := errgroup.WithContext(ctx)

	var store ratelimiter.Store
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		checks = append(checks, redis.Healthcheck(client))
		store = ratelimiter.NewRedisStore(client)
		log.Info("rate limiter uses redis", logger.Component("ratelimiter"))
	} else {
		mem := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(log))
		eg.Go(mem.Run(ctx))
		store = mem
		log.Info("rate limiter uses process memory", logger.Component("ratelimiter"))
	}

	limiter, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		return err
	}

	authenticator := auth.NewFromConfig(cfg.Auth, query.New(db, cfg.Auth.Schema()), sessions,
		auth.WithLimiter(limiter),
		auth.WithLogger(log.With(logger.Component("auth"))),
	)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	rt := routes{
		auth:     authenticator,
		sessions: sessions,
		logger:   log,
		checks:   checks,
	}
	eg.Go(srv.Run(ctx, rt.handler()))

	if err := eg.Wait(); err != nil {
		log.Error("server failed", logger.Error(err))
		return err
	}

	log.Info("sessiond stopped")
	return nil
}
