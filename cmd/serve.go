package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/config"
	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/repository"
	"github.com/kusitms-com/meetupd/internal/server"
	"github.com/kusitms-com/meetupd/internal/services/account"
	"github.com/kusitms-com/meetupd/internal/services/contest"
	"github.com/kusitms-com/meetupd/internal/services/team"
	"github.com/kusitms-com/meetupd/internal/services/user"
	"github.com/kusitms-com/meetupd/internal/tokenstore"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the meetupd API server",
	Long:  `Starts the HTTP server with the REST API and, when configured, a separate Prometheus listener.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.WithMaxConns(cfg.MaxDBConnections))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)
		logger.Info("connected to database", "type", bunx.DetectDatabaseType(cfg.DatabaseURL))

		store, closeStore, err := newTokenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		provider, err := auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.Issuer,
			cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
		if err != nil {
			return fmt.Errorf("configure token provider: %w", err)
		}
		allowlist, err := auth.NewAllowlist(cfg.Auth.AllowlistPatterns()...)
		if err != nil {
			return fmt.Errorf("configure allowlist: %w", err)
		}
		gate := auth.NewGate(allowlist, provider,
			auth.WithMissingCredentialCode(cfg.Auth.MissingCredentialCode()))

		// Repositories
		userRepo := repository.NewBunUserRepository(db)
		contestRepo := repository.NewBunContestRepository(db)
		teamRepo := repository.NewBunTeamRepository(db)
		teamUserRepo := repository.NewBunTeamUserRepository(db)

		policy, err := team.NewPolicy()
		if err != nil {
			return fmt.Errorf("configure team policy: %w", err)
		}

		corsOpts := server.DefaultCORSOptions(cfg.CORS.AllowedOrigins...)
		r := server.NewRouter(server.RouterOptions{
			Accounts:    account.NewService(userRepo, provider, store),
			Users:       user.NewService(userRepo),
			Teams:       team.NewService(teamRepo, teamUserRepo, userRepo, contestRepo, policy),
			Contests:    contest.NewService(contestRepo),
			Gate:        gate,
			Logger:      logger,
			CORSOptions: &corsOpts,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      h2c.NewHandler(r, &http2.Server{}),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 2)
		go func() {
			logger.Info("starting server", "addr", cfg.ServerAddr, "public_paths", len(allowlist.Patterns()))
			serverErrors <- srv.ListenAndServe()
		}()

		var metricsSrv *http.Server
		if cfg.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			metricsSrv = &http.Server{
				Addr:              cfg.MetricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				logger.Info("starting metrics listener", "addr", cfg.MetricsAddr)
				serverErrors <- metricsSrv.ListenAndServe()
			}()
		}

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down gracefully", "signal", sig.String())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if metricsSrv != nil {
				if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
					logger.Warn("metrics listener shutdown failed", "error", err)
				}
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

// newTokenStore returns the Redis store when redis.url is set and the
// in-process store otherwise, with a matching close function.
func newTokenStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Warn("redis.url not set, refresh tokens are kept in memory and lost on restart")
		return tokenstore.NewMemoryStore(cfg.Redis.MemoryCapacity, cfg.Auth.RefreshTokenTTL), func() {}, nil
	}

	client, err := tokenstore.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	return tokenstore.NewRedisStore(client), closeFn, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
