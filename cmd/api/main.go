// @title                       FIAP Cloud Games User Service
// @version                     1.0
// @description                 Player and publisher accounts, registration and bearer-token login.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fiapcloudgames/user-service/internal/api"
	"github.com/fiapcloudgames/user-service/internal/api/handler"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
	"github.com/fiapcloudgames/user-service/internal/core/service"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/config"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/db/mongo"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/db/redis"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/secrets"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/token"
	"github.com/fiapcloudgames/user-service/pkg/logger"
)

const (
	serviceName     = "user-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("user service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// Secrets are resolved once, before anything listens.
	source, err := secrets.ForMode(ctx, cfg)
	if err != nil {
		return err
	}
	sec, err := source.Resolve(ctx)
	if err != nil {
		return err
	}
	log.Info().Bool("development", cfg.IsDevelopment()).Msg("secrets resolved")

	authority, err := token.Configure(sec.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	if err != nil {
		return err
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      sec.ConnectionString,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	repo := mongo.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var (
		cache ports.UserCache
		rdb   *goredis.Client
	)
	rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, user cache disabled")
	} else {
		defer rdb.Close()
		cache = redis.NewUserCache(rdb, cfg.Redis.CacheTTL)
	}

	e := api.NewRouter(api.Deps{
		Users:  service.NewUserService(repo, cache, logger.Component("users")),
		Auth:   service.NewAuthService(repo, authority, cfg.JWT.TTL, logger.Component("auth")),
		Tokens: authority,
		Mongo:  handler.MongoPinger(client),
		Redis:  handler.RedisPinger(rdb),
		Log:    logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
