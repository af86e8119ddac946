// Command server runs the Diwan correspondence registry API.
//
// @title           Diwan Correspondence Registry API
// @version         1.0
// @description     Registry for incoming and outgoing official correspondence.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/diwanhq/diwan/docs"
	"github.com/diwanhq/diwan/internal/api"
	"github.com/diwanhq/diwan/internal/api/handler"
	"github.com/diwanhq/diwan/internal/core/ports"
	"github.com/diwanhq/diwan/internal/core/service"
	badgerstore "github.com/diwanhq/diwan/internal/infrastructure/db/badger"
	mongostore "github.com/diwanhq/diwan/internal/infrastructure/db/mongo"
	redisstore "github.com/diwanhq/diwan/internal/infrastructure/db/redis"
	"github.com/diwanhq/diwan/internal/infrastructure/session"
	"github.com/diwanhq/diwan/internal/pkg/config"
	"github.com/diwanhq/diwan/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	var (
		bookRepo ports.BookRepository
		userRepo ports.UserRepository
		checks   = make(map[string]handler.HealthCheck)
	)

	switch cfg.StorageDriver {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		books := mongostore.NewBookRepository(db)
		users := mongostore.NewUserRepository(db)
		if err := books.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure book indexes failed")
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure user indexes failed")
		}

		bookRepo, userRepo = books, users
		checks["mongodb"] = mongoCheck(client)

	case "badger":
		store, err := badgerstore.Open(cfg.Badger.Path, log)
		if err != nil {
			log.Fatal().Err(err).Msg("badger open failed")
		}
		defer func() { _ = store.Close() }()

		bookRepo = badgerstore.NewBookRepository(store)
		userRepo = badgerstore.NewUserRepository(store)
		checks["badger"] = func(context.Context) error { return store.Ping() }
	}

	var sessions ports.SessionStore
	switch cfg.SessionStore {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer func() { _ = client.Close() }()

		sessions = redisstore.NewSessionStore(client)
		checks["redis"] = redisCheck(client)

	case "memory":
		sessions = session.NewMemoryStore()
	}

	bookService := service.NewBookService(bookRepo, log)
	userService := service.NewUserService(userRepo, bookRepo, log)
	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.TokenTTL)

	if err := userService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	e := api.NewRouter(api.Dependencies{
		Books:        bookService,
		Users:        userService,
		Auth:         authService,
		Sessions:     sessions,
		JWTSecret:    cfg.JWTSecret,
		Logger:       log,
		HealthChecks: checks,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func mongoCheck(client *mongodriver.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func redisCheck(client *goredis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
