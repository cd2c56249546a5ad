package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ace-TI85/dev-connector/internal/api"
	"github.com/ace-TI85/dev-connector/internal/api/handlers"
	"github.com/ace-TI85/dev-connector/internal/cache"
	"github.com/ace-TI85/dev-connector/internal/github"
	"github.com/ace-TI85/dev-connector/internal/repository"
	"github.com/ace-TI85/dev-connector/internal/services"
	"github.com/ace-TI85/dev-connector/internal/token"
	"github.com/ace-TI85/dev-connector/pkg/config"
	"github.com/ace-TI85/dev-connector/pkg/database"
	"github.com/ace-TI85/dev-connector/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting dev-connector api",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Redis backs the feed cache and the cleanup queue; both degrade to
	// disabled when no address is configured.
	var feed *cache.FeedCache
	var queue *asynq.Client
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		feed = cache.New(rdb, 30*time.Second)
		queue = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer queue.Close()
	} else {
		log.Warn("REDIS_ADDR not set, feed cache and account cleanup disabled")
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)

	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	authSvc := services.NewAuthService(userRepo, profileRepo, tokens, queue)
	profileSvc := services.NewProfileService(profileRepo, feed)
	postSvc := services.NewPostService(postRepo, userRepo, feed)

	router := api.NewRouter(api.Dependencies{
		Tokens:          tokens,
		AuthHandler:     handlers.NewAuthHandler(authSvc),
		ProfilesHandler: handlers.NewProfilesHandler(profileSvc, github.NewClient(cfg.GithubClientID, cfg.GithubSecret)),
		PostsHandler:    handlers.NewPostsHandler(postSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
