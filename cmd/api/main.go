package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valyala/fasthttp"

	"digital-banking/internal/cache"
	"digital-banking/internal/config"
	"digital-banking/internal/repository"
	"digital-banking/internal/repository/memory"
	"digital-banking/internal/server"
	"digital-banking/internal/services"
	"digital-banking/internal/utils"
	"digital-banking/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Logger().Fatalf("configuration: %v", err)
	}
	if err := utils.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		utils.Logger().Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	authService := services.NewAuthService(store.Users(), cfg.JWTSecret, cfg.JWTExpiration)
	if err := authService.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, services.RoleUser, services.RoleAdmin); err != nil {
		utils.Logger().Fatalf("bootstrap admin: %v", err)
	}
	if err := authService.EnsureUser(ctx, cfg.UserUsername, cfg.UserPassword, services.RoleUser); err != nil {
		utils.Logger().Fatalf("bootstrap user: %v", err)
	}

	accountService := services.NewAccountService(store)

	var workerPool *worker.WorkerPool
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr)
		if err := redisCache.Ping(ctx); err != nil {
			utils.LogWarning("Main", "redis at %s unavailable, running without cache: %v", cfg.RedisAddr, err)
			_ = redisCache.Close()
		} else {
			defer redisCache.Close()
			accountService = services.NewAccountServiceWithCache(store, redisCache)

			workerPool = worker.NewWorkerPool(cfg.Workers, cfg.QueueSize, cfg.MaxRetries)
			workerPool.Start()
			accountService.SetWorkerPool(workerPool)
			utils.LogSuccess("Main", "account cache enabled (%s)", cfg.RedisAddr)
		}
	}

	httpServer := &fasthttp.Server{
		Handler:      server.NewRouter(accountService, authService).Handler,
		Name:         "digital-banking",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		utils.LogSuccess("Main", "listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(cfg.HTTPAddr); err != nil {
			utils.Logger().Fatalf("server failed: %v", err)
		}
	}()

	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChannel

	utils.LogInfo("Main", "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.ShutdownWithContext(shutdownCtx); err != nil {
		utils.LogError("Main", "server forced to shutdown", err)
	}
	if workerPool != nil {
		if err := workerPool.Shutdown(cfg.ShutdownTimeout); err != nil {
			utils.LogError("Main", "worker pool shutdown", err)
		}
	}
	utils.LogInfo("Main", "server stopped")
}

// openStore returns the configured store and its cleanup.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func()) {
	if cfg.Storage == config.StorageMemory {
		utils.LogWarning("Main", "using in-memory storage, data is lost on exit")
		return memory.NewStore(), func() {}
	}

	if cfg.RunMigrations {
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			utils.Logger().Fatalf("migrations: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		utils.Logger().Fatalf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		utils.Logger().Fatalf("database unreachable: %v", err)
	}
	utils.LogSuccess("Main", "connected to PostgreSQL")

	return repository.NewPostgresStore(pool), pool.Close
}
