package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/loja/internal/actionlog"
	"github.com/rogerio-castellano/loja/internal/auth"
	"github.com/rogerio-castellano/loja/internal/config"
	"github.com/rogerio-castellano/loja/internal/db"
	api "github.com/rogerio-castellano/loja/internal/http"
	"github.com/rogerio-castellano/loja/internal/logging"
	"github.com/rogerio-castellano/loja/internal/redissvc"
	"github.com/rogerio-castellano/loja/internal/repo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{Config: cfg, Logger: logger}

	var database *sql.DB
	if cfg.Database.URL != "" {
		database, err = db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("could not connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		deps.Produtos = repo.NewPostgresProdutoRepository(database)
		deps.Users = repo.NewPostgresUserRepository(database)
	} else {
		logger.Warn("database.url not set, using in-memory storage")
		deps.Produtos = repo.NewInMemoryProdutoRepository()
		deps.Users = repo.NewInMemoryUserRepository()
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redissvc.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Error("could not connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		deps.History = actionlog.NewRedisLog(rdb)
	}

	if cfg.Admin.Username != "" {
		created, err := auth.EnsureStaffUser(deps.Users, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			logger.Error("could not create admin user", "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("admin user created", "username", cfg.Admin.Username)
		}
	}

	site, err := api.NewRouter(deps)
	if err != nil {
		logger.Error("could not build router", "error", err)
		os.Exit(1)
	}
	go site.Limiter.Cleanup(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      site.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server running", "addr", cfg.Server.Addr, "debug", cfg.Debug)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-idle
	logger.Info("server stopped")
}
