package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cloudvorkala/SPEED/config"
	"github.com/cloudvorkala/SPEED/logging"
	"github.com/cloudvorkala/SPEED/repositories"
	"github.com/cloudvorkala/SPEED/routes"
	"github.com/cloudvorkala/SPEED/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	rdb, err := config.InitRedis(cfg.Redis)
	if err != nil {
		logger.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if rdb == nil {
		logger.Warn("REDIS_URL not set, logout will not revoke tokens")
	} else {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("redis ping failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
	}

	seeder := services.NewSeeder(
		repositories.NewUserRepository(db),
		repositories.NewArticleRepository(db),
		repositories.NewPracticeRepository(db),
		repositories.NewClaimRepository(db),
		logger,
	)
	if err := seeder.Seed(cfg.Seed); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.New(cfg, db, rdb, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
