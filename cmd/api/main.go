package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberbook/internal/config"
	"barberbook/internal/database"
	"barberbook/internal/middleware"
	"barberbook/internal/modules/notification"
	"barberbook/internal/pkg/logger"
	"barberbook/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxLifetime:  30 * time.Minute,
		Log:          log,
	})
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("closing database")
		}
	}()

	if cfg.DBAutoMigrate {
		log.Info("running AutoMigrate")
		if err := database.AutoMigrate(db); err != nil {
			log.WithError(err).Fatal("AutoMigrate failed")
		}
	}

	hub := notification.NewHub()
	defer hub.Close()

	limiter := middleware.NewRateLimiter(5, 20)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	router := server.NewRouter(server.Deps{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Hub:     hub,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("barberbook API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
