package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/smartboard-dev/smartboard/db"
	"github.com/smartboard-dev/smartboard/internal/auth"
	"github.com/smartboard-dev/smartboard/internal/config"
	"github.com/smartboard-dev/smartboard/internal/handlers"
	"github.com/smartboard-dev/smartboard/internal/logger"
	"github.com/smartboard-dev/smartboard/internal/models"
	"github.com/smartboard-dev/smartboard/internal/refresher"
	"github.com/smartboard-dev/smartboard/internal/router"
	"github.com/smartboard-dev/smartboard/internal/store"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)

	if err := auth.Init(cfg.JWTSecret); err != nil {
		logger.Log.Fatalf("Failed to initialize auth: %v", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Log.WithError(err).Warn("Failed to close database")
		}
	}()

	if err := db.Migrate(gdb); err != nil {
		logger.Log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.Seed(gdb, cfg.SeedAdminUser, cfg.SeedAdminPass); err != nil {
		logger.Log.Fatalf("Failed to seed database: %v", err)
	}

	notices := store.NewNoticeStore(gdb)
	users := store.NewUserStore(gdb)

	hub := handlers.NewBoardHub(cfg.AllowedOrigins)

	board := refresher.New(notices.ListAll, cfg.RefreshInterval, func(_ []models.Notice) {
		hub.BroadcastRefresh()
	})

	logger.Log.WithField("port", cfg.Port).Info("Starting SmartBoard")

	r := router.New(router.Deps{
		DB:             gdb,
		Notices:        notices,
		Users:          users,
		Board:          board,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		CookieDomain:   cfg.CookieDomain,
	})

	board.Start()
	defer board.Stop()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down")
		board.Stop()
		_ = db.Close(gdb)
		os.Exit(0)
	}()

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
