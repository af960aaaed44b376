package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/alarm"
	"github.com/amitgupta-mai/work-logger/internal/config"
	"github.com/amitgupta-mai/work-logger/internal/database"
	"github.com/amitgupta-mai/work-logger/internal/handler"
	"github.com/amitgupta-mai/work-logger/internal/logger"
	"github.com/amitgupta-mai/work-logger/internal/models"
	"github.com/amitgupta-mai/work-logger/internal/notify"
	"github.com/amitgupta-mai/work-logger/internal/router"
	"github.com/amitgupta-mai/work-logger/internal/scheduler"
	"github.com/amitgupta-mai/work-logger/internal/service"
	"github.com/amitgupta-mai/work-logger/internal/store"
	"github.com/amitgupta-mai/work-logger/internal/tray"

	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/local.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting work logger",
		zap.String("env", cfg.Env),
		zap.String("storage_path", cfg.StoragePath),
	)

	// Initialize database
	db, err := database.New(cfg.StoragePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Initialize state store and first-run defaults
	st := store.New(db.DB, log.Logger)
	if err := st.SeedDefaults(models.DefaultDocument()); err != nil {
		log.Fatal("Failed to seed default state", zap.Error(err))
	}

	// Initialize notifications
	var notifier notify.Notifier
	if cfg.Notifications.Desktop {
		notifier = notify.NewDesktopNotifier("Work Logger", log.Logger)
	} else {
		notifier = notify.NewLogNotifier(log.Logger)
	}

	// Initialize alarms and the scheduler
	alarms := alarm.NewManager(log.Logger)
	sched := scheduler.New(st, alarms, notifier, log.Logger)
	alarms.SetHandler(sched.HandleAlarm)

	// Re-arm alarms from persisted state before the loop starts
	if err := sched.Restore(); err != nil {
		log.Fatal("Failed to restore scheduler state", zap.Error(err))
	}
	sched.Start()

	// Initialize entry log service
	entryService := service.NewEntryService(st, log.Logger)

	// Initialize HTTP server for browser extension
	var httpServer *http.Server
	if cfg.Server.Enabled {
		commandHandler := handler.NewCommandHandler(sched, st, log.Logger)
		entryHandler := handler.NewEntryHandler(entryService, log.Logger)

		addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
		httpServer = &http.Server{
			Addr:         addr,
			Handler:      router.New(commandHandler, entryHandler, log.Logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Info("Starting API server for browser extension",
				zap.String("address", addr),
			)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("API server error", zap.Error(err))
			}
		}()
	} else {
		log.Info("API server disabled in configuration")
	}

	log.Info("Work logger started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Tray.Enabled {
		// systray needs the main goroutine; its quit item and OS
		// signals both end the process.
		t := tray.New(sched, log.Logger)
		go func() {
			sig := <-quit
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			t.Quit()
		}()
		t.Run(func() {})
	} else {
		sig := <-quit
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	log.Info("Shutting down work logger...")

	// Stop HTTP server if enabled
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Warn("API server shutdown error", zap.Error(err))
		} else {
			log.Info("API server stopped")
		}
	}

	// Stop alarms first so no new firings reach the scheduler, then the
	// scheduler itself.
	alarms.Stop()
	sched.Stop()

	log.Info("Work logger stopped")
}
