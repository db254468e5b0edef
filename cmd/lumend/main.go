// The lumend command implements the Lumen Signage player daemon
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/analytics"
	"github.com/lumen-signage/lumen-player/internal/lumend/config"
	"github.com/lumen-signage/lumen-player/internal/lumend/engine"
	"github.com/lumen-signage/lumen-player/internal/lumend/manifest"
	"github.com/lumen-signage/lumen-player/internal/lumend/render"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
	"github.com/lumen-signage/lumen-player/internal/lumend/status"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Initialize structured logging with JSON format for easier parsing
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			logger.Error("failed to load config file", "error", err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
	}

	// Resolve the zone that interprets manifest times without zones of
	// their own
	defaultLoc := time.Local
	if cfg.Player.DefaultTimeZone != "" {
		defaultLoc, err = time.LoadLocation(cfg.Player.DefaultTimeZone)
		if err != nil {
			logger.Error("failed to load default time zone", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event hub feeding the status API's websocket stream
	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	hub := status.NewHub(zlog)
	go hub.Run(ctx)

	// Playback span journal for the local API
	journal := analytics.NewJournal(256)

	// Canvas loops with headless renderers; a platform renderer factory
	// slots in here when one is available
	manager := engine.NewManager(engine.ManagerOptions{
		Factory:   render.NewHeadlessFactory(logger),
		Recorder:  journal,
		Publisher: hub,
		Logger:    logger,
		Rotation: schedule.RotationConfig{
			Floor:        cfg.Player.RotationFloor,
			DefaultSlot:  cfg.Player.DefaultSlot,
			MaxSlot:      cfg.Player.MaxSlot,
			EmptyRecheck: cfg.Player.EmptyRecheck,
		},
		ReadyTimeout: cfg.Player.ReadyTimeout,
	})
	defer manager.Close()

	for _, canvas := range cfg.Canvases {
		manager.EnsureCanvas(canvas.ID, v1alpha1.Rect{
			X:      canvas.X,
			Y:      canvas.Y,
			Width:  canvas.Width,
			Height: canvas.Height,
		})
	}

	// Manifest source: load once now, then follow file changes
	normalizer := schedule.NewNormalizer(defaultLoc, logger)
	source := manifest.NewSource(manifest.Options{
		Path:     cfg.Manifest.Path,
		Debounce: cfg.Manifest.Debounce,
		Logger:   logger,
	}, normalizer, manager)

	if count, err := source.Load(); err != nil {
		// Starting without a manifest is fine; the canvases stay black
		// until one appears
		logger.Warn("initial manifest load failed, starting black", "error", err)
	} else {
		logger.Info("manifest loaded", "items", count)
	}

	if cfg.Manifest.Watch {
		go func() {
			if err := source.Watch(ctx.Done()); err != nil {
				logger.Error("manifest watcher stopped", "error", err)
			}
		}()
	}

	// Local status API
	handler := status.NewHandler(manager, journal, source, hub, version, zlog)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Status.Host, cfg.Status.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Status.ReadTimeout,
		WriteTimeout: cfg.Status.WriteTimeout,
		IdleTimeout:  cfg.Status.IdleTimeout,
	}

	go func() {
		logger.Info("starting status server",
			"host", cfg.Status.Host,
			"port", cfg.Status.Port,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status server error", "error", err)
			os.Exit(1)
		}
	}()

	// Set up graceful shutdown on interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	<-shutdown
	logger.Info("shutting down player...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("status server shutdown error", "error", err)
	}

	cancel()
	manager.Close()

	logger.Info("player stopped")
}
