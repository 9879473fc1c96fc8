package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/config"
	"github.com/vbonduro/homestash/internal/db"
	"github.com/vbonduro/homestash/internal/logging"
	"github.com/vbonduro/homestash/internal/photostore/local"
	"github.com/vbonduro/homestash/internal/service"
	"github.com/vbonduro/homestash/internal/store"
	"github.com/vbonduro/homestash/internal/vision"
	"github.com/vbonduro/homestash/internal/vision/claude"
	"github.com/vbonduro/homestash/internal/vision/ollama"
	"github.com/vbonduro/homestash/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer cleanup()

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	dashboards := store.NewDashboardStore(database)
	rooms := store.NewRoomStore(database)
	locations := store.NewLocationStore(database)
	items := store.NewItemStore(database)
	users := store.NewUserStore(database)

	authSvc := auth.NewService(users, []byte(cfg.JWTSecret), cfg.TokenTTL)
	inventory := service.NewInventory(dashboards, rooms, locations, items, logger)

	photoFiles, err := local.New(cfg.PhotoPath)
	if err != nil {
		return fmt.Errorf("failed to set up photo storage: %w", err)
	}

	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	photos := service.NewPhotos(locations, photoFiles, analyzer, logger)

	server := web.NewServer(inventory, photos, authSvc, logger)
	return server.ListenAndServe(cfg.ListenAddr)
}

func newAnalyzer(cfg *config.Config, logger *slog.Logger) (vision.Analyzer, error) {
	switch cfg.VisionBackend {
	case "none", "":
		logger.Info("photo analysis disabled")
		return nil, nil
	case "ollama":
		logger.Info("using ollama for photo analysis", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.NewAnalyzer(cfg.OllamaHost, cfg.OllamaModel), nil
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY must be set when VISION_BACKEND=claude")
		}
		logger.Info("using claude for photo analysis", "model", cfg.ClaudeModel)
		return claude.NewAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	default:
		return nil, fmt.Errorf("unknown vision backend %q", cfg.VisionBackend)
	}
}
