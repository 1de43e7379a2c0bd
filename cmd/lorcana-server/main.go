package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inkwellgames/lorcana-engine-go/internal/config"
	"github.com/inkwellgames/lorcana-engine-go/internal/game"
	"github.com/inkwellgames/lorcana-engine-go/internal/game/cards"
	"github.com/inkwellgames/lorcana-engine-go/internal/server"
)

var configPath = flag.String("config", "config/config.yaml", "path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := cards.Load(cfg.Cards.Path)
	if err != nil {
		logger.Fatal("failed to load card database",
			zap.String("path", cfg.Cards.Path),
			zap.Error(err),
		)
	}
	logger.Info("card database loaded",
		zap.String("path", cfg.Cards.Path),
		zap.Int("cards", db.Len()),
	)

	engine := game.NewEngine(logger, db)
	recorder := game.NewReplayRecorder(logger, cfg.Replay.Directory)
	srv := server.New(logger, engine, recorder)

	logger.Info("starting lorcana server", zap.String("address", cfg.Server.Address))
	if err := http.ListenAndServe(cfg.Server.Address, srv.Router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
