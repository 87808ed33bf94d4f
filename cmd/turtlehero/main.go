package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/turtle-hero/config"
	"github.com/user/turtle-hero/internal/game"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	seed := flag.Int64("seed", 0, "Random seed (overrides config when non-zero)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	// Set up logger
	logger, err := setupLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	manager, err := game.NewManager(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize game", zap.Error(err))
	}
	logger.Info("Game initialized",
		zap.String("save_path", cfg.SavePath()),
		zap.Strings("scenarios", manager.Scenarios()))

	shell := NewShell(manager, os.Stdin, os.Stdout, logger)
	if err := shell.Run(); err != nil {
		logger.Error("Shell stopped", zap.Error(err))
	}
}

func setupLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	}
	return zcfg.Build()
}
