package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
)

func main() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "config file (json, yaml or toml)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("addr", ":8080", "listen address")
	flags.Bool("development", false, "human-readable logs, permissive websocket origins")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-file", "", "also write engine logs to this rotating file")
	flags.Parse(os.Args[1:])

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("unable to load env file", slog.String("path", *envFile), slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		slog.Error("unable to set up logging", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	if err := a.Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
