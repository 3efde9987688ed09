package main

import (
	"log/slog"
	"os"
	"strings"

	"cultural-map/internal/app"
	"cultural-map/internal/logger"
)

func main() {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logger.NewConsoleHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
