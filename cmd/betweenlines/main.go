package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/betweenlines/betweenlines/internal/analyzer"
	"github.com/betweenlines/betweenlines/internal/bot"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/llm"
	"github.com/betweenlines/betweenlines/internal/observability"
	"github.com/betweenlines/betweenlines/internal/web"
)

const (
	modeWeb = "web"
	modeBot = "bot"
)

func main() {
	mode := flag.String("mode", modeWeb, "Service mode (web, bot)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llm.New(cfg, &logger)
	core := analyzer.New(cfg, client, &logger)

	go func() {
		if err := observability.NewServer(cfg.HealthPort, &logger).Start(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	if err := runMode(ctx, cfg, core, *mode, &logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func runMode(ctx context.Context, cfg *config.Config, core *analyzer.Analyzer, mode string, logger *zerolog.Logger) error {
	switch mode {
	case modeWeb:
		return web.NewServer(cfg, core, logger).Start(ctx)
	case modeBot:
		b, err := bot.New(cfg, core, logger)
		if err != nil {
			return fmt.Errorf("initializing bot: %w", err)
		}

		return b.Run(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
