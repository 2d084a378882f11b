package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/fnhub/internal/bot"
	"github.com/ivanoskov/fnhub/internal/config"
	"github.com/ivanoskov/fnhub/internal/logging"
	"github.com/ivanoskov/fnhub/internal/repository"
	"github.com/ivanoskov/fnhub/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fallback := logging.New(logging.Config{Component: "bot"})
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	root := logging.New(cfg.Logging(""))
	logger := logging.Component(root, "bot")

	if cfg.TelegramToken == "" {
		logger.Fatal().Msg("telegram token is not set (FNHUB_TELEGRAM_TOKEN or TELEGRAM_TOKEN)")
	}

	formatter, err := cfg.Formatter()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create formatter")
	}

	repo := repository.NewMemory()
	tracker := service.NewExpenseTracker(repo, cfg.Analyzer(logging.Component(root, "engine")))

	b, err := bot.NewBot(cfg.TelegramToken, tracker, formatter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bot stopped with error")
	}
}
