package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pastebot/internal/classifier"
	"pastebot/internal/config"
	"pastebot/internal/langdetect"
	"pastebot/internal/pastestore"
	"pastebot/internal/processor"
	"pastebot/internal/ratelimit"
	"pastebot/internal/server"
	"pastebot/internal/telegram_bot"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	logConfiguration(logger, cfg)

	// Compile the language catalog
	catalog, err := langdetect.DefaultCatalog()
	if err != nil {
		logger.Fatal("Failed to load language catalog", zap.Error(err))
	}
	detector := langdetect.NewDetector(catalog)
	decider := classifier.NewDecider(cfg.MinMessageLength, detector)

	// Rate limiter for paste triggers
	limiter := ratelimit.NewLimiter(time.Duration(cfg.RateLimitWindow) * time.Second)

	// Paste store client
	store := pastestore.NewClient(cfg.PasteAPIURL, cfg.LanguagesAPIURL, cfg.WebsiteURL, cfg.BotToken, cfg.PasteExpirationDays, logger)

	// Telegram bot acts as the chat gateway for the pipeline
	bot, err := telegram_bot.NewBot(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram bot", zap.Error(err))
	}

	proc := processor.NewProcessor(decider, detector, limiter, store, bot, logger)
	bot.SetProcessor(proc)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run Telegram bot in a goroutine
	go func() {
		if err := bot.Start(ctx); err != nil {
			logger.Error("Telegram bot failed", zap.Error(err))
		}
	}()

	// Run the ops HTTP server in a goroutine
	srv := server.NewServer(cfg, decider, detector, logger)
	go srv.Run(cfg.ServerPort)

	<-ctx.Done()
	logger.Info("Application stopped.")
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err) // Should not happen
	}
	return logger
}

// logConfiguration prints the startup banner with secrets redacted.
func logConfiguration(logger *zap.Logger, cfg *config.Config) {
	logger.Info("=== Bot Configuration ===")
	logger.Info("Configuration",
		zap.String("paste_api_url", cfg.PasteAPIURL),
		zap.String("languages_api_url", cfg.LanguagesAPIURL),
		zap.String("website_url", cfg.WebsiteURL),
		zap.Int("min_message_length", cfg.MinMessageLength),
		zap.Int("paste_expiration_days", cfg.PasteExpirationDays),
		zap.Int("rate_limit_window", cfg.RateLimitWindow),
		zap.Int("max_pastes_per_window", cfg.MaxPastesPerWindow),
		zap.Bool("debug", cfg.Debug),
		zap.String("bot_token", redact(cfg.BotToken)),
	)
}

func redact(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 10 {
		return token[:1] + "..."
	}
	return token[:10] + "..."
}
