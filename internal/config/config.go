package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds the application's configuration, read from the environment.
type Config struct {
	// TelegramToken authenticates the bot against the Telegram API.
	TelegramToken string `validate:"required"`
	// PasteAPIURL is the paste-store create endpoint.
	PasteAPIURL string `validate:"required,url"`
	// LanguagesAPIURL is the paste-store language catalog endpoint.
	LanguagesAPIURL string `validate:"required,url"`
	// WebsiteURL is the public base URL paste links are built from.
	WebsiteURL string `validate:"required,url"`
	// BotToken is the X-Bot-Token value for the store API, if any.
	BotToken string
	// MinMessageLength is the minimum character count to consider a paste.
	MinMessageLength int `validate:"gt=0"`
	// PasteExpirationDays is how long created pastes live.
	PasteExpirationDays int `validate:"gt=0"`
	// RateLimitWindow is the per-actor rate-limit window in seconds.
	RateLimitWindow int `validate:"gt=0"`
	// MaxPastesPerWindow is accepted for compatibility with the store-side
	// setting; the limiter allows one trigger per actor per window.
	MaxPastesPerWindow int `validate:"gt=0"`
	// ServerPort is the listen address of the ops HTTP server.
	ServerPort string `validate:"required"`
	// Debug enables verbose logging.
	Debug bool
}

// Load reads configuration from environment variables, applying the
// documented defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		PasteAPIURL:     getenv("PASTEBINIR_API_URL", "http://localhost:8000/api/pastes/"),
		LanguagesAPIURL: getenv("LANGUAGES_API_URL", "http://localhost:8000/api/languages/"),
		WebsiteURL:      getenv("WEBSITE_URL", "http://localhost:8000"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		ServerPort:      getenv("SERVER_PORT", ":8080"),
		Debug:           strings.EqualFold(os.Getenv("DEBUG"), "true"),
	}

	var err error
	if cfg.MinMessageLength, err = getenvInt("MIN_MESSAGE_LENGTH", 200); err != nil {
		return nil, err
	}
	if cfg.PasteExpirationDays, err = getenvInt("PASTE_EXPIRATION_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getenvInt("RATE_LIMIT_WINDOW", 60); err != nil {
		return nil, err
	}
	if cfg.MaxPastesPerWindow, err = getenvInt("MAX_PASTES_PER_WINDOW", 5); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return parsed, nil
}
