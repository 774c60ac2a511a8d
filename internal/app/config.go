package app

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"bill_split/internal/notifications"
	"bill_split/internal/processing"
	"bill_split/internal/sheets"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolEnv parses a boolean environment variable, falling back to
// defaultValue when unset or malformed.
func GetBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return b
}

// GetDurationEnv parses a duration such as "30s" or "2m".
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

// LoadConfig reads the process configuration from the environment.
func LoadConfig() Config {
	return Config{
		Addr:            GetEnvWithDefault("ADDR", ":4000"),
		Debug:           GetBoolEnv("DEBUG", false),
		OCRLanguage:     GetEnvWithDefault("OCR_LANGUAGE", "eng"),
		CredentialsFile: GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SyncInterval:    GetDurationEnv("SYNC_INTERVAL", time.Minute),
		Sheets:          sheets.ConfigFromEnv(),
	}
}

// LoadNotificationConfig reads the NTFY_* variables.
func LoadNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:    GetBoolEnv("NTFY_ENABLED", false),
		BaseURL:    GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		Topic:      GetEnvWithDefault("NTFY_TOPIC", "bill-split"),
		Priority:   GetEnvWithDefault("NTFY_PRIORITY", "default"),
		BatchMode:  GetBoolEnv("NTFY_BATCH", true),
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// InitializeSheetsClient creates the Google Sheets client or exits.
func InitializeSheetsClient(ctx context.Context, cfg Config) *sheets.Client {
	log.Debug().Str("credentials", cfg.CredentialsFile).Msg("Initializing sheets client")

	client, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	log.Debug().Msg("Sheets client initialized successfully")
	return client
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient() *notifications.Client {
	nc := LoadNotificationConfig()

	log.Debug().
		Bool("enabled", nc.Enabled).
		Str("base_url", nc.BaseURL).
		Str("topic", nc.Topic).
		Bool("batch", nc.BatchMode).
		Msg("Initializing notification client")

	client := notifications.NewClient(nc.BaseURL, nc.Topic, nc.Enabled, nc.BatchMode, nc.Priority, nc.MaxRetries, nc.BaseDelay, nc.MaxDelay)

	if nc.Enabled {
		log.Info().Str("topic", nc.Topic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return client
}

// InitializeSheetSync wires the sheet sync loop, or returns nil when no
// spreadsheet is configured.
func InitializeSheetSync(ctx context.Context, cfg Config) *processing.SheetSync {
	if !cfg.Sheets.Enabled() {
		log.Info().Msg("SPREADSHEET_ID not set, sheet sync disabled")
		return nil
	}

	client := InitializeSheetsClient(ctx, cfg)
	return processing.NewSheetSync(client, cfg.Sheets, InitializeNotificationClient())
}
