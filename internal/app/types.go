package app

import (
	"time"

	"bill_split/internal/sheets"
)

// Config is the process configuration read from the environment.
type Config struct {
	Addr            string
	Debug           bool
	OCRLanguage     string
	CredentialsFile string
	SyncInterval    time.Duration
	Sheets          sheets.Config
}

// NotificationConfig configures the ntfy client.
type NotificationConfig struct {
	Enabled    bool
	BaseURL    string
	Topic      string
	Priority   string
	BatchMode  bool
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}
