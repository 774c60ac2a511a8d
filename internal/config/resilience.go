package config

import (
	"time"

	"bill_split/internal/retry"
)

type ResilienceConfig struct {
	SheetRead  retry.Config
	SheetWrite retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	SheetWrite: retry.Config{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
}

// InfiniteResilienceConfig retries sheet writes until the context ends.
var InfiniteResilienceConfig = ResilienceConfig{
	SheetRead: DefaultResilienceConfig.SheetRead,
	SheetWrite: retry.Config{
		BaseDelay:     1 * time.Second,
		MaxDelay:      30 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
}
