package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"bill_split/internal/split"

	"github.com/rs/zerolog/log"
)

const (
	circuitThreshold = 5
	circuitCooldown  = 30 * time.Second
	maxSharesShown   = 10
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	batchMode  bool
	priority   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	// Circuit breaker state
	failures    int
	lastFailure time.Time
	circuitOpen bool
	mutex       sync.Mutex
	// Metrics
	totalSent    int64
	totalFailed  int64
	totalRetries int64
}

type NotificationError struct {
	Type       string
	StatusCode int
	Attempt    int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s] attempt %d: %v", e.Type, e.Attempt, e.Underlying)
}

func (e *NotificationError) Unwrap() error {
	return e.Underlying
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "timeout", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled, batchMode bool, priority string, maxRetries int, baseDelay, maxDelay time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		topic:      topic,
		enabled:    enabled,
		batchMode:  batchMode,
		priority:   priority,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
	}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

func (c *Client) SendNotification(ctx context.Context, title, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	if c.isCircuitOpen() {
		log.Warn().Msg("Circuit breaker open, skipping notification")
		return &NotificationError{
			Type:       "circuit_open",
			Underlying: errors.New("circuit breaker is open"),
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying notification after delay")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			c.incrementRetries()
		}

		err := c.sendSingleNotification(ctx, title, message, attempt+1)
		if err == nil {
			c.recordSuccess()
			return nil
		}

		lastErr = err

		var notifErr *NotificationError
		if errors.As(err, &notifErr) && !notifErr.IsRetryable() {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("Non-retryable error, giving up")
			c.recordFailure()
			return err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("Notification attempt failed")
	}

	c.recordFailure()
	return &NotificationError{
		Type:       "max_retries_exceeded",
		Attempt:    c.maxRetries + 1,
		Underlying: lastErr,
	}
}

func (c *Client) sendSingleNotification(ctx context.Context, title, message string, attempt int) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("title", title).
		Int("attempt", attempt).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{
			Type:       "client",
			Attempt:    attempt,
			Underlying: err,
		}
	}

	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{
			Type:       "network",
			Attempt:    attempt,
			Underlying: err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("attempt", attempt).
		Msg("Notification sent successfully")

	return nil
}

// SendNotificationAsync sends in the background. The send outlives ctx's
// cancellation, so a notification started from a request handler still goes
// out after the response; the HTTP client timeout bounds it.
func (c *Client) SendNotificationAsync(ctx context.Context, title, message string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := c.SendNotification(ctx, title, message); err != nil {
			log.Warn().Err(err).Msg("Async notification failed")
		}
	}()
}

// NotifyTotals announces a new split result. In batch mode all shares go out
// in one message, otherwise each person gets their own.
func (c *Client) NotifyTotals(ctx context.Context, totals split.Totals) {
	if !c.enabled {
		return
	}

	shares := totals.Shares()
	if len(shares) == 0 {
		log.Debug().Msg("No shares to notify about")
		return
	}

	if c.batchMode {
		log.Info().
			Int("people", len(shares)).
			Msg("Sending batch notification for new totals")
		c.SendNotificationAsync(ctx, "Bill split updated", FormatBatchMessage(totals))
		return
	}

	log.Info().
		Int("people", len(shares)).
		Msg("Sending individual notifications for new totals")
	for i, s := range shares {
		c.SendNotificationAsync(ctx, fmt.Sprintf("Bill split (%d/%d)", i+1, len(shares)), formatShare(s))
	}
}

// FormatBatchMessage lists what everyone owes, one line per person, followed
// by the allocated sum.
func FormatBatchMessage(totals split.Totals) string {
	var sb strings.Builder

	shares := totals.Shares()
	shown := min(len(shares), maxSharesShown)
	for _, s := range shares[:shown] {
		sb.WriteString("• ")
		sb.WriteString(formatShare(s))
		sb.WriteString("\n")
	}
	if len(shares) > shown {
		sb.WriteString(fmt.Sprintf("... and %d more people\n", len(shares)-shown))
	}
	sb.WriteString(fmt.Sprintf("Total allocated: %s", split.FormatAmount(totals.Sum())))

	return sb.String()
}

func formatShare(s split.Share) string {
	return fmt.Sprintf("%s owes %s", s.Name, s.Formatted())
}

// Circuit breaker and retry helper methods

func (c *Client) isCircuitOpen() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.circuitOpen {
		return false
	}

	if time.Since(c.lastFailure) > circuitCooldown {
		c.circuitOpen = false
		c.failures = 0
		log.Info().Msg("Circuit breaker moving to half-open state")
	}

	return c.circuitOpen
}

func (c *Client) recordSuccess() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalSent++
	c.failures = 0
	if c.circuitOpen {
		c.circuitOpen = false
		log.Info().Msg("Circuit breaker closed after successful notification")
	}
}

func (c *Client) recordFailure() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalFailed++
	c.failures++
	c.lastFailure = time.Now()

	if c.failures >= circuitThreshold && !c.circuitOpen {
		c.circuitOpen = true
		log.Warn().
			Int("failures", c.failures).
			Msg("Circuit breaker opened due to consecutive failures")
	}
}

func (c *Client) incrementRetries() {
	c.mutex.Lock()
	c.totalRetries++
	c.mutex.Unlock()
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	base := float64(c.baseDelay)
	backoff := base * math.Pow(2, float64(attempt-1))

	// ±25% jitter
	jitter := rand.Float64()*0.5 - 0.25
	backoff = backoff * (1 + jitter)

	maxBackoff := float64(c.maxDelay)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return time.Duration(backoff)
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return "auth"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

// GetMetrics returns current notification metrics
func (c *Client) GetMetrics() (sent, failed, retries int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalSent, c.totalFailed, c.totalRetries
}
