package retry

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig configures retry behavior with exponential backoff
type RetryConfig struct {
	MaxRetries int           `json:"max_retries"` // retries after the first attempt
	BaseDelay  time.Duration `json:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay"`
	Multiplier float64       `json:"multiplier"`
	Jitter     bool          `json:"jitter"` // +/-10% random jitter
	LogRetries bool          `json:"log_retries"`

	// Retryable decides whether a failed attempt is worth repeating.
	// Nil retries every error.
	Retryable func(error) bool `json:"-"`
}

// RetryResult contains information about the retry operation
type RetryResult struct {
	Attempts      int           `json:"attempts"`
	TotalDuration time.Duration `json:"total_duration"`
	LastError     error         `json:"-"`
	Success       bool          `json:"success"`
	RetryReasons  []string      `json:"retry_reasons"`
}

// DefaultRetryConfig returns a retry configuration with sensible defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
		LogRetries: true,
	}
}

// LLMRetryConfig returns a retry configuration for inference requests. Only
// transient failures are retried.
func LLMRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.5,
		Jitter:     true,
		LogRetries: true,
		Retryable:  IsRetryableError,
	}
}

// RetryWithBackoff executes an operation with exponential backoff retry logic.
// A nil logger disables logging.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation func() error, logger *zerolog.Logger) RetryResult {
	return RetryWithBackoffAndReason(ctx, config, func() (string, error) {
		err := operation()
		if err != nil {
			return err.Error(), err
		}
		return "", nil
	}, logger)
}

// RetryWithBackoffAndReason is RetryWithBackoff with a caller-supplied reason
// recorded for each failed attempt.
func RetryWithBackoffAndReason(ctx context.Context, config RetryConfig, operation func() (string, error), logger *zerolog.Logger) RetryResult {
	startTime := time.Now()
	result := RetryResult{RetryReasons: make([]string, 0)}

	logf := func(level zerolog.Level, format string, args ...interface{}) {
		if config.LogRetries && logger != nil {
			logger.WithLevel(level).Msgf(format, args...)
		}
	}
	finish := func() RetryResult {
		result.TotalDuration = time.Since(startTime)
		return result
	}

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1
		if attempt > 0 {
			logf(zerolog.DebugLevel, "retrying operation (attempt %d/%d)", attempt+1, config.MaxRetries+1)
		}

		reason, err := operation()
		if err == nil {
			result.Success = true
			result.LastError = nil
			if attempt > 0 {
				logf(zerolog.InfoLevel, "operation succeeded after %d retries", attempt)
			}
			return finish()
		}

		result.LastError = err
		result.RetryReasons = append(result.RetryReasons, reason)

		if config.Retryable != nil && !config.Retryable(err) {
			logf(zerolog.WarnLevel, "operation failed with non-retryable error: %v", err)
			return finish()
		}
		if attempt >= config.MaxRetries {
			logf(zerolog.WarnLevel, "operation failed after %d attempts: %v", result.Attempts, err)
			return finish()
		}
		if ctx.Err() != nil {
			result.LastError = ctx.Err()
			return finish()
		}

		delay := calculateDelay(config, attempt)
		logf(zerolog.DebugLevel, "attempt %d/%d failed: %v; waiting %v", attempt+1, config.MaxRetries+1, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			result.LastError = ctx.Err()
			logf(zerolog.WarnLevel, "operation cancelled during backoff: %v", ctx.Err())
			return finish()
		case <-timer.C:
		}
	}

	return finish()
}

// calculateDelay returns baseDelay * multiplier^attempt, capped at MaxDelay.
func calculateDelay(config RetryConfig, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	if config.Jitter {
		jitterRange := delay * 0.1
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
		if delay < 0 {
			delay = float64(config.BaseDelay)
		}
	}

	return time.Duration(delay)
}

var retryableErrors = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"429",
	"500",
	"502",
	"503",
	"504",
	"overloaded",
	"dns lookup failed",
	"no such host",
	"network unreachable",
	"broken pipe",
	"context deadline exceeded",
	"eof",
}

// IsRetryableError reports whether err looks like a transient network or
// provider failure.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, retryable := range retryableErrors {
		if strings.Contains(msg, retryable) {
			return true
		}
	}
	return false
}
