package aws

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/aws/smithy-go"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// API error codes worth another attempt
var retryableCodes = []string{
	"RequestLimitExceeded",
	"Throttling",
	"ThrottlingException",
	"TooManyRequestsException",
	"ServiceUnavailable",
	"Unavailable",
	"InternalError",
	"InternalFailure",
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     defaultMaxRetries,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
	}
}

// WithRetry executes fn with exponential backoff retry
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var result T
	var err error

	backoff := cfg.InitialBackoff
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !isRetryableError(err) {
			return result, err
		}

		if attempt < cfg.MaxRetries {
			var jitter time.Duration
			if backoff > 1 {
				if n, err := rand.Int(rand.Reader, big.NewInt(int64(backoff/2))); err == nil {
					jitter = time.Duration(n.Int64())
				}
			}
			sleepDuration := backoff + jitter
			if sleepDuration > cfg.MaxBackoff {
				sleepDuration = cfg.MaxBackoff
			}

			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(sleepDuration):
			}

			backoff *= 2
		}
	}
	return result, err
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(retryableCodes, apiErr.ErrorCode())
	}

	// transport errors carry no code
	errStr := err.Error()
	for _, r := range retryableCodes {
		if strings.Contains(errStr, r) {
			return true
		}
	}
	return strings.Contains(errStr, "connection reset") || strings.Contains(errStr, "timeout")
}

// hasErrorCode reports whether err is an AWS API error with one of codes.
func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return slices.Contains(codes, apiErr.ErrorCode())
}
