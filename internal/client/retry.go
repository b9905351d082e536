package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

const defaultRetryBaseDelay = 100 * time.Millisecond

// RetryPolicy controls retries of GET requests. Only temporary failures are
// retried: NetworkUnreachable errors and 429, 502, 503 and 504 responses.
// The zero value disables retries.
type RetryPolicy struct {
	MaxRetries    uint64
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	JitterPercent uint64
}

func (p RetryPolicy) enabled() bool {
	return p.MaxRetries > 0
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	if p.JitterPercent > 0 {
		b = retry.WithJitterPercent(p.JitterPercent, b)
	}
	return retry.WithMaxRetries(p.MaxRetries, b)
}

// do runs send until it succeeds, fails permanently or the retries run out.
// The error returned is the last attempt's.
func (p RetryPolicy) do(ctx context.Context, logger *slog.Logger, send func(ctx context.Context, attempt int) error) error {
	attempt := 0
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := send(ctx, attempt)

		var ce *ClientError
		if errors.As(err, &ce) && ce.Temporary() {
			logger.LogAttrs(ctx, slog.LevelWarn, "temporary api failure",
				slog.Int("attempt", attempt),
				slog.Int("status", ce.StatusCode),
				slog.String("error", ce.LogMessage),
			)
			return retry.RetryableError(err)
		}
		return err
	})

	// return the attempt's own error rather than the retry wrapper
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}
	return err
}
