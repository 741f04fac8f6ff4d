package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// PollCounter requests tag and blocks (respecting ctx) until a
// counter-advancing frame arrives or the deadline elapses. It backs off
// with the cap the spec calls for: ~10s per sync-section position poll,
// 30s for negotiation, 2min for peer join — callers pick the cap via ctx.
func (c *Client) PollCounter(ctx context.Context, tag string) ([]byte, error) {
	b := retry.NewExponential(20 * time.Millisecond)
	b = retry.WithMaxDuration(deadlineOrDefault(ctx, 10*time.Second), b)
	b = retry.WithCappedDuration(500*time.Millisecond, b)

	var result []byte
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if _, perr := c.Pull(tag); perr != nil {
			return perr
		}
		if body, ok := c.GetWithCounter(tag); ok {
			result = body
			return nil
		}
		return retry.RetryableError(fmt.Errorf("relay: no counter-advancing frame for %s yet", tag))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PollValue requests tag and blocks (respecting ctx) until any value is
// cached for it, ignoring counter framing — used for plain last-value
// tags like BUF where there is no sequencing to validate.
func (c *Client) PollValue(ctx context.Context, tag string) ([]byte, error) {
	b := retry.NewExponential(20 * time.Millisecond)
	b = retry.WithMaxDuration(deadlineOrDefault(ctx, 30*time.Second), b)
	b = retry.WithCappedDuration(500*time.Millisecond, b)

	var result []byte
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		raw, perr := c.Pull(tag)
		if perr != nil {
			return perr
		}
		if raw == nil {
			return retry.RetryableError(fmt.Errorf("relay: no value for %s yet", tag))
		}
		result = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func deadlineOrDefault(ctx context.Context, def time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		return time.Until(dl)
	}
	return def
}
