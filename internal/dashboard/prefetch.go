package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/positions"
	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

const (
	defaultPrefetchTries    = 3
	defaultPrefetchInterval = 250 * time.Millisecond
)

type prefetchOptions struct {
	maxTries uint
	interval time.Duration
}

// PrefetchOption tunes the seed pre-fetch retry policy
type PrefetchOption func(*prefetchOptions)

// WithMaxTries bounds the number of attempts
func WithMaxTries(n uint) PrefetchOption {
	return func(o *prefetchOptions) {
		if n > 0 {
			o.maxTries = n
		}
	}
}

// WithRetryInterval sets the initial backoff interval
func WithRetryInterval(d time.Duration) PrefetchOption {
	return func(o *prefetchOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Prefetch loads the positions used to seed the first enable. It is best effort:
// on failure it logs and reports ok == false, and the controller then loads normally.
func Prefetch(ctx context.Context, fetch query.FetchFunc[[]domain.Position], logger *zap.Logger, opts ...PrefetchOption) ([]domain.Position, bool) {
	o := prefetchOptions{maxTries: defaultPrefetchTries, interval: defaultPrefetchInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("prefetch")

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.interval
	policy.MaxInterval = o.interval * 10

	notify := func(err error, d time.Duration) {
		logger.Info("Retrying seed pre-fetch", zap.Error(err), zap.Duration("backoff", d))
	}

	operation := func() ([]domain.Position, error) {
		data, err := fetch(ctx)
		if err == nil {
			return data, nil
		}

		var respErr *positions.ResponseError
		if errors.As(err, &respErr) && !respErr.Temporary() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	start := time.Now()
	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(o.maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		logger.Warn("Seed pre-fetch failed, starting without initial data", zap.Error(err))
		return nil, false
	}

	logger.Info("Seed pre-fetched",
		zap.Int("positions", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return data, true
}
