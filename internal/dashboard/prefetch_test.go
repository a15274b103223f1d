package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/positions"
)

func TestPrefetch(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantOK    bool
		wantCalls int32
	}{
		{
			name:      "first attempt",
			wantOK:    true,
			wantCalls: 1,
		},
		{
			name:      "recovers after transient errors",
			errs:      []error{errors.New("connection refused"), &positions.ResponseError{StatusCode: http.StatusServiceUnavailable}},
			wantOK:    true,
			wantCalls: 3,
		},
		{
			name:      "gives up after max tries",
			errs:      []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")},
			wantOK:    false,
			wantCalls: 3,
		},
		{
			name:      "client error is permanent",
			errs:      []error{&positions.ResponseError{StatusCode: http.StatusNotFound, Message: "Not Found"}},
			wantOK:    false,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			fetch := func(context.Context) ([]domain.Position, error) {
				n := calls.Add(1)
				if int(n) <= len(tt.errs) {
					return nil, tt.errs[n-1]
				}
				return eth(), nil
			}

			seed, ok := Prefetch(context.Background(), fetch, zaptest.NewLogger(t),
				WithMaxTries(3), WithRetryInterval(time.Millisecond))

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantOK {
				require.Equal(t, eth(), seed)
			} else {
				assert.Nil(t, seed)
			}
		})
	}
}

func TestPrefetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seed, ok := Prefetch(ctx, func(ctx context.Context) ([]domain.Position, error) {
		return nil, ctx.Err()
	}, nil)

	assert.False(t, ok)
	assert.Nil(t, seed)
}
