package positions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClientFetch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCount  int
		wantStatus int
		wantMsg    string
	}{
		{
			name:      "positions",
			status:    http.StatusOK,
			body:      `[{"id":"1","symbol":"ETH","balance":2,"valueUSD":4000,"change24h":1.5}]`,
			wantCount: 1,
		},
		{
			name:      "empty array",
			status:    http.StatusOK,
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:      "null body",
			status:    http.StatusOK,
			body:      `null`,
			wantCount: 0,
		},
		{
			name:       "json error body",
			status:     http.StatusInternalServerError,
			body:       `{"error":"upstream unavailable"}`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "upstream unavailable",
		},
		{
			name:       "plain error body",
			status:     http.StatusNotFound,
			body:       `nope`,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Not Found",
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       `{"id":`,
			wantStatus: http.StatusOK,
			wantMsg:    "invalid response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, DefaultPath, r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL+"/", WithLogger(zaptest.NewLogger(t)))
			positions, err := client.Fetch(context.Background())

			if tt.wantMsg != "" {
				require.Error(t, err)
				var respErr *ResponseError
				require.ErrorAs(t, err, &respErr)
				assert.Equal(t, tt.wantStatus, respErr.StatusCode)
				assert.Contains(t, respErr.Message, tt.wantMsg)
				assert.Contains(t, err.Error(), "failed to fetch positions")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, positions)
			assert.Len(t, positions, tt.wantCount)
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Fetch(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, url+DefaultPath, transportErr.URL)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClientLatencyHonoursContext(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, hits)
}

func TestClientCancelledRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient(srv.URL).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponseErrorTemporary(t *testing.T) {
	assert.True(t, (&ResponseError{StatusCode: 503}).Temporary())
	assert.True(t, (&ResponseError{StatusCode: 429}).Temporary())
	assert.False(t, (&ResponseError{StatusCode: 404}).Temporary())
}
