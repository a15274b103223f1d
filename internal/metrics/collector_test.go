package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

func TestCollectorRecordsFetches(t *testing.T) {
	c := NewCollector(false)

	c.TriggerStarted("positions", query.TriggerEnable)
	c.FetchStarted("positions")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchInFlight.WithLabelValues("positions")))

	c.FetchFinished("positions", 50*time.Millisecond, nil)
	c.FetchStarted("positions")
	c.FetchFinished("positions", 20*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 0.0, testutil.ToFloat64(c.fetchInFlight.WithLabelValues("positions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchTotal.WithLabelValues("positions", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchTotal.WithLabelValues("positions", "failure")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.fetchTotal))
}

func TestCollectorRecordsTriggers(t *testing.T) {
	c := NewCollector(false)

	c.TriggerCoalesced("positions", query.TriggerFocus)
	c.TriggerCoalesced("positions", query.TriggerInterval)
	c.TriggerJoined("positions", query.TriggerManual)
	c.FetchStarted("positions")
	c.FetchDiscarded("positions", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.triggerCoalesced.WithLabelValues("positions", "focus")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.triggerTotal.WithLabelValues("positions", "manual", "joined")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchDiscarded.WithLabelValues("positions")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.fetchInFlight.WithLabelValues("positions")))

	expected := `
# HELP dashboard_trigger_coalesced_total Interval and focus triggers dropped while a fetch was in flight
# TYPE dashboard_trigger_coalesced_total counter
dashboard_trigger_coalesced_total{resource="positions",trigger="focus"} 1
dashboard_trigger_coalesced_total{resource="positions",trigger="interval"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c.triggerCoalesced, strings.NewReader(expected)))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector(true)
	c.FetchStarted("positions")
	c.FetchFinished("positions", time.Millisecond, nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `dashboard_fetch_total{resource="positions",result="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector(false)
	b := NewCollector(false)

	a.TriggerStarted("positions", query.TriggerManual)
	assert.Equal(t, 0, testutil.CollectAndCount(b.triggerTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(a.triggerTotal))
}
