package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/metrics"
)

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := metrics.New()
	m.RateLimitedTotal.Inc()
	m.WebhookEventsTotal.WithLabelValues("checkout.session.completed", "applied").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bidcheck_rate_limited_total 1")
	assert.Contains(t, string(body), `bidcheck_webhook_events_total{result="applied",type="checkout.session.completed"} 1`)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RateLimitedTotal))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.UsageRecordedTotal.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.UsageRecordedTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.UsageRecordedTotal))
}
