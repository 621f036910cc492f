package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The registry is write-once process state, so a single test drives the
// whole lifecycle: init, construct, observe, gather.
func TestRegistryLifecycle(t *testing.T) {
	InitRegistry()
	reg := GetRegistry()
	require.NotNil(t, reg)

	httpMetrics := NewHTTPMetrics()
	httpMetrics.Observe("GET", "/files", 200, 5*time.Millisecond)

	jobMetrics := NewThumbnailMetrics()
	jobMetrics.ObserveJob(JobOutcomeSucceeded)
	jobMetrics.ObserveWidthFailure()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["cabinet_http_requests_total"])
	assert.True(t, names["cabinet_http_request_duration_seconds"])
	assert.True(t, names["cabinet_thumbnail_jobs_total"])
	assert.True(t, names["cabinet_thumbnail_width_failures_total"])
}

// No-op instances must be safe to call without an initialized registry.
func TestNoOpInstances(t *testing.T) {
	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("GET", "/files", 200, time.Millisecond)

	var jobMetrics *ThumbnailMetrics
	jobMetrics.ObserveJob(JobOutcomeFailed)
	jobMetrics.ObserveWidthFailure()

	(&HTTPMetrics{}).Observe("GET", "/files", 200, time.Millisecond)
	(&ThumbnailMetrics{}).ObserveJob(JobOutcomeSkipped)
}
