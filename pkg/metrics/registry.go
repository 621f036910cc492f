// Package metrics provides Prometheus metrics collection for cabinet
// components.
//
// All metrics are optional: if the registry is never initialized, the
// constructors return instances whose methods are no-ops with zero
// overhead, so components can always call through their metrics handle
// without nil checks at every site.
//
// Usage:
//
//	// Initialize global registry (typically in main.go)
//	metrics.InitRegistry()
//
//	httpMetrics := metrics.NewHTTPMetrics()
//	jobMetrics := metrics.NewThumbnailMetrics()
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// registry is the global Prometheus registry for all cabinet metrics.
	// Write-once via registryOnce, read-many afterwards.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry with the
// standard Go and process collectors. Safe to call multiple times;
// subsequent calls are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// GetRegistry returns the global registry, or nil if InitRegistry was
// never called.
func GetRegistry() *prometheus.Registry {
	return registry
}

// Handler returns the /metrics HTTP handler. With no initialized
// registry it serves an empty exposition rather than failing.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
