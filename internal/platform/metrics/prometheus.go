package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's custom Prometheus metrics.
type MetricsManager struct {
	Registry                 *prometheus.Registry
	ListingsCreatedTotal     *prometheus.CounterVec
	ListingUpdatesTotal      prometheus.Counter
	ListingRepublishesTotal  prometheus.Counter
	ListingsArchivedTotal    prometheus.Counter
	ListingAPIErrorsTotal    *prometheus.CounterVec
	ListingAPILatencySeconds *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the service metrics on a
// dedicated registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	listingsCreatedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by kind.",
	}, []string{"kind"})
	listingUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_updates_total",
		Help:      "Total number of listings updated.",
	})
	listingRepublishesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_republishes_total",
		Help:      "Total number of listings republished.",
	})
	listingsArchivedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_archived_total",
		Help:      "Total number of listings archived by expiration checks.",
	})
	listingAPIErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by handler and error type.",
	}, []string{"handler", "error_type"})
	listingAPILatencySeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by handler.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler"})

	registry.MustRegister(
		listingsCreatedTotal,
		listingUpdatesTotal,
		listingRepublishesTotal,
		listingsArchivedTotal,
		listingAPIErrorsTotal,
		listingAPILatencySeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                 registry,
		ListingsCreatedTotal:     listingsCreatedTotal,
		ListingUpdatesTotal:      listingUpdatesTotal,
		ListingRepublishesTotal:  listingRepublishesTotal,
		ListingsArchivedTotal:    listingsArchivedTotal,
		ListingAPIErrorsTotal:    listingAPIErrorsTotal,
		ListingAPILatencySeconds: listingAPILatencySeconds,
	}
}

// StartMetricsServer exposes the registry on /metrics. An empty port disables
// the server.
func StartMetricsServer(port string, logger *zap.Logger, registry *prometheus.Registry) error {
	if port == "" {
		logger.Info("metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logger.Info("metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
