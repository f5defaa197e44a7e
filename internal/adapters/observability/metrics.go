package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "reviews"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "store_operation_duration_seconds",
			Help:    "Review store operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "outcome"},
	)
	ImageEncodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "image_encodes_total", Help: "Uploaded image encodes."},
		[]string{"outcome"}, // ok|error
	)
	ImageBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "image_bytes",
		Help:    "Size of encoded uploads in bytes.",
		Buckets: prometheus.ExponentialBuckets(1<<10, 4, 8), // 1KiB .. 16MiB
	})
	UploadRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "upload_rejections_total", Help: "Rejected uploads."},
		[]string{"reason"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve starts a side listener for /metrics when addr is set.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreLatency, ImageEncodes, ImageBytes, UploadRejections, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStore(op string, err error, dur time.Duration) {
	StoreLatency.WithLabelValues(op, outcome(err)).Observe(dur.Seconds())
}

func ObserveEncode(size int, err error) {
	ImageEncodes.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		ImageBytes.Observe(float64(size))
	}
}

func ObserveRejection(reason string) { UploadRejections.WithLabelValues(reason).Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
