package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// TravelLookups counts travel-time lookups by result: hit, fetched or fallback.
	TravelLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "travel_time_lookups_total", Help: "Travel time lookups by result."},
		[]string{"result"},
	)
	// ItineraryOperations counts planner operations by operation and outcome.
	ItineraryOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "itinerary_operations_total", Help: "Itinerary operations by outcome."},
		[]string{"op", "outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(TravelLookups)
		Registry.MustRegister(ItineraryOperations)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
