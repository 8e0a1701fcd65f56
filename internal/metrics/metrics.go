package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopeasy_storefront/internal/cart"
)

type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	CartMutations *prometheus.CounterVec
}

// NewServerMetrics enregistre les métriques dans reg.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopeasy",
		Subsystem: "storefront",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopeasy",
		Subsystem: "storefront",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopeasy",
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart writes confirmed by the data service.",
	}, []string{"op"})

	reg.MustRegister(requests, latency, mutations)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, CartMutations: mutations}
}

// Middleware compte les requêtes par route gin (le motif, pas le chemin).
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

func (m *ServerMetrics) CartHook() cart.MutationHook {
	return func(_ context.Context, mut cart.Mutation) {
		m.CartMutations.WithLabelValues(string(mut.Op)).Inc()
	}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
