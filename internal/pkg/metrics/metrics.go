// Package metrics define as métricas Prometheus do GoClinic e o middleware
// HTTP que as alimenta. As métricas são registradas no registry padrão via
// promauto e expostas em /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "goclinic"

// HTTPRequestsTotal conta as requisições por método e status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de requisições HTTP atendidas.",
	},
	[]string{"method", "status"},
)

// HTTPRequestDuration mede a latência das requisições.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duração das requisições HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SubdomainChangesTotal conta alterações de subdomínio.
// Label result: "set", "cleared", "invalid" ou "conflict".
var SubdomainChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clinic_subdomain_changes_total",
		Help:      "Total de tentativas de alteração de subdomínio por resultado.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal conta usuários registrados por papel.
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total de usuários registrados por papel.",
	},
	[]string{"role", "professional"},
)

// statusRecorder captura o status HTTP escrito pelo handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware registra contagem e latência de cada requisição.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
