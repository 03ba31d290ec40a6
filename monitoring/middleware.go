package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type ServerMiddleware struct {
	handler http.Handler
}

func NewServerMiddleware(handlerToWrap http.Handler) *ServerMiddleware {
	return &ServerMiddleware{handlerToWrap}
}

func (m *ServerMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/metrics" {
		// Skip collecting metrics from metrics endpoint itself
		m.handler.ServeHTTP(w, r)
		return
	}

	// increment total request counter
	HttpRequestsTotal.WithLabelValues(path).Inc()

	// increment number of active connections
	ActiveConnections.Inc()

	// begin timer to measure the requests duration
	timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(path))

	// complete processing request
	m.handler.ServeHTTP(w, r)

	// record request duration (post processing)
	timer.ObserveDuration()

	// decrement total number of active connections (post processing)
	ActiveConnections.Dec()
}
