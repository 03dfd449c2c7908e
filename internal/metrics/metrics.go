package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "issue_tracker", Name: "http_requests_total", Help: "Number of handled HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	IssueMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "issue_tracker", Name: "issue_mutations_total", Help: "Number of successful issue mutations by action."},
		[]string{"action"},
	)
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "issue_tracker", Name: "auth_attempts_total", Help: "Number of sign-in and registration attempts by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(IssueMutations)
	reg.MustRegister(AuthAttempts)
}
