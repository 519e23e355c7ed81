package domainconnect

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	discoveryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainconnect_discovery_attempts_total",
		Help: "Discovery attempts by strategy and result",
	}, []string{"strategy", "result"})

	applyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainconnect_apply_total",
		Help: "Apply and status calls by mode and result",
	}, []string{"mode", "result"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "domainconnect_request_duration_seconds",
		Help:    "Duration of Domain Connect HTTP requests in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"operation"})
)

func init() {
	metrics.Registry.MustRegister(discoveryTotal, applyTotal, requestDuration)
}

func resultLabel(r Result) string {
	if r.Success {
		return "success"
	}
	return "failure"
}
