package fault

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var interceptedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fault",
	Name:      "intercepted_failures_total",
	Help:      "Failures intercepted and converted by the exception middleware.",
}, []string{"kind", "http_status"})
