package metric

import (
	"net/http"

	"github.com/bornholm/dbmenu/internal/navigation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dbmenu"

type Counter struct {
	name string
	vec  *prometheus.CounterVec
}

// Increment implements navigation.Counter.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func (c *Counter) Name() string {
	return c.name
}

var _ navigation.Counter = &Counter{}

func NewCounter(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(vec)

	return &Counter{
		name: prometheus.BuildFQName(namespace, "", name),
		vec:  vec,
	}
}

// Metrics groups the counters of the navigation service
// and the registry they are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	TreeBuilds   *Counter
	CacheLookups *Counter
	APIRequests  *Counter
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:     reg,
		TreeBuilds:   NewCounter(reg, "tree_builds_total", "Number of navigation trees built from the store"),
		CacheLookups: NewCounter(reg, "cache_lookups_total", "Number of cache slot lookups by result", "result"),
		APIRequests:  NewCounter(reg, "api_requests_total", "Number of API requests by route and status", "route", "status"),
	}
}
