package astdump

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the counters updated by a [Dumper].
type Metrics struct {
	nodes *prometheus.CounterVec
	dumps prometheus.Counter
}

// NewMetrics creates and registers the dumper metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		nodes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "treedump",
			Name:      "ast_nodes_total",
			Help:      "Total number of syntax nodes visited, by category.",
		}, []string{"kind"}),
		dumps: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "treedump",
			Name:      "dumps_total",
			Help:      "Total number of syntax trees dumped.",
		}),
	}
}

func (m *Metrics) observeNode(c Category) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) observeDump() {
	if m == nil {
		return
	}
	m.dumps.Inc()
}

// ObserveStats adds the per category counts of s to the node counter.
func (m *Metrics) ObserveStats(s Stats) {
	if m == nil {
		return
	}
	for _, c := range Categories {
		if n := s.Get(c); n > 0 {
			m.nodes.WithLabelValues(string(c)).Add(float64(n))
		}
	}
}
