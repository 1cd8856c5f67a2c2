package dictionary

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts library traffic per backend.
type Metrics struct {
	Lookups      *prometheus.CounterVec
	Hits         *prometheus.CounterVec
	LoadFailures *prometheus.CounterVec
	Registered   prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skkfe",
			Subsystem: "dictionary",
			Name:      "lookups_total",
			Help:      "Lookups sent to each backend.",
		}, []string{"backend"}),
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skkfe",
			Subsystem: "dictionary",
			Name:      "hits_total",
			Help:      "Lookups for which a backend returned candidates.",
		}, []string{"backend"}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skkfe",
			Subsystem: "dictionary",
			Name:      "load_failures_total",
			Help:      "Backend loads that failed and left the backend empty.",
		}, []string{"backend"}),
		Registered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skkfe",
			Subsystem: "dictionary",
			Name:      "registered_total",
			Help:      "Candidates registered into the user dictionary.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Lookups, m.Hits, m.LoadFailures, m.Registered} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) lookup(backend string, hit bool) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(backend).Inc()
	if hit {
		m.Hits.WithLabelValues(backend).Inc()
	}
}

func (m *Metrics) loadFailed(backend string) {
	if m == nil {
		return
	}
	m.LoadFailures.WithLabelValues(backend).Inc()
}

func (m *Metrics) registered() {
	if m == nil {
		return
	}
	m.Registered.Inc()
}
