package deadline

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	inserted  prometheus.Counter
	dedupHits prometheus.Counter
	misses    prometheus.Counter
	failures  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mailtriage",
			Name:      "deadlines_inserted_total",
			Help:      "Auto deadlines written by the pipeline.",
		}),
		dedupHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mailtriage",
			Name:      "deadline_dedup_hits_total",
			Help:      "Extracted deadlines skipped because the user already had them.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mailtriage",
			Name:      "deadline_extraction_misses_total",
			Help:      "Deadline-flagged messages without a recognised date.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mailtriage",
			Name:      "deadline_failures_total",
			Help:      "Messages whose deadline could not be persisted.",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.inserted, m.dedupHits, m.misses, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
