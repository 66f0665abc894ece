package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts attachment uploads and swallowed blob cleanup failures.
type Metrics struct {
	uploads         *prometheus.CounterVec
	cleanupFailures prometheus.Counter
}

// NewMetrics registers the service collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "question_attachment_uploads_total",
				Help: "Attachment uploads issued while saving questions, by result.",
			},
			[]string{"result"},
		),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "question_blob_cleanup_failures_total",
			Help: "Blob deletions that failed during attachment reconciliation.",
		}),
	}
	for _, c := range []prometheus.Collector{m.uploads, m.cleanupFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) uploadDone(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.uploads.WithLabelValues(result).Inc()
}

func (m *Metrics) cleanupFailed() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
}
