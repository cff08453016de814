package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for message processing flows.
type PipelineMetrics struct {
	processedTotal  *prometheus.CounterVec
	leadsTotal      *prometheus.CounterVec
	exportTotal     *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		processedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlead",
			Subsystem: "pipeline",
			Name:      "messages_processed_total",
			Help:      "Total processed inbound messages",
		}, []string{"channel", "status"}),
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlead",
			Subsystem: "pipeline",
			Name:      "leads_created_total",
			Help:      "Total leads created from processed messages",
		}, []string{"intent"}),
		exportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatlead",
			Subsystem: "pipeline",
			Name:      "sheet_exports_total",
			Help:      "Total spreadsheet export attempts",
		}, []string{"status"}),
		processDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatlead",
			Subsystem: "pipeline",
			Name:      "process_duration_seconds",
			Help:      "Latency of end-to-end message processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.processedTotal, m.leadsTotal, m.exportTotal, m.processDuration)
	return m
}

func (m *PipelineMetrics) ObserveProcessed(channel, status string) {
	if m == nil {
		return
	}
	m.processedTotal.WithLabelValues(channel, status).Inc()
}

func (m *PipelineMetrics) ObserveLeadCreated(intent string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(intent).Inc()
}

func (m *PipelineMetrics) ObserveExport(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.exportTotal.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) ObserveProcessDuration(channel string, seconds float64) {
	if m == nil {
		return
	}
	m.processDuration.WithLabelValues(channel).Observe(seconds)
}
