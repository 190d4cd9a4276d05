// Package metrics exposes Prometheus counters for the ingestion and
// normalization pipeline. Dropped-row counts are part of the observable
// contract: malformed cells never abort a batch, so the counters are the
// only place their volume shows up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"salespulse/internal/pipeline"
)

// Drop reasons for the rows_dropped counter.
const (
	ReasonDuplicate = "duplicate"
	ReasonCritical  = "missing_critical"
)

// Pipeline holds the pipeline counters.
type Pipeline struct {
	UploadsTotal  prometheus.Counter
	RowsLoaded    prometheus.Counter
	RowsDropped   *prometheus.CounterVec
	ParseWarnings prometheus.Counter
}

// NewPipeline creates and registers the pipeline collectors.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "uploads_total",
			Help:      "Uploads successfully normalized.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "rows_loaded_total",
			Help:      "Rows surviving normalization.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "rows_dropped_total",
			Help:      "Rows removed during normalization, by reason.",
		}, []string{"reason"}),
		ParseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "cell_parse_warnings_total",
			Help:      "Cells that failed numeric or date coercion and became missing.",
		}),
	}
	if reg != nil {
		reg.MustRegister(p.UploadsTotal, p.RowsLoaded, p.RowsDropped, p.ParseWarnings)
	}
	return p
}

// Observe records the outcome of one normalization run.
func (p *Pipeline) Observe(stats pipeline.Stats) {
	p.UploadsTotal.Inc()
	p.RowsLoaded.Add(float64(stats.RowsOut))
	p.RowsDropped.WithLabelValues(ReasonDuplicate).Add(float64(stats.DuplicatesRemoved))
	p.RowsDropped.WithLabelValues(ReasonCritical).Add(float64(stats.CriticalDropped))
	p.ParseWarnings.Add(float64(stats.ParseWarnings))
}
