package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"salespulse/internal/pipeline"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPipeline(reg)

	p.Observe(pipeline.Stats{
		RowsIn:            10,
		RowsOut:           7,
		DuplicatesRemoved: 1,
		CriticalDropped:   2,
		ParseWarnings:     3,
	})
	p.Observe(pipeline.Stats{RowsOut: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(p.UploadsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(p.RowsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.RowsDropped.WithLabelValues(ReasonDuplicate)))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.RowsDropped.WithLabelValues(ReasonCritical)))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.ParseWarnings))
}

func TestNewPipeline_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPipeline(nil).Observe(pipeline.Stats{RowsOut: 1})
	})
}
