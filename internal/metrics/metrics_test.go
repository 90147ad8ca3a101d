package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.ObserveRun("pages", 20*time.Millisecond, false)
	p.ObserveRun("pages", 10*time.Millisecond, true)
	p.SetCategoryURLs("pages", "finance", 7)
	p.SetCategoryURLs("pages", "finance", 3)
	p.AddWarnings("split", 2)
	p.AddWarnings("split", 0)
	p.IncClassification("health")

	assert.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues("pages", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues("pages", "failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.categoryURLs.WithLabelValues("pages", "finance")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.warnings.WithLabelValues("split")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.classifications.WithLabelValues("health")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var p *Prometheus
	assert.NotPanics(t, func() {
		p.ObserveRun("pages", time.Second, false)
		p.SetCategoryURLs("pages", "text", 1)
		p.AddWarnings("pages", 1)
		p.IncClassification("text")
	})
}
