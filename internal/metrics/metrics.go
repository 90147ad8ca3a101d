package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives run observations. A nil *Prometheus is a valid no-op recorder.
type Recorder interface {
	ObserveRun(mode string, d time.Duration, failed bool)
	SetCategoryURLs(mode, category string, n int)
	AddWarnings(mode string, n int)
	IncClassification(category string)
}

// Prometheus implements Recorder with Prometheus collectors
type Prometheus struct {
	runDuration     *prometheus.HistogramVec
	runs            *prometheus.CounterVec
	categoryURLs    *prometheus.GaugeVec
	warnings        *prometheus.CounterVec
	classifications *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them on reg
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitemapgen",
			Name:      "run_duration_seconds",
			Help:      "Duration of generation runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "runs_total",
			Help:      "Generation runs by mode and outcome",
		}, []string{"mode", "outcome"}),
		categoryURLs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sitemapgen",
			Name:      "category_urls",
			Help:      "URLs per category in the most recent run",
		}, []string{"mode", "category"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "warnings_total",
			Help:      "Non-fatal warnings reported by runs",
		}, []string{"mode"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "classifications_total",
			Help:      "Classify API requests by resulting category",
		}, []string{"category"}),
	}
	if reg != nil {
		reg.MustRegister(p.runDuration, p.runs, p.categoryURLs, p.warnings, p.classifications)
	}
	return p
}

func (p *Prometheus) ObserveRun(mode string, d time.Duration, failed bool) {
	if p == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "failed"
	}
	p.runDuration.WithLabelValues(mode).Observe(d.Seconds())
	p.runs.WithLabelValues(mode, outcome).Inc()
}

func (p *Prometheus) SetCategoryURLs(mode, category string, n int) {
	if p == nil {
		return
	}
	p.categoryURLs.WithLabelValues(mode, category).Set(float64(n))
}

func (p *Prometheus) AddWarnings(mode string, n int) {
	if p == nil || n == 0 {
		return
	}
	p.warnings.WithLabelValues(mode).Add(float64(n))
}

func (p *Prometheus) IncClassification(category string) {
	if p == nil {
		return
	}
	p.classifications.WithLabelValues(category).Inc()
}
