// Package metrics exposes run diagnostics as Prometheus gauges for the
// node exporter textfile collector.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wdm0006/layoffs/pkg/layoffs"
)

// Recorder holds the gauges of one cleaning run on a private registry.
type Recorder struct {
	reg      *prometheus.Registry
	rows     *prometheus.GaugeVec
	failures *prometheus.GaugeVec
	events   *prometheus.GaugeVec
	lastRun  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "layoffs_rows",
			Help: "Rows at each stage boundary of the last cleaning run.",
		}, []string{"stage"}),
		failures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "layoffs_coercion_failures",
			Help: "Values that could not be coerced and were set absent, by column.",
		}, []string{"column"}),
		events: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "layoffs_events",
			Help: "Rows or cells affected by each cleaning step.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "layoffs_last_run_timestamp_seconds",
			Help: "Start time of the last cleaning run.",
		}),
	}
	r.reg.MustRegister(r.rows, r.failures, r.events, r.lastRun)
	return r
}

// Registry exposes the registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe sets every gauge from rep.
func (r *Recorder) Observe(rep layoffs.Report) {
	for stage, n := range map[string]int{
		"raw":          rep.Raw,
		"staged":       rep.Staged,
		"deduplicated": rep.Deduplicated,
		"standardized": rep.Standardized,
		"reconciled":   rep.Reconciled,
		"final":        rep.Final,
	} {
		r.rows.WithLabelValues(stage).Set(float64(n))
	}
	for col, n := range rep.CoercionFailures {
		r.failures.WithLabelValues(col).Set(float64(n))
	}
	r.events.WithLabelValues("duplicates_removed").Set(float64(rep.DuplicatesRemoved))
	r.events.WithLabelValues("residual_duplicates").Set(float64(rep.ResidualDuplicates))
	r.events.WithLabelValues("backfilled").Set(float64(rep.Backfilled))
	r.events.WithLabelValues("dropped_no_signal").Set(float64(rep.DroppedNoSignal))
	for col, n := range rep.Blanked {
		r.events.WithLabelValues("blanked_" + col).Set(float64(n))
	}
	for k, n := range rep.Rewrites {
		r.events.WithLabelValues("rewrite_" + strings.ReplaceAll(k, ".", "_")).Set(float64(n))
	}
	if !rep.StartedAt.IsZero() {
		r.lastRun.Set(float64(rep.StartedAt.Unix()))
	}
}

// WriteTextfile writes the gauges to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
