package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("discover", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("discover", ResultSuccess)
	pr.IncBuildOutcome("partial")
	pr.ObserveRenderDuration("page", 10*time.Millisecond, true)
	pr.IncEntryResult("success")
	pr.IncEntryResult("success")
	pr.IncEntryResult("render_not_found")
	pr.SetRenderConcurrency(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	require.InDelta(t, 2, counterValue(mfs, "moxide_entry_results_total", "success"), 0)
	require.InDelta(t, 1, counterValue(mfs, "moxide_entry_results_total", "render_not_found"), 0)
	require.InDelta(t, 1, counterValue(mfs, "moxide_build_outcomes_total", "partial"), 0)
}

// counterValue returns the counter in family name whose single label equals value.
func counterValue(mfs []*dto.MetricFamily, name, value string) float64 {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncBuildOutcome("success")
		pr.ObserveRenderDuration("page", time.Millisecond, false)
		pr.SetRenderConcurrency(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome("success")

	path := filepath.Join(t.TempDir(), "nested", "moxide.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `moxide_build_outcomes_total{outcome="success"} 1`)
}
