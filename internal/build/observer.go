package build

import (
	"git.home.luguber.info/inful/moxide/internal/metrics"
)

// Observer receives callbacks as entries finish and when the build completes.
// The builder serializes calls, so implementations need no locking of their own.
type Observer interface {
	OnEntryComplete(result EntryResult)
	OnBuildComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnEntryComplete(EntryResult) {}
func (NoopObserver) OnBuildComplete(*Report)     {}

// recorderObserver adapts metrics.Recorder into an Observer.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnEntryComplete(result EntryResult) {
	if result.OK() {
		r.rec.IncEntryResult("success")
		return
	}
	r.rec.IncEntryResult(result.Kind)
}

func (r recorderObserver) OnBuildComplete(report *Report) {
	r.rec.ObserveBuildDuration(report.End.Sub(report.Start))
	r.rec.IncBuildOutcome(string(report.Outcome))
}
