// Package metrics provides build metrics hooks for the content pipeline.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so call sites never nil-check:
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	b := build.New(build.Options{Recorder: rec, ...})
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// The CLI writes that registry to a node_exporter textfile after the build
// with WriteTextfile, since a single build process has nothing to scrape.
package metrics
