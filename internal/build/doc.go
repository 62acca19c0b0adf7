// Package build runs the content pipeline: it prepares the output root,
// discovers index.md entries below the source root, parses them, dispatches
// every parsed entry to its renderer on a bounded worker pool and joins the
// per-entry outcomes into a Report.
//
// Only setup failures (clearing the output root, reading the source root) are
// returned as errors. Everything that goes wrong for a single entry is recorded
// in the Report with its failure kind and source path.
package build
