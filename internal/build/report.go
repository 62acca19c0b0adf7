package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report file names written into the output root.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	// OutcomeSuccess means every discovered entry rendered.
	OutcomeSuccess Outcome = "success"
	// OutcomePartial means some entries failed and some rendered.
	OutcomePartial Outcome = "partial"
	// OutcomeFailed means at least one entry was discovered and all of them failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeEmpty means no entries were discovered.
	OutcomeEmpty Outcome = "empty"
)

// EntryResult is the outcome of one discovered entry.
type EntryResult struct {
	Source      string `json:"source"`
	Title       string `json:"title,omitempty"`
	Renderer    string `json:"renderer,omitempty"`
	Output      string `json:"output,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	// Kind is the failure category; empty on success.
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the entry rendered.
func (r EntryResult) OK() bool { return r.Kind == "" }

// Report captures the result of one build run.
type Report struct {
	SchemaVersion  int                      `json:"schema_version"`
	ID             string                   `json:"id"`
	Site           string                   `json:"site,omitempty"`
	SourceDir      string                   `json:"source_dir"`
	OutputDir      string                   `json:"output_dir"`
	Revision       string                   `json:"revision,omitempty"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Workers        int                      `json:"workers"`
	Discovered     int                      `json:"discovered"`
	Succeeded      []EntryResult            `json:"succeeded"`
	Failed         []EntryResult            `json:"failed"`
	Warnings       []string                 `json:"warnings"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	Outcome        Outcome                  `json:"outcome"`
}

func newReport(id string) *Report {
	return &Report{
		SchemaVersion:  1,
		ID:             id,
		Start:          time.Now(),
		Succeeded:      []EntryResult{},
		Failed:         []EntryResult{},
		Warnings:       []string{},
		StageDurations: make(map[string]time.Duration),
	}
}

func (r *Report) add(result EntryResult) {
	if result.OK() {
		r.Succeeded = append(r.Succeeded, result)
		return
	}
	r.Failed = append(r.Failed, result)
}

func (r *Report) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

func (r *Report) deriveOutcome() {
	switch {
	case len(r.Succeeded)+len(r.Failed) == 0:
		r.Outcome = OutcomeEmpty
	case len(r.Failed) == 0:
		r.Outcome = OutcomeSuccess
	case len(r.Succeeded) == 0:
		r.Outcome = OutcomeFailed
	default:
		r.Outcome = OutcomePartial
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s site=%q entries=%d succeeded=%d failed=%d warnings=%d workers=%d duration=%s outcome=%s",
		r.ID, r.Site, r.Discovered, len(r.Succeeded), len(r.Failed), len(r.Warnings), r.Workers,
		dur.Truncate(time.Millisecond), r.Outcome)
}

// Text renders the summary followed by one line per failure and warning.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	for _, f := range r.Failed {
		fmt.Fprintf(&b, "failed %s %s: %s\n", f.Kind, f.Source, f.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "warning %s\n", w)
	}
	return b.String()
}

// Persist writes the report atomically into root:
//
//	build-report.json  (machine readable)
//	build-report.txt   (human summary)
//
// Errors are returned for caller logging and do not change the outcome.
func (r *Report) Persist(root string) error {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONFile), jb); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportTextFile), []byte(r.Text())); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	// #nosec G306 -- reports are published next to the rendered site
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadReport loads a persisted JSON report from root.
func ReadReport(root string) (*Report, error) {
	// #nosec G304 -- root is the configured output directory
	data, err := os.ReadFile(filepath.Join(root, ReportJSONFile))
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
