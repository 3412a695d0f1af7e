// Package report records a machine-readable summary of a generation run.
//
// The console output is for humans; build pipelines read report.json to
// decide whether the generated tree is safe to publish.
package report

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/VeryOriginalIK/BibleFetch/internal/jsonio"
)

// Stage status values.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Stage is the outcome of one pipeline stage.
type Stage struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
	Duration string         `json:"duration"`
}

// Report is the full record of one generation run.
type Report struct {
	RunID     string    `json:"runId"`
	StartedAt time.Time `json:"startedAt"`
	Duration  string    `json:"duration"`
	Stages    []Stage   `json:"stages"`
	Dropped   int       `json:"droppedVerses"`
	Failed    bool      `json:"failed"`

	start time.Time
}

// New starts a report for a fresh run.
func New() *Report {
	now := time.Now().UTC()
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: now,
		start:     now,
	}
}

// StartStage begins timing a stage and returns a closer that records its
// outcome. Counts may be nil.
func (r *Report) StartStage(name string) func(status string, err error, counts map[string]int) {
	begin := time.Now()
	return func(status string, err error, counts map[string]int) {
		stage := Stage{
			Name:     name,
			Status:   status,
			Counts:   counts,
			Duration: time.Since(begin).Round(time.Millisecond).String(),
		}
		if err != nil {
			stage.Error = err.Error()
		}
		if status == StatusFailed {
			r.Failed = true
		}
		r.Stages = append(r.Stages, stage)
	}
}

// AddDropped accumulates the dropped-verse counter across translations.
func (r *Report) AddDropped(n int) {
	r.Dropped += n
}

// Write finalizes the report and writes report.json under dir.
func (r *Report) Write(dir string) error {
	r.Duration = time.Since(r.start).Round(time.Millisecond).String()
	return jsonio.WriteIndented(filepath.Join(dir, "report.json"), r)
}
