// Package history persists audit runs in a local DuckDB file so the
// coverage trend survives between invocations.
package history

import (
	"context"
	"time"

	"github.com/seojunpark/axlint/pkg/audit"
)

// Run is a stored audit summary.
type Run struct {
	ID        string    `json:"id"`
	App       string    `json:"app"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Labeled   int       `json:"labeled"`
	Coverage  float64   `json:"coverage"`
	High      int       `json:"high"`
	Medium    int       `json:"medium"`
	Low       int       `json:"low"`
}

// Finding is one stored finding row. Label and Confidence carry the rule
// suggestion the finding shipped with.
type Finding struct {
	RunID      string  `json:"run_id"`
	File       string  `json:"file"`
	Line       int     `json:"line"`
	Widget     string  `json:"widget"`
	Kind       string  `json:"kind"`
	Priority   string  `json:"priority"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Store records audit runs and answers trend queries.
type Store interface {
	// SaveRun stores a report with its findings and returns the run id.
	SaveRun(ctx context.Context, r *audit.Report) (string, error)
	// ListRuns returns runs newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// LatestRun returns the most recent run, or false when none exist.
	LatestRun(ctx context.Context) (Run, bool, error)
	// Findings returns the stored findings of a run ordered by location.
	Findings(ctx context.Context, runID string) ([]Finding, error)
	// Close releases the underlying database.
	Close() error
}
