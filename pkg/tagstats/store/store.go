package store

import (
	"context"
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/report"
)

// Store persists run snapshots so past aggregates can be inspected or
// re-plotted without recomputing them from the extract.
type Store interface {
	Close() error

	SaveReport(ctx context.Context, r *report.Report) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context) ([]Run, error)
	GetDataset(ctx context.Context, runID, name string) (report.Dataset, error)
}

// Run is the stored summary of one pipeline run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Questions int
	Datasets  []string
}
