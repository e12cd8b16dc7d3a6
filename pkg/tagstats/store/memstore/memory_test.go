package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
	"github.com/cognicore/tagstats/pkg/tagstats/report"
)

func sampleReport(runID string, at time.Time) *report.Report {
	return &report.Report{
		RunID:     runID,
		CreatedAt: at,
		Questions: 3,
		Datasets: []report.Dataset{
			{
				Name:    "top_tags",
				Columns: []string{"tag", "count"},
				Rows:    [][]string{{"go", "2"}, {"python", "1"}},
			},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	rep := sampleReport("run-1", time.Now().UTC())
	if err := s.SaveReport(ctx, rep); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	run, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Questions != 3 || len(run.Datasets) != 1 {
		t.Errorf("Run = %+v", run)
	}

	ds, err := s.GetDataset(ctx, "run-1", "top_tags")
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if len(ds.Rows) != 2 || ds.Rows[0][0] != "go" {
		t.Errorf("Dataset = %+v", ds)
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.GetRun(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetDataset(ctx, "nope", "top_tags"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	old := sampleReport("run-old", time.Now().Add(-time.Hour))
	recent := sampleReport("run-new", time.Now())
	if err := s.SaveReport(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReport(ctx, recent); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-new" {
		t.Errorf("Runs = %+v", runs)
	}
}

func TestStoredDatasetIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	rep := sampleReport("run-1", time.Now())
	if err := s.SaveReport(ctx, rep); err != nil {
		t.Fatal(err)
	}

	ds, err := s.GetDataset(ctx, "run-1", "top_tags")
	if err != nil {
		t.Fatal(err)
	}
	ds.Rows[0][0] = "mutated"

	again, err := s.GetDataset(ctx, "run-1", "top_tags")
	if err != nil {
		t.Fatal(err)
	}
	if again.Rows[0][0] != "go" {
		t.Error("Store should hand out copies, not shared slices")
	}
}
