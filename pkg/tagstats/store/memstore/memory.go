package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
	"github.com/cognicore/tagstats/pkg/tagstats/report"
	"github.com/cognicore/tagstats/pkg/tagstats/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	runs     map[string]store.Run
	datasets map[string]map[string]report.Dataset
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:     make(map[string]store.Run),
		datasets: make(map[string]map[string]report.Dataset),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport stores a run and all of its datasets.
func (s *Store) SaveReport(ctx context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := store.Run{
		ID:        r.RunID,
		CreatedAt: r.CreatedAt,
		Questions: r.Questions,
	}
	byName := make(map[string]report.Dataset, len(r.Datasets))
	for _, ds := range r.Datasets {
		run.Datasets = append(run.Datasets, ds.Name)
		byName[ds.Name] = copyDataset(ds)
	}

	s.runs[r.RunID] = run
	s.datasets[r.RunID] = byName
	return nil
}

// GetRun returns a stored run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return store.Run{}, fmt.Errorf("%w: run %s", internalerr.ErrNotFound, runID)
	}
	return run, nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// GetDataset returns one stored dataset of a run.
func (s *Store) GetDataset(ctx context.Context, runID, name string) (report.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName, ok := s.datasets[runID]
	if !ok {
		return report.Dataset{}, fmt.Errorf("%w: run %s", internalerr.ErrNotFound, runID)
	}
	ds, ok := byName[name]
	if !ok {
		return report.Dataset{}, fmt.Errorf("%w: dataset %s in run %s", internalerr.ErrNotFound, name, runID)
	}
	return copyDataset(ds), nil
}

func copyDataset(ds report.Dataset) report.Dataset {
	out := report.Dataset{
		Name:    ds.Name,
		Columns: append([]string(nil), ds.Columns...),
		Rows:    make([][]string, len(ds.Rows)),
	}
	for i, row := range ds.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
