package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tagstats/pkg/tagstats/internalerr"
	"github.com/cognicore/tagstats/pkg/tagstats/report"
	"github.com/cognicore/tagstats/pkg/tagstats/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite snapshot database with WAL mode enabled,
// creating the schema when missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	questions INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS datasets (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	columns TEXT NOT NULL,
	rows TEXT NOT NULL,
	PRIMARY KEY(run_id, name),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport stores a run and all of its datasets in one transaction.
func (s *sqliteStore) SaveReport(ctx context.Context, r *report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, questions) VALUES (?, ?, ?)`,
		r.RunID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Questions)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, ds := range r.Datasets {
		columns, err := json.Marshal(ds.Columns)
		if err != nil {
			return fmt.Errorf("marshal columns of %s: %w", ds.Name, err)
		}
		rows, err := json.Marshal(ds.Rows)
		if err != nil {
			return fmt.Errorf("marshal rows of %s: %w", ds.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO datasets (run_id, name, columns, rows) VALUES (?, ?, ?, ?)`,
			r.RunID, ds.Name, string(columns), string(rows))
		if err != nil {
			return fmt.Errorf("insert dataset %s: %w", ds.Name, err)
		}
	}

	return tx.Commit()
}

// GetRun returns a stored run by id.
func (s *sqliteStore) GetRun(ctx context.Context, runID string) (store.Run, error) {
	run, err := s.scanRun(ctx, runID)
	if err != nil {
		return store.Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM datasets WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return store.Run{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return store.Run{}, err
		}
		run.Datasets = append(run.Datasets, name)
	}
	return run, rows.Err()
}

func (s *sqliteStore) scanRun(ctx context.Context, runID string) (store.Run, error) {
	var (
		run       store.Run
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, questions FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &createdAt, &run.Questions)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("%w: run %s", internalerr.ErrNotFound, runID)
	}
	if err != nil {
		return store.Run{}, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at of run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all stored runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, questions FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			run       store.Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.Questions); err != nil {
			return nil, err
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetDataset returns one stored dataset of a run.
func (s *sqliteStore) GetDataset(ctx context.Context, runID, name string) (report.Dataset, error) {
	var columnsJSON, rowsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT columns, rows FROM datasets WHERE run_id = ? AND name = ?`, runID, name).
		Scan(&columnsJSON, &rowsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Dataset{}, fmt.Errorf("%w: dataset %s in run %s", internalerr.ErrNotFound, name, runID)
	}
	if err != nil {
		return report.Dataset{}, err
	}

	ds := report.Dataset{Name: name}
	if err := json.Unmarshal([]byte(columnsJSON), &ds.Columns); err != nil {
		return report.Dataset{}, fmt.Errorf("unmarshal columns of %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &ds.Rows); err != nil {
		return report.Dataset{}, fmt.Errorf("unmarshal rows of %s: %w", name, err)
	}
	return ds, nil
}
