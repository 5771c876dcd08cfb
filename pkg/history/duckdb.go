package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/seojunpark/axlint/pkg/audit"
)

// DuckDB implements Store on a DuckDB database.
type DuckDB struct {
	db *sql.DB
}

var _ Store = (*DuckDB)(nil)

// Open opens the DuckDB file at path and ensures the schema, creating
// parent directories as needed. Pass "" for an in-memory database.
func Open(path string) (*DuckDB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("history: create dir: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %q: %w", path, err)
	}

	s := &DuckDB{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *DuckDB) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id VARCHAR PRIMARY KEY,
			app VARCHAR,
			root VARCHAR,
			created_at TIMESTAMP,
			total INTEGER,
			labeled INTEGER,
			coverage DOUBLE,
			high INTEGER,
			medium INTEGER,
			low INTEGER
		)
	`)
	if err != nil {
		return fmt.Errorf("history: create runs table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS findings (
			run_id VARCHAR,
			file VARCHAR,
			line INTEGER,
			widget VARCHAR,
			kind VARCHAR,
			priority VARCHAR,
			label VARCHAR,
			confidence DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("history: create findings table: %w", err)
	}

	return nil
}

// SaveRun stores the report and its findings in one transaction.
func (s *DuckDB) SaveRun(ctx context.Context, r *audit.Report) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("history: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, app, root, created_at, total, labeled, coverage, high, medium, low)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.App, r.Root, r.GeneratedAt, r.TotalElements, r.Labeled, r.Coverage,
		r.ByPriority[audit.PriorityHigh],
		r.ByPriority[audit.PriorityMedium],
		r.ByPriority[audit.PriorityLow],
	)
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, file, line, widget, kind, priority, label, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("history: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range r.Findings {
		_, err = stmt.ExecContext(ctx,
			id, f.Element.File, f.Element.Line, f.Element.Widget,
			string(f.Kind), string(f.Priority), f.Suggestion.Label, f.Suggestion.Confidence)
		if err != nil {
			return "", fmt.Errorf("history: insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: commit: %w", err)
	}

	return id, nil
}

const runColumns = `id, app, root, created_at, total, labeled, coverage, high, medium, low`

// ListRuns returns runs newest first. limit <= 0 means all.
func (s *DuckDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	return runs, nil
}

// LatestRun returns the most recent run, or false when the store is
// empty.
func (s *DuckDB) LatestRun(ctx context.Context) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC LIMIT 1`)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}

	return r, true, nil
}

// Findings returns the stored findings of a run ordered by location.
func (s *DuckDB) Findings(ctx context.Context, runID string) ([]Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, line, widget, kind, priority, label, confidence
		 FROM findings WHERE run_id = ? ORDER BY file, line`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Finding
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.RunID, &f.File, &f.Line, &f.Widget, &f.Kind, &f.Priority, &f.Label, &f.Confidence); err != nil {
			return nil, fmt.Errorf("history: scan finding: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	return out, nil
}

// Close closes the underlying database connection.
func (s *DuckDB) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.App, &r.Root, &r.CreatedAt, &r.Total, &r.Labeled, &r.Coverage, &r.High, &r.Medium, &r.Low)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("history: scan run: %w", err)
	}
	return r, nil
}
