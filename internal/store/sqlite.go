// Package store persists enrichment run history: per-run status, crawl
// outcomes, and the discrepancy log, in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// SQLiteStore persists runs using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	input_path TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	summary    TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS crawl_results (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	row      INTEGER NOT NULL,
	practice TEXT NOT NULL,
	pages    INTEGER NOT NULL DEFAULT 0,
	emails   INTEGER NOT NULL DEFAULT 0,
	error    TEXT,
	PRIMARY KEY (run_id, row)
);

CREATE TABLE IF NOT EXISTS discrepancies (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	row       INTEGER NOT NULL,
	field     TEXT NOT NULL,
	old_value TEXT NOT NULL,
	new_value TEXT NOT NULL,
	message   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_crawl_results_run_id ON crawl_results(run_id);
CREATE INDEX IF NOT EXISTS idx_discrepancies_run_id ON discrepancies(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new running run for the given input workbook.
func (s *SQLiteStore) CreateRun(ctx context.Context, inputPath string) (*model.EnrichmentRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, inputPath, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.EnrichmentRun{
		ID:        id,
		InputPath: inputPath,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CompleteRun marks a run complete and records its summary.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, summary = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), string(summaryJSON), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

// FailRun marks a run failed with its error text.
func (s *SQLiteStore) FailRun(ctx context.Context, runID, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

// GetRun loads one run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.EnrichmentRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_path, status, summary, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

// ListRuns returns runs newest first, capped at limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*model.EnrichmentRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, status, summary, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []*model.EnrichmentRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs")
}

// SaveCrawlResults records the per-business crawl outcomes of a run in one
// transaction.
func (s *SQLiteStore) SaveCrawlResults(ctx context.Context, runID string, results map[int]model.CrawlResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, res := range results {
		pages, emails := 0, 0
		if res.Doc != nil {
			pages = len(res.Doc.PagesVisited)
			emails = len(res.Doc.Emails)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO crawl_results (run_id, row, practice, pages, emails, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, res.Row, res.Practice, pages, emails, res.Err,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert crawl result")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit crawl results")
}

// SaveDiscrepancies appends a run's discrepancy log in one transaction.
func (s *SQLiteStore) SaveDiscrepancies(ctx context.Context, runID string, discrepancies []model.Discrepancy) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, d := range discrepancies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO discrepancies (run_id, row, field, old_value, new_value, message)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, d.Row, d.Field, d.OldValue, d.NewValue, d.Message,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert discrepancy")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit discrepancies")
}

// ListDiscrepancies returns a run's discrepancies in insertion order.
func (s *SQLiteStore) ListDiscrepancies(ctx context.Context, runID string) ([]model.Discrepancy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row, field, old_value, new_value, message FROM discrepancies WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list discrepancies")
	}
	defer rows.Close()

	var out []model.Discrepancy
	for rows.Next() {
		var d model.Discrepancy
		if err := rows.Scan(&d.Row, &d.Field, &d.OldValue, &d.NewValue, &d.Message); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan discrepancy")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list discrepancies")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.EnrichmentRun, error) {
	var run model.EnrichmentRun
	var status string
	var summary, errMsg sql.NullString
	if err := row.Scan(&run.ID, &run.InputPath, &status, &summary, &errMsg, &run.CreatedAt, &run.UpdatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrap(err, "sqlite: run not found")
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	run.Status = model.RunStatus(status)
	run.Error = errMsg.String
	if summary.Valid && summary.String != "" {
		var s model.RunSummary
		if err := json.Unmarshal([]byte(summary.String), &s); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
		run.Summary = &s
	}
	return &run, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
