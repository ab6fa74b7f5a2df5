package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/model"
	"censorcheck/internal/snapshot"
)

// ErrNotFound is returned when a search run or report does not exist.
var ErrNotFound = errors.New("not found")

// DB stores captured search runs and the reports built from them.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS search_runs (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  handle TEXT NOT NULL,
	  started_at INTEGER NOT NULL,
	  imported_at INTEGER NOT NULL,
	  payload TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS reports (
	  id TEXT PRIMARY KEY,
	  run_id INTEGER NOT NULL REFERENCES search_runs(id),
	  analysis_type TEXT NOT NULL,
	  name TEXT NOT NULL,
	  description TEXT NOT NULL,
	  created_at INTEGER NOT NULL,
	  attributes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_reports_run ON reports(run_id);
	CREATE TABLE IF NOT EXISTS report_items (
	  report_id TEXT NOT NULL REFERENCES reports(id),
	  seq INTEGER NOT NULL,
	  tweet_id INTEGER NOT NULL,
	  rank INTEGER NOT NULL,
	  expected_interaction INTEGER NOT NULL,
	  expected_date INTEGER NOT NULL,
	  status TEXT NOT NULL,
	  attributes TEXT,
	  PRIMARY KEY (report_id, seq)
	);
	`)
	return err
}

// PutSearchRun stores a captured run and returns its ID.
func (d *DB) PutSearchRun(ctx context.Context, run model.SearchRun) (int64, error) {
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, run); err != nil {
		return 0, err
	}
	res, err := d.sql.ExecContext(ctx, `INSERT INTO search_runs(handle, started_at, imported_at, payload) VALUES(?,?,?,?)`,
		run.InitiatingUser.Handle, run.StartTime.Unix(), time.Now().UTC().Unix(), buf.String())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) LoadSearchRun(ctx context.Context, id int64) (model.SearchRun, error) {
	var payload string
	err := d.sql.QueryRowContext(ctx, `SELECT payload FROM search_runs WHERE id=?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SearchRun{}, fmt.Errorf("search run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.SearchRun{}, err
	}
	return snapshot.Decode(bytes.NewBufferString(payload))
}

// PendingSearchRuns returns IDs of runs with no report yet, oldest first.
func (d *DB) PendingSearchRuns(ctx context.Context) ([]int64, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT s.id FROM search_runs s
	  WHERE NOT EXISTS (SELECT 1 FROM reports r WHERE r.run_id = s.id) ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SaveReport stores a report record and its items in one transaction.
func (d *DB) SaveReport(ctx context.Context, runID int64, rec analyzer.Record) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO reports(id, run_id, analysis_type, name, description, created_at, attributes) VALUES(?,?,?,?,?,?,?)`,
		rec.ID, runID, rec.AnalysisType, rec.Name, rec.Description, rec.CreatedAt.Unix(), string(attrs)); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	for i, it := range rec.Items {
		ia, err := json.Marshal(it.Attributes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO report_items(report_id, seq, tweet_id, rank, expected_interaction, expected_date, status, attributes) VALUES(?,?,?,?,?,?,?,?)`,
			rec.ID, i, it.OriginalTweetID, it.Rank, it.ExpectedRankByInteraction, it.ExpectedRankByDate, string(it.Status), string(ia)); err != nil {
			return fmt.Errorf("insert item %d: %w", it.OriginalTweetID, err)
		}
	}
	return tx.Commit()
}

// ReportSummary is one row of the report listing.
type ReportSummary struct {
	ID        string
	RunID     int64
	Name      string
	CreatedAt time.Time
	Items     int
}

// ListReports returns the newest reports first.
func (d *DB) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, `SELECT r.id, r.run_id, r.name, r.created_at,
	  (SELECT COUNT(*) FROM report_items i WHERE i.report_id = r.id)
	  FROM reports r ORDER BY r.created_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReportSummary
	for rows.Next() {
		var s ReportSummary
		var created int64
		if err := rows.Scan(&s.ID, &s.RunID, &s.Name, &created, &s.Items); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadReportItems returns the stored items of a report in their original order.
func (d *DB) LoadReportItems(ctx context.Context, reportID string) ([]analyzer.ItemRecord, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT tweet_id, rank, expected_interaction, expected_date, status, COALESCE(attributes, '{}')
	  FROM report_items WHERE report_id=? ORDER BY seq`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []analyzer.ItemRecord
	for rows.Next() {
		var it analyzer.ItemRecord
		var status, attrs string
		if err := rows.Scan(&it.OriginalTweetID, &it.Rank, &it.ExpectedRankByInteraction, &it.ExpectedRankByDate, &status, &attrs); err != nil {
			return nil, err
		}
		st, err := analyzer.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		it.Status = st
		it.Attributes = model.NewAttributes()
		if err := json.Unmarshal([]byte(attrs), it.Attributes); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		var n int
		if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id=?`, reportID).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
		}
	}
	return out, nil
}
