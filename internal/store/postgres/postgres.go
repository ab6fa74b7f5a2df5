package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"censorcheck/internal/analyzer"
)

// Store mirrors reports into a shared PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.MaxConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS censorcheck_reports (
			id TEXT PRIMARY KEY,
			run_id BIGINT NOT NULL,
			analysis_type TEXT NOT NULL,
			handle TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			attributes JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS censorcheck_report_items (
			report_id TEXT NOT NULL REFERENCES censorcheck_reports(id) ON DELETE CASCADE,
			seq INT NOT NULL,
			tweet_id BIGINT NOT NULL,
			rank INT NOT NULL,
			expected_interaction INT NOT NULL,
			expected_date INT NOT NULL,
			status TEXT NOT NULL,
			attributes JSONB,
			PRIMARY KEY (report_id, seq)
		)`,
	}
	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// SaveReport writes the report and its items in one transaction.
func (s *Store) SaveReport(ctx context.Context, runID int64, rec analyzer.Record) error {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO censorcheck_reports
			(id, run_id, analysis_type, handle, name, description, start_time, created_at, attributes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			rec.ID, runID, rec.AnalysisType, rec.Handle, rec.Name, rec.Description, rec.StartTime, rec.CreatedAt, attrs); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		batch := &pgx.Batch{}
		for i, it := range rec.Items {
			ia, err := json.Marshal(it.Attributes)
			if err != nil {
				return err
			}
			batch.Queue(`INSERT INTO censorcheck_report_items
				(report_id, seq, tweet_id, rank, expected_interaction, expected_date, status, attributes)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				rec.ID, i, it.OriginalTweetID, it.Rank, it.ExpectedRankByInteraction, it.ExpectedRankByDate, string(it.Status), ia)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// ReportRow is one row of the report listing.
type ReportRow struct {
	ID        string
	RunID     int64
	Handle    string
	Name      string
	CreatedAt time.Time
}

// ListReports returns the newest reports first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]ReportRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `SELECT id, run_id, handle, name, created_at
		FROM censorcheck_reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ReportRow, error) {
		var r ReportRow
		err := row.Scan(&r.ID, &r.RunID, &r.Handle, &r.Name, &r.CreatedAt)
		return r, err
	})
}
