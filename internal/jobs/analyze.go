package jobs

import (
	"context"
	"fmt"
	"time"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/config"
	"censorcheck/internal/logging"
	"censorcheck/internal/messages"
	"censorcheck/internal/metrics"
	"censorcheck/internal/store/sqlite"
)

// ReportMirror receives a copy of every saved report.
type ReportMirror interface {
	SaveReport(ctx context.Context, runID int64, rec analyzer.Record) error
}

// ReportExporter publishes a saved report and returns where it went.
type ReportExporter interface {
	Upload(ctx context.Context, rec analyzer.Record) (string, error)
}

// Deps is what an analysis pass needs. Mirror and Exporter are optional.
type Deps struct {
	DB       *sqlite.DB
	Mirror   ReportMirror
	Exporter ReportExporter
	Config   config.Config
	Bundle   messages.Bundle
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// AnalyzeRun builds the report for a stored search run and persists it.
func AnalyzeRun(ctx context.Context, d Deps, runID int64) (analyzer.Record, error) {
	start := time.Now()
	metrics.AnalysisRuns.Inc()
	rec, err := analyzeRun(ctx, d, runID)
	if err != nil {
		metrics.AnalysisErrors.Inc()
		logging.Error("analyze_error", map[string]any{"run_id": runID, "error": err.Error()})
		return analyzer.Record{}, err
	}
	metrics.ObserveAnalysisDuration(start)
	return rec, nil
}

func analyzeRun(ctx context.Context, d Deps, runID int64) (analyzer.Record, error) {
	run, err := d.DB.LoadSearchRun(ctx, runID)
	if err != nil {
		return analyzer.Record{}, err
	}
	bundle := d.Bundle
	if bundle == nil {
		bundle = messages.New(d.Config.Messages)
	}
	r := analyzer.NewReport(run, bundle, analyzer.WithParallelism(d.Config.Analysis.Parallelism))
	if err := r.Run(ctx); err != nil {
		return analyzer.Record{}, fmt.Errorf("run %d: %w", runID, err)
	}
	metrics.PairsSkipped.Add(float64(r.Skipped()))
	for _, it := range r.Items() {
		metrics.IncItemStatus(string(it.Status))
	}

	rec := r.Record(d.now())
	if err := d.DB.SaveReport(ctx, runID, rec); err != nil {
		return analyzer.Record{}, fmt.Errorf("save report: %w", err)
	}
	fields := map[string]any{
		"run_id":    runID,
		"report_id": rec.ID,
		"items":     len(rec.Items),
		"skipped":   r.Skipped(),
	}
	if d.Mirror != nil {
		if err := d.Mirror.SaveReport(ctx, runID, rec); err != nil {
			return rec, fmt.Errorf("mirror report: %w", err)
		}
	}
	if d.Exporter != nil {
		key, err := d.Exporter.Upload(ctx, rec)
		if err != nil {
			return rec, fmt.Errorf("export report: %w", err)
		}
		fields["object_key"] = key
	}
	logging.Info("analyze_ok", fields)
	return rec, nil
}

// RunAnalysisOnce analyzes every stored run that has no report yet.
func RunAnalysisOnce(ctx context.Context, d Deps) (int, error) {
	ids, err := d.DB.PendingSearchRuns(ctx)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := AnalyzeRun(ctx, d, id); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// RunAnalysisLoop runs RunAnalysisOnce on a ticker until ctx is cancelled.
func RunAnalysisLoop(ctx context.Context, d Deps, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	// run immediately
	if _, err := RunAnalysisOnce(ctx, d); err != nil {
		logging.Error("analysis_once_error", map[string]any{"error": err.Error()})
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("analysis_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if _, err := RunAnalysisOnce(ctx, d); err != nil {
				logging.Error("analysis_once_error", map[string]any{"error": err.Error()})
			}
		}
	}
}
