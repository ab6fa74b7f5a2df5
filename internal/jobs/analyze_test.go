package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/config"
	"censorcheck/internal/ingest"
	"censorcheck/internal/store/sqlite"
)

type fakeMirror struct {
	runs []int64
	err  error
}

func (f *fakeMirror) SaveReport(ctx context.Context, runID int64, rec analyzer.Record) error {
	f.runs = append(f.runs, runID)
	return f.err
}

type fakeExporter struct{ keys []string }

func (f *fakeExporter) Upload(ctx context.Context, rec analyzer.Record) (string, error) {
	k := "reports/" + rec.ID + ".json"
	f.keys = append(f.keys, k)
	return k, nil
}

func openWithRun(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	id, err := ingest.ImportFile(context.Background(), db, filepath.Join("..", "snapshot", "testdata", "run.json"))
	if err != nil {
		t.Fatal(err)
	}
	return db, id
}

func TestAnalyzeRun(t *testing.T) {
	db, id := openWithRun(t)
	m := &fakeMirror{}
	e := &fakeExporter{}
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d := Deps{DB: db, Mirror: m, Exporter: e, Config: config.Default(), Now: func() time.Time { return now }}

	rec, err := AnalyzeRun(context.Background(), d, id)
	if err != nil {
		t.Fatal(err)
	}
	want := []analyzer.Status{analyzer.VisibleWorst, analyzer.CensoredHidden, analyzer.SuppressedNormal}
	if len(rec.Items) != len(want) {
		t.Fatalf("items: %d", len(rec.Items))
	}
	for i, st := range want {
		if rec.Items[i].Status != st {
			t.Fatalf("item %d (%d): got %s want %s", i, rec.Items[i].OriginalTweetID, rec.Items[i].Status, st)
		}
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("created at: %v", rec.CreatedAt)
	}
	if len(m.runs) != 1 || m.runs[0] != id {
		t.Fatalf("mirror: %v", m.runs)
	}
	if len(e.keys) != 1 {
		t.Fatalf("export: %v", e.keys)
	}
	items, err := db.LoadReportItems(context.Background(), rec.ID)
	if err != nil || len(items) != 3 {
		t.Fatalf("stored items: %d %v", len(items), err)
	}
}

func TestAnalyzeRunMissing(t *testing.T) {
	db, _ := openWithRun(t)
	_, err := AnalyzeRun(context.Background(), Deps{DB: db, Config: config.Default()}, 42)
	if !errors.Is(err, sqlite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeRunMirrorError(t *testing.T) {
	db, id := openWithRun(t)
	m := &fakeMirror{err: errors.New("down")}
	if _, err := AnalyzeRun(context.Background(), Deps{DB: db, Mirror: m, Config: config.Default()}, id); err == nil {
		t.Fatal("expected mirror error")
	}
	// the local copy is kept
	pending, err := db.PendingSearchRuns(context.Background())
	if err != nil || len(pending) != 0 {
		t.Fatalf("pending: %v %v", pending, err)
	}
}

func TestRunAnalysisOnceClearsPending(t *testing.T) {
	db, _ := openWithRun(t)
	d := Deps{DB: db, Config: config.Default()}
	n, err := RunAnalysisOnce(context.Background(), d)
	if err != nil || n != 1 {
		t.Fatalf("first pass: %d %v", n, err)
	}
	n, err = RunAnalysisOnce(context.Background(), d)
	if err != nil || n != 0 {
		t.Fatalf("second pass: %d %v", n, err)
	}
	reports, err := db.ListReports(context.Background(), 10)
	if err != nil || len(reports) != 1 {
		t.Fatalf("reports: %v %v", reports, err)
	}
}

func TestRunAnalysisLoopStops(t *testing.T) {
	db, _ := openWithRun(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := RunAnalysisLoop(ctx, Deps{DB: db, Config: config.Default()}, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	pending, _ := db.PendingSearchRuns(context.Background())
	if len(pending) != 0 {
		t.Fatalf("pending after loop: %v", pending)
	}
}
