package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposure(t *testing.T) {
	AnalysisRuns.Inc()
	AnalysisErrors.Inc()
	PairsSkipped.Inc()
	IncItemStatus("VISIBLE_BEST")
	IncCommandRun("analyze")
	IncCommandError("analyze")
	ObserveAnalysisDuration(time.Now().Add(-1500 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"censorcheck_analysis_runs_total",
		"censorcheck_analysis_errors_total",
		"censorcheck_analysis_duration_seconds",
		"censorcheck_pairs_skipped_total",
		`censorcheck_item_status_total{status="VISIBLE_BEST"}`,
		`censorcheck_command_runs_total{command="analyze"}`,
		`censorcheck_command_errors_total{command="analyze"}`,
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status: %d", rec.Code)
	}
}
