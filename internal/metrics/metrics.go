package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "censorcheck_analysis_runs_total",
		Help: "Total report runs",
	})
	AnalysisErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "censorcheck_analysis_errors_total",
		Help: "Total failed report runs",
	})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "censorcheck_analysis_duration_seconds",
		Help:    "Report run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	PairsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "censorcheck_pairs_skipped_total",
		Help: "Original-reply IDs skipped for lack of a captured pair",
	})
	ItemStatuses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "censorcheck_item_status_total",
		Help: "Report items by status",
	}, []string{"status"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "censorcheck_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "censorcheck_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(AnalysisRuns, AnalysisErrors, AnalysisDuration, PairsSkipped, ItemStatuses, CommandRuns, CommandErrors)
}

// Router serves /metrics and /health.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	srv := &http.Server{Addr: addr, Handler: Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.ListenAndServe() }()
}

// ObserveAnalysisDuration records a run duration.
func ObserveAnalysisDuration(start time.Time) {
	AnalysisDuration.Observe(time.Since(start).Seconds())
}

func IncItemStatus(status string) { ItemStatuses.WithLabelValues(status).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
