package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"censorcheck/internal/analytics"
	"censorcheck/internal/analyzer"
	"censorcheck/internal/cmdlog"
	"censorcheck/internal/config"
	"censorcheck/internal/export"
	"censorcheck/internal/ingest"
	"censorcheck/internal/jobs"
	"censorcheck/internal/logging"
	"censorcheck/internal/messages"
	"censorcheck/internal/metrics"
	"censorcheck/internal/snapshot"
	"censorcheck/internal/store/postgres"
	"censorcheck/internal/store/sqlite"
	"censorcheck/internal/theme"
	"censorcheck/internal/util"
)

const defaultConfigPath = "./censorcheck.yaml"

func main() {
	config.LoadDotEnv()
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	var err error
	switch cmd {
	case "init":
		err = cmdInit(os.Args[2:])
	case "import":
		err = cmdImport(os.Args[2:])
	case "analyze":
		err = cmdAnalyze(os.Args[2:])
	case "reports":
		err = cmdReports(os.Args[2:])
	case "watch":
		err = cmdWatch(os.Args[2:])
	default:
		printHelp()
		return
	}
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: censorcheck <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./censorcheck.yaml")
	fmt.Println("  import      Store capture files as search runs")
	fmt.Println("  analyze     Classify replies of a capture file or stored run")
	fmt.Println("  reports     List stored reports, or show one with -id")
	fmt.Println("  watch       Analyze pending runs on an interval")
}

// loadConfig reads the config and sets up logging from it.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadOrEnv(path)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	logging.Init(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// openDeps opens the local store plus the optional mirror and exporter.
func openDeps(ctx context.Context, cfg config.Config) (jobs.Deps, func(), error) {
	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return jobs.Deps{}, nil, fmt.Errorf("open %s: %w", cfg.Storage.DBPath, err)
	}
	d := jobs.Deps{DB: db, Config: cfg, Bundle: messages.New(cfg.Messages)}
	closers := []func(){func() { _ = db.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Storage.PostgresDSN != "" {
		pg, err := postgres.New(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			cleanup()
			return jobs.Deps{}, nil, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, pg.Close)
		d.Mirror = pg
	}
	if cfg.Export.Bucket != "" {
		e, err := export.NewS3Exporter(cfg.Export)
		if err != nil {
			cleanup()
			return jobs.Deps{}, nil, err
		}
		d.Exporter = e
	}
	return d, cleanup, nil
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", defaultConfigPath, "path to write config")
	_ = fs.Parse(args)
	return cmdlog.Run("init", func() error {
		if err := config.Save(*path, config.Default()); err != nil {
			return err
		}
		abs, _ := filepath.Abs(*path)
		theme.PrintBanner()
		fmt.Println("Config written to:", abs)
		return nil
	})
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		return errors.New("usage: censorcheck import [-config path] <capture.json>...")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	return cmdlog.Run("import", func() error {
		db, err := sqlite.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		ctx := context.Background()
		for _, p := range fs.Args() {
			id, err := ingest.ImportFile(ctx, db, p)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> run %d\n", p, id)
		}
		return nil
	})
}

func cmdAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	file := fs.String("file", "", "capture file to analyze without storing")
	runID := fs.Int64("run", 0, "stored search run to analyze")
	asJSON := fs.Bool("json", false, "print the report record as JSON")
	_ = fs.Parse(args)
	if (*file == "") == (*runID == 0) {
		return errors.New("analyze needs exactly one of -file or -run")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	return cmdlog.Run("analyze", func() error {
		ctx := context.Background()
		var rec analyzer.Record
		if *file != "" {
			rec, err = analyzeFile(ctx, cfg, *file)
		} else {
			d, cleanup, derr := openDeps(ctx, cfg)
			if derr != nil {
				return derr
			}
			defer cleanup()
			rec, err = jobs.AnalyzeRun(ctx, d, *runID)
		}
		if err != nil {
			return err
		}
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		printRecord(rec.Name, rec.Items)
		return nil
	})
}

func analyzeFile(ctx context.Context, cfg config.Config, path string) (analyzer.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return analyzer.Record{}, err
	}
	defer f.Close()
	run, err := snapshot.Decode(f)
	if err != nil {
		return analyzer.Record{}, err
	}
	r := analyzer.NewReport(run, messages.New(cfg.Messages), analyzer.WithParallelism(cfg.Analysis.Parallelism))
	if err := r.Run(ctx); err != nil {
		return analyzer.Record{}, err
	}
	return r.Record(time.Now()), nil
}

func printRecord(title string, items []analyzer.ItemRecord) {
	fmt.Println(title)
	fmt.Printf("%-20s %5s %9s %7s  %s\n", "TWEET", "RANK", "BY-INTER", "BY-DATE", "STATUS")
	for _, it := range items {
		fmt.Printf("%-20d %5d %9d %7d  %s\n", it.OriginalTweetID, it.Rank, it.ExpectedRankByInteraction, it.ExpectedRankByDate, it.Status)
	}
	counts := analytics.RecordStatusCounts(items)
	fmt.Println("---")
	for _, st := range analytics.SortedStatuses(counts) {
		fmt.Printf("%-18s %d\n", st, counts[st])
	}
}

func cmdReports(args []string) error {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	limit := fs.Int("limit", 20, "reports to list")
	id := fs.String("id", "", "show the items of one report")
	_ = fs.Parse(args)
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	return cmdlog.Run("reports", func() error {
		db, err := sqlite.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		ctx := context.Background()
		if *id != "" {
			items, err := db.LoadReportItems(ctx, *id)
			if err != nil {
				return err
			}
			printRecord(*id, items)
			return nil
		}
		list, err := db.ListReports(ctx, *limit)
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Printf("%s run=%d items=%d %s %s\n", s.ID, s.RunID, s.Items, s.CreatedAt.Format(time.RFC3339), util.Truncate(s.Name, 60))
		}
		return nil
	})
}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	interval := fs.Duration("interval", time.Minute, "poll interval")
	_ = fs.Parse(args)
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	metrics.StartServer(cfg.Metrics.Addr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmdlog.Run("watch", func() error {
		d, cleanup, err := openDeps(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		err = jobs.RunAnalysisLoop(ctx, d, *interval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}
