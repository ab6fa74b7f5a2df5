package export

import (
	"testing"
	"time"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/config"
)

func TestObjectKey(t *testing.T) {
	rec := analyzer.Record{ID: "abc", CreatedAt: time.Date(2024, 3, 7, 23, 30, 0, 0, time.UTC)}
	if got := ObjectKey("reports", rec); got != "reports/2024/03/07/abc.json" {
		t.Fatalf("key: %s", got)
	}
	if got := ObjectKey("/team/reports/", rec); got != "team/reports/2024/03/07/abc.json" {
		t.Fatalf("trimmed key: %s", got)
	}
	if got := ObjectKey("", rec); got != "2024/03/07/abc.json" {
		t.Fatalf("empty prefix: %s", got)
	}
}

func TestObjectKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("east", 5*3600)
	rec := analyzer.Record{ID: "x", CreatedAt: time.Date(2024, 1, 1, 2, 0, 0, 0, loc)}
	if got := ObjectKey("r", rec); got != "r/2023/12/31/x.json" {
		t.Fatalf("key: %s", got)
	}
}

func TestNewS3ExporterRequiresBucket(t *testing.T) {
	if _, err := NewS3Exporter(config.ExportConfig{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without bucket")
	}
	e, err := NewS3Exporter(config.ExportConfig{Region: "us-east-1", Bucket: "b", Endpoint: "http://localhost:9000"})
	if err != nil || e == nil {
		t.Fatalf("exporter: %v", err)
	}
}
