package cmdlog

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"censorcheck/internal/logging"
)

func TestRunLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(&buf, "info", "json")
	defer logging.Init(os.Stdout, "info", "json")

	if err := Run("demo", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := Run("demo", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "demo_ok") || !strings.Contains(out, "demo_error") || !strings.Contains(out, "boom") {
		t.Fatalf("log output: %s", out)
	}
}
