package messages

import "testing"

func TestFormatDefaultsAndOverrides(t *testing.T) {
	b := New(nil)
	if got := b.Format(ReportName, "alice", "2026-01-02T00:00:00Z"); got != "Reply analysis for @alice (2026-01-02T00:00:00Z)" {
		t.Fatalf("default name: %q", got)
	}
	b = New(map[string]string{ReportName: "report %s/%s", ReportDescription: ""})
	if got := b.Format(ReportName, "a", "b"); got != "report a/b" {
		t.Fatalf("override: %q", got)
	}
	if got := b.Format(ReportDescription, "a", "b"); got == "" || got == ReportDescription {
		t.Fatalf("empty override should keep default, got %q", got)
	}
	if got := b.Format("missing"); got != "missing" {
		t.Fatalf("unknown key: %q", got)
	}
}
