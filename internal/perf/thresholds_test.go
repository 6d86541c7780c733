package perf

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const passingSummary = `{
  "metrics": {
    "http_req_duration": {
      "values": {"p(50)": 42.5, "p(95)": 180.2, "p(99)": 540.0}
    },
    "errors": {
      "values": {"rate": 0.002}
    }
  }
}`

func TestCheckSummaryAllPassing(t *testing.T) {
	checks := CheckSummary([]byte(passingSummary), DefaultThresholds())
	if len(checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(checks))
	}
	if !AllPassed(checks) {
		t.Fatalf("expected all thresholds to pass: %v", checks)
	}

	if checks[0].Name != "p50 latency" || checks[0].Value != 42.5 {
		t.Errorf("unexpected p50 check: %+v", checks[0])
	}
	if checks[3].Name != "error rate" || math.Abs(checks[3].Value-0.2) > 1e-9 {
		t.Errorf("expected error rate as percent, got %+v", checks[3])
	}
}

func TestCheckSummaryLatencyExceeded(t *testing.T) {
	summary := strings.Replace(passingSummary, `"p(95)": 180.2`, `"p(95)": 750.0`, 1)
	checks := CheckSummary([]byte(summary), DefaultThresholds())

	if AllPassed(checks) {
		t.Fatal("expected p95 check to fail")
	}
	for _, c := range checks {
		if c.Name == "p95 latency" {
			if c.Passed {
				t.Error("p95 check should fail at 750ms against 500ms")
			}
			if !strings.Contains(c.String(), "exceeds") {
				t.Errorf("failed check should render the limit: %s", c)
			}
		} else if !c.Passed {
			t.Errorf("only p95 should fail, %s failed too", c.Name)
		}
	}
}

func TestCheckSummaryErrorRateExceeded(t *testing.T) {
	summary := strings.Replace(passingSummary, `"rate": 0.002`, `"rate": 0.05`, 1)
	checks := CheckSummary([]byte(summary), DefaultThresholds())

	for _, c := range checks {
		if c.Name == "error rate" {
			if c.Passed {
				t.Error("5% error rate should fail the 1% threshold")
			}
			if math.Abs(c.Value-5.0) > 1e-9 {
				t.Errorf("expected 5.0 percent, got %v", c.Value)
			}
		}
	}
}

func TestCheckSummaryAbsentMetricsReadAsZero(t *testing.T) {
	checks := CheckSummary([]byte(`{"metrics": {}}`), DefaultThresholds())
	if !AllPassed(checks) {
		t.Fatalf("absent metrics should read as zero and pass: %v", checks)
	}
}

func TestCheckSummaryCustomThresholds(t *testing.T) {
	strict := Thresholds{P50LatencyMS: 10, P95LatencyMS: 20, P99LatencyMS: 30, ErrorRatePercent: 0.1}
	checks := CheckSummary([]byte(passingSummary), strict)
	if AllPassed(checks) {
		t.Fatal("expected strict thresholds to fail")
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := os.WriteFile(path, []byte(passingSummary), 0o644); err != nil {
		t.Fatal(err)
	}

	checks, err := CheckFile(path, DefaultThresholds())
	if err != nil {
		t.Fatalf("CheckFile failed: %v", err)
	}
	if !AllPassed(checks) {
		t.Errorf("expected passing checks: %v", checks)
	}
}

func TestCheckFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckFile(path, DefaultThresholds()); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestCheckFileMissing(t *testing.T) {
	if _, err := CheckFile(filepath.Join(t.TempDir(), "absent.json"), DefaultThresholds()); err == nil {
		t.Fatal("expected error for missing summary file")
	}
}
