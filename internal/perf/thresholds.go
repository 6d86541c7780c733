// Package perf evaluates k6 load-test summaries against latency and
// error-rate thresholds.
package perf

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Thresholds for a passing run. Latencies are milliseconds.
type Thresholds struct {
	P50LatencyMS     float64
	P95LatencyMS     float64
	P99LatencyMS     float64
	ErrorRatePercent float64
}

// DefaultThresholds matches the gateway's service level objectives.
func DefaultThresholds() Thresholds {
	return Thresholds{
		P50LatencyMS:     200,
		P95LatencyMS:     500,
		P99LatencyMS:     1000,
		ErrorRatePercent: 1.0,
	}
}

// Check is one threshold comparison from a summary.
type Check struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Limit  float64 `json:"limit"`
	Unit   string  `json:"unit"`
	Passed bool    `json:"passed"`
}

func (c Check) String() string {
	if c.Passed {
		return fmt.Sprintf("✓ %s %.2f%s", c.Name, c.Value, c.Unit)
	}
	return fmt.Sprintf("✗ %s %.2f%s exceeds %.2f%s", c.Name, c.Value, c.Unit, c.Limit, c.Unit)
}

// CheckFile evaluates a k6 JSON summary file. Absent metrics read as zero,
// matching k6's own behavior for runs without failed requests.
func CheckFile(path string, t Thresholds) ([]Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in summary %s", path)
	}
	return CheckSummary(data, t), nil
}

// CheckSummary evaluates a raw k6 summary document.
func CheckSummary(data []byte, t Thresholds) []Check {
	doc := gjson.ParseBytes(data)

	latency := func(name, key string, limit float64) Check {
		value := doc.Get("metrics.http_req_duration.values." + key).Float()
		return Check{Name: name, Value: value, Limit: limit, Unit: "ms", Passed: value <= limit}
	}

	checks := []Check{
		latency("p50 latency", "p(50)", t.P50LatencyMS),
		latency("p95 latency", "p(95)", t.P95LatencyMS),
		latency("p99 latency", "p(99)", t.P99LatencyMS),
	}

	errorRate := doc.Get("metrics.errors.values.rate").Float() * 100
	checks = append(checks, Check{
		Name:   "error rate",
		Value:  errorRate,
		Limit:  t.ErrorRatePercent,
		Unit:   "%",
		Passed: errorRate <= t.ErrorRatePercent,
	})

	return checks
}

// AllPassed reports whether every threshold held.
func AllPassed(checks []Check) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}
