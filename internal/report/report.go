// Package report aggregates findings across a run and renders them for
// CI consumption.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apimguard/apimguard/internal/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Result is the complete outcome of one checker run.
type Result struct {
	Checker  string           `json:"checker"`
	Path     string           `json:"path"`
	Findings []models.Finding `json:"findings"`
	Summary  models.Summary   `json:"summary"`
	FailOn   string           `json:"failOn"`
	Outcome  string           `json:"outcome"` // "PASS" or "FAIL"
}

// Build partitions findings and computes the outcome against the failure
// threshold. Findings keep their discovery order.
func Build(checker, path string, findings []models.Finding, failOn models.Severity) *Result {
	if findings == nil {
		findings = []models.Finding{}
	}
	r := &Result{
		Checker:  checker,
		Path:     path,
		Findings: findings,
		Summary:  models.Summarize(findings),
		FailOn:   failOn.String(),
		Outcome:  "PASS",
	}
	for _, f := range findings {
		if f.Severity >= failOn {
			r.Outcome = "FAIL"
			break
		}
	}
	return r
}

// Failed reports whether the run should exit nonzero.
func (r *Result) Failed() bool {
	return r.Outcome == "FAIL"
}

// FormatText renders the findings grouped by severity: errors, then
// warnings, then info, with a trailing count summary.
func FormatText(r *Result) string {
	var sb strings.Builder

	bySeverity := func(sev models.Severity) []models.Finding {
		var out []models.Finding
		for _, f := range r.Findings {
			if f.Severity == sev {
				out = append(out, f)
			}
		}
		return out
	}

	writeGroup := func(heading, color string, findings []models.Finding) {
		if len(findings) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("\n%s%s (%d)%s\n", color, heading, len(findings), colorReset))
		for _, f := range findings {
			sb.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}

	writeGroup("ERRORS", colorRed, bySeverity(models.SeverityError))
	writeGroup("WARNINGS", colorYellow, bySeverity(models.SeverityWarning))
	writeGroup("INFO", "", bySeverity(models.SeverityInfo))

	if r.Summary.Total == 0 {
		sb.WriteString(fmt.Sprintf("%s✓ All validations passed%s\n", colorGreen, colorReset))
	}

	sb.WriteString(fmt.Sprintf("\nSummary: %d errors, %d warnings, %d info\n",
		r.Summary.Errors, r.Summary.Warnings, r.Summary.Infos))
	return sb.String()
}

// FormatJSON raw json
func FormatJSON(r *Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
