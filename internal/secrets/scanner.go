// Package secrets scans configuration text for hardcoded credentials.
// It is line-oriented pattern matching, deliberately separate from the
// structural rules catalogue: the two have different false-positive
// tradeoffs.
package secrets

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/apimguard/apimguard/internal/models"
)

const maxLineExcerpt = 100

// ScanPath checks every matching file under a path. Findings are
// deduplicated by (file, line, description). Critical detections are
// errors and fail the run; everything else is advisory.
func ScanPath(root string, exts []string) ([]models.Finding, error) {
	files, err := manifest.Files(root, exts)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	seen := map[string]bool{}
	for _, file := range files {
		fileFindings, err := ScanFile(file)
		if err != nil {
			findings = append(findings, models.Finding{
				Severity: models.SeverityError,
				Subject:  file,
				Message:  err.Error(),
				File:     file,
			})
			continue
		}
		for _, f := range fileFindings {
			key := fmt.Sprintf("%s:%d:%s", f.File, f.Line, f.Message)
			if seen[key] {
				continue
			}
			seen[key] = true
			findings = append(findings, f)
		}
	}
	return findings, nil
}

// ScanFile checks one file line by line.
func ScanFile(path string) ([]models.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var findings []models.Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		for _, p := range sensitivePatterns {
			if !p.re.MatchString(line) {
				continue
			}
			if lineIsSafe(line) {
				continue
			}
			severity := models.SeverityWarning
			if p.critical {
				severity = models.SeverityError
			}
			findings = append(findings, models.Finding{
				Severity: severity,
				Subject:  path,
				Message:  fmt.Sprintf("%s: %s", p.description, excerpt(line)),
				File:     path,
				Line:     lineNum,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return findings, nil
}

func lineIsSafe(line string) bool {
	for _, p := range safeValuePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func excerpt(line string) string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > maxLineExcerpt {
		return trimmed[:maxLineExcerpt]
	}
	return trimmed
}
