package rules

import (
	"github.com/apimguard/apimguard/internal/manifest"
	"github.com/apimguard/apimguard/internal/models"
)

// ValidatePath runs the full validation pass over a file or directory.
// Decode failures become file-level error findings and do not stop the
// scan; only a missing input path is fatal. Files are read, decoded, and
// evaluated to completion one at a time, in walk order.
func ValidatePath(root string, exts []string) ([]models.Finding, error) {
	files, err := manifest.Files(root, exts)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, file := range files {
		docs, err := manifest.LoadFile(file)
		if err != nil {
			findings = append(findings, models.Finding{
				Severity: models.SeverityError,
				Subject:  file,
				Message:  err.Error(),
				File:     file,
			})
			continue
		}
		for _, doc := range docs {
			findings = append(findings, Evaluate(doc)...)
		}
	}
	return findings, nil
}
