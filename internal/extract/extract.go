// Package extract pulls OpenAPI documents embedded in ApiDefinition
// resources out to standalone files for downstream spec validation.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apimguard/apimguard/internal/manifest"
)

// Result records where each embedded spec was written.
type Result struct {
	Source string
	Output string
}

// FromPath extracts every embedded OpenAPI spec under inputDir into
// outputDir, one file per API, named <metadata.name>-openapi.yaml.
// Unparseable files are skipped; the caller decides whether to surface
// the skip count.
func FromPath(inputDir, outputDir string, exts []string) ([]Result, error) {
	files, err := manifest.Files(inputDir, exts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var results []Result
	for _, file := range files {
		docs, err := manifest.LoadFile(file)
		if err != nil {
			continue
		}
		for _, doc := range docs {
			content := FromDocument(doc)
			if content == "" {
				continue
			}
			out := filepath.Join(outputDir, doc.Name()+"-openapi.yaml")
			if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", out, err)
			}
			results = append(results, Result{Source: file, Output: out})
		}
	}
	return results, nil
}

// FromDocument returns the embedded OpenAPI content of an ApiDefinition,
// or "" when none is present. Only content resources that look like an
// OpenAPI or Swagger document qualify.
func FromDocument(doc *manifest.Document) string {
	if doc.Kind != "ApiDefinition" {
		return ""
	}
	for _, resource := range manifest.Sequence(doc.Raw(), "spec.resources") {
		if t, _ := resource["type"].(string); t != "content" {
			continue
		}
		content := manifest.LookupString(resource, "configuration.content")
		if strings.Contains(content, "openapi:") || strings.Contains(content, "swagger:") {
			return content
		}
	}
	return ""
}
