package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/apimguard/apimguard/internal/report"
)

// validFormat checks the --format flag.
func validFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (use text or json)", format)
	}
	return nil
}

// parseExts splits a comma-separated extension list, normalizing to a
// leading dot.
func parseExts(s string) []string {
	if s == "" {
		return nil
	}
	var exts []string
	for _, ext := range strings.Split(s, ",") {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// emitResult renders a checker result and converts a FAIL outcome into a
// nonzero exit. For JSON output the process exits directly so cobra's
// "Error:" line cannot corrupt the document on stdout.
func emitResult(result *report.Result, format string) error {
	if format == "json" {
		out, err := report.FormatJSON(result)
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %w", err)
		}
		fmt.Println(string(out))
		if result.Failed() {
			os.Exit(1)
		}
		return nil
	}

	fmt.Print(report.FormatText(result))
	if result.Failed() {
		return fmt.Errorf("%s failed: %d error(s), %d warning(s)",
			result.Checker, result.Summary.Errors, result.Summary.Warnings)
	}
	return nil
}
