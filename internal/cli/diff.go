package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/differ"
	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// diffCmd compares two manifest files
var diffCmd = &cobra.Command{
	Use:   "diff <old.yaml> <new.yaml>",
	Short: "Semantic diff of two gateway manifest files",
	Long: `Compares two renderings of the same gateway configuration and reports
added, removed and changed resources, with human-readable summaries of
what changed in each resource.

Example:
  apimguard diff deploy/prod.yaml deploy/staging.yaml
  apimguard diff old.yaml new.yaml --format=json`,
	Args:         cobra.ExactArgs(2),
	RunE:         runDiff,
	SilenceUsage: true,
}

var (
	diffFormatFlag   string
	diffFailOnChange bool
)

func init() {
	diffCmd.Flags().StringVar(&diffFormatFlag, "format", "text", "Output format: text or json")
	diffCmd.Flags().BoolVar(&diffFailOnChange, "fail-on-change", false, "Exit nonzero when any resource differs")
}

// GetDiffCmd export
func GetDiffCmd() *cobra.Command {
	return diffCmd
}

func runDiff(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	oldPath, newPath := args[0], args[1]

	sess := receipt.Start(ctx, "apimguard diff", os.Args[1:])
	defer func() {
		_ = sess.Finish(err)
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "apimguard.diff",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "diff"),
				attribute.String("apimguard.old", oldPath),
				attribute.String("apimguard.new", newPath),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
			} else {
				span.SetStatus(codes.Ok, "success")
			}
			span.End()
		}()
	}

	log.Event(ctx, "diff.start", map[string]any{"old": oldPath, "new": newPath})

	var resultStatus string
	defer func() {
		log.Event(ctx, "diff.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	if err := validFormat(diffFormatFlag); err != nil {
		resultStatus = "fail"
		return err
	}

	result, diffErr := differ.CompareFiles(oldPath, newPath)
	if diffErr != nil {
		resultStatus = "fail"
		return diffErr
	}

	if diffFormatFlag == "json" {
		out, jsonErr := json.MarshalIndent(result, "", "  ")
		if jsonErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("failed to format JSON output: %w", jsonErr)
		}
		fmt.Println(string(out))
		resultStatus = "success"
		if diffFailOnChange && result.HasChanges {
			os.Exit(1)
		}
		return nil
	}

	printDiffText(result, oldPath, newPath)
	resultStatus = "success"
	if diffFailOnChange && result.HasChanges {
		return fmt.Errorf("diff detected %d changed resource(s)", len(result.Diffs))
	}
	return nil
}

func printDiffText(result *differ.Result, oldPath, newPath string) {
	fmt.Printf("Comparing %s -> %s\n\n", oldPath, newPath)
	if !result.HasChanges {
		fmt.Printf("%s✓ No differences%s\n", colorGreen, colorReset)
		return
	}

	for _, d := range result.Diffs {
		switch d.Type {
		case differ.ChangeAdded:
			fmt.Printf("%s+ %s/%s (added)%s\n", colorGreen, d.Kind, d.Name, colorReset)
		case differ.ChangeRemoved:
			fmt.Printf("%s- %s/%s (removed)%s\n", colorRed, d.Kind, d.Name, colorReset)
		case differ.ChangeChanged:
			fmt.Printf("%s~ %s/%s (changed)%s\n", colorYellow, d.Kind, d.Name, colorReset)
			for _, t := range d.Translations {
				fmt.Printf("    %s\n", t)
			}
		}
	}
	fmt.Printf("\n%d resource(s) differ\n", len(result.Diffs))
}
