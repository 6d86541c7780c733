package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/extract"
	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// extractCmd pulls embedded OpenAPI specs out of API definitions
var extractCmd = &cobra.Command{
	Use:   "extract <input-dir> <output-dir>",
	Short: "Extract embedded OpenAPI specs from API definitions",
	Long: `Extracts OpenAPI documents embedded in ApiDefinition content
resources into standalone files, one per API, for downstream spec
validation.

Example:
  apimguard extract apis/ build/openapi/`,
	Args:         cobra.ExactArgs(2),
	RunE:         runExtract,
	SilenceUsage: true,
}

var extractExtFlag string

func init() {
	extractCmd.Flags().StringVar(&extractExtFlag, "ext", ".yaml,.yml", "File extensions matched in the input directory")
}

// GetExtractCmd export
func GetExtractCmd() *cobra.Command {
	return extractCmd
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	inputDir, outputDir := args[0], args[1]

	sess := receipt.Start(ctx, "apimguard extract", os.Args[1:])
	defer func() {
		_ = sess.Finish(err, receipt.WithInput(inputDir))
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "apimguard.extract",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "extract"),
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

	log.Event(ctx, "extract.start", map[string]any{"input": inputDir, "output": outputDir})

	var extracted int
	defer func() {
		log.Event(ctx, "extract.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"extracted":   extracted,
		})
	}()

	results, exErr := extract.FromPath(inputDir, outputDir, parseExts(extractExtFlag))
	if exErr != nil {
		return exErr
	}

	for _, r := range results {
		fmt.Printf("Extracted OpenAPI spec: %s\n", r.Output)
	}
	extracted = len(results)
	fmt.Printf("\nTotal OpenAPI specs extracted: %d\n", extracted)
	return nil
}
