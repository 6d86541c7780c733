package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/models"
	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/apimguard/apimguard/internal/report"
	"github.com/apimguard/apimguard/internal/rules"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// validateCmd runs the CRD structure validator
var validateCmd = &cobra.Command{
	Use:   "validate <file-or-directory>",
	Short: "Validate gateway CRD structure and content",
	Long: `Validates ApiDefinition, ApiPlan, and ManagementContext resources
against the rule catalogue: required fields, legal enum values, and
structural constraints. Directories are walked recursively for YAML files.

Documents outside the gravitee.io API group are skipped; a directory may
hold unrelated manifests. Errors fail the run, warnings are advisory.

Examples:
  apimguard validate apis/
  apimguard validate apis/orders.yaml --format=json
  apimguard validate apis/ --fail-on=warning`,
	Args:         cobra.ExactArgs(1),
	RunE:         runValidate,
	SilenceUsage: true,
}

var (
	validateFormatFlag string
	validateFailOnFlag string
	validateExtFlag    string
)

func init() {
	validateCmd.Flags().StringVar(&validateFormatFlag, "format", "text", "Output format: text or json")
	validateCmd.Flags().StringVar(&validateFailOnFlag, "fail-on", "error", "Severity threshold for failure: error or warning")
	validateCmd.Flags().StringVar(&validateExtFlag, "ext", ".yaml,.yml", "File extensions matched in directory mode")
}

// GetValidateCmd export
func GetValidateCmd() *cobra.Command {
	return validateCmd
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	path := args[0]

	sess := receipt.Start(ctx, "apimguard validate", os.Args[1:])
	var result *report.Result
	defer func() {
		opts := []receipt.Option{receipt.WithInput(path)}
		if result != nil {
			opts = append(opts, receipt.WithFindings(
				result.Summary.Errors, result.Summary.Warnings, result.Summary.Infos, result.Outcome))
		}
		_ = sess.Finish(err, opts...)
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "apimguard.validate",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "validate"),
				attribute.String("apimguard.path", path),
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

	log.Event(ctx, "validate.start", map[string]any{"path": path})

	var resultStatus string
	defer func() {
		log.Event(ctx, "validate.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	if err := validFormat(validateFormatFlag); err != nil {
		resultStatus = "fail"
		return err
	}

	failOn, parseErr := models.ParseSeverity(validateFailOnFlag)
	if parseErr != nil || failOn == models.SeverityInfo {
		resultStatus = "fail"
		return fmt.Errorf("invalid fail-on level: %s (use error or warning)", validateFailOnFlag)
	}

	findings, valErr := rules.ValidatePath(path, parseExts(validateExtFlag))
	if valErr != nil {
		resultStatus = "fail"
		return valErr
	}

	result = report.Build("validate", path, findings, failOn)
	if result.Failed() {
		resultStatus = "fail"
	} else {
		resultStatus = "success"
	}
	return emitResult(result, validateFormatFlag)
}
