package cli

import (
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/models"
	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/apimguard/apimguard/internal/report"
	"github.com/apimguard/apimguard/internal/secrets"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// secretsCmd scans for hardcoded credentials
var secretsCmd = &cobra.Command{
	Use:   "secrets <file-or-directory>",
	Short: "Scan configuration for hardcoded secrets",
	Long: `Scans YAML configuration for hardcoded passwords, tokens, API keys,
private keys, and credentialed connection strings. Placeholder values,
template expressions, and secret references are ignored.

Only critical detections (private keys, cloud access keys, VCS tokens)
fail the run; the rest are advisory. Use Kubernetes Secrets, External
Secrets Operator, or Sealed Secrets for anything flagged.

Examples:
  apimguard secrets apis/
  apimguard secrets apis/ --format=json`,
	Args:         cobra.ExactArgs(1),
	RunE:         runSecrets,
	SilenceUsage: true,
}

var (
	secretsFormatFlag string
	secretsExtFlag    string
)

func init() {
	secretsCmd.Flags().StringVar(&secretsFormatFlag, "format", "text", "Output format: text or json")
	secretsCmd.Flags().StringVar(&secretsExtFlag, "ext", ".yaml,.yml", "File extensions matched in directory mode")
}

// GetSecretsCmd export
func GetSecretsCmd() *cobra.Command {
	return secretsCmd
}

func runSecrets(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	path := args[0]

	sess := receipt.Start(ctx, "apimguard secrets", os.Args[1:])
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
		ctx, span = h.Tracer.Start(ctx, "apimguard.secrets",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "secrets"),
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

	log.Event(ctx, "secrets.start", map[string]any{"path": path})

	var resultStatus string
	defer func() {
		log.Event(ctx, "secrets.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	if err := validFormat(secretsFormatFlag); err != nil {
		resultStatus = "fail"
		return err
	}

	findings, scanErr := secrets.ScanPath(path, parseExts(secretsExtFlag))
	if scanErr != nil {
		resultStatus = "fail"
		return scanErr
	}

	// Only the critical subset (error severity) fails the run.
	result = report.Build("secrets", path, findings, models.SeverityError)
	if result.Failed() {
		resultStatus = "fail"
	} else {
		resultStatus = "success"
	}
	return emitResult(result, secretsFormatFlag)
}
