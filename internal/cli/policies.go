package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/advisor"
	"github.com/apimguard/apimguard/internal/models"
	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/apimguard/apimguard/internal/report"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// policiesCmd runs the policy best-practice advisor
var policiesCmd = &cobra.Command{
	Use:   "policies <file-or-directory>",
	Short: "Check API policies against best practices",
	Long: `Checks ApiDefinition policy chains for security, performance, and
configuration issues: missing rate limiting, unconditioned payload
logging, absent security headers, and external calls without a circuit
breaker. Findings are tiered error/warning/info; only errors fail the run.

Custom governance rules (CEL expressions over each resource) can be added
with --rules, or one of the built-in presets with --preset.

Examples:
  apimguard policies apis/
  apimguard policies apis/ --preset=strict
  apimguard policies apis/ --rules=governance.yaml --format=json`,
	Args:         cobra.ExactArgs(1),
	RunE:         runPolicies,
	SilenceUsage: true,
}

var (
	policiesFormatFlag string
	policiesRulesFlag  string
	policiesPresetFlag string
	policiesExtFlag    string
)

func init() {
	policiesCmd.Flags().StringVar(&policiesFormatFlag, "format", "text", "Output format: text or json")
	policiesCmd.Flags().StringVar(&policiesRulesFlag, "rules", "", "Path to a custom CEL rule set (YAML)")
	policiesCmd.Flags().StringVar(&policiesPresetFlag, "preset", "", "Built-in rule set: baseline or strict")
	policiesCmd.Flags().StringVar(&policiesExtFlag, "ext", ".yaml,.yml", "File extensions matched in directory mode")
}

// GetPoliciesCmd export
func GetPoliciesCmd() *cobra.Command {
	return policiesCmd
}

func runPolicies(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	path := args[0]

	sess := receipt.Start(ctx, "apimguard policies", os.Args[1:])
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
		ctx, span = h.Tracer.Start(ctx, "apimguard.policies",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "policies"),
				attribute.String("apimguard.preset", policiesPresetFlag),
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

	log.Event(ctx, "policies.start", map[string]any{"path": path})

	var resultStatus string
	defer func() {
		log.Event(ctx, "policies.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	if err := validFormat(policiesFormatFlag); err != nil {
		resultStatus = "fail"
		return err
	}

	exts := parseExts(policiesExtFlag)

	findings, advErr := advisor.AdvisePath(path, exts)
	if advErr != nil {
		resultStatus = "fail"
		return advErr
	}

	ruleSet, loadErr := loadRuleSet()
	if loadErr != nil {
		resultStatus = "fail"
		return loadErr
	}
	if ruleSet != nil {
		engine, engErr := advisor.NewEngine()
		if engErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("failed to create rule engine: %w", engErr)
		}
		if err := engine.CompileAndValidate(ruleSet); err != nil {
			resultStatus = "fail"
			return err
		}
		ruleFindings, ruleErr := engine.EvaluatePath(ruleSet, path, exts)
		if ruleErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("rule evaluation failed: %w", ruleErr)
		}
		findings = append(findings, ruleFindings...)
	}

	result = report.Build("policies", path, findings, models.SeverityError)
	if result.Failed() {
		resultStatus = "fail"
	} else {
		resultStatus = "success"
	}
	return emitResult(result, policiesFormatFlag)
}

// loadRuleSet resolves --rules / --preset. Returns nil when neither is
// given; the built-in advisory checks always run.
func loadRuleSet() (*models.RuleSet, error) {
	if policiesRulesFlag != "" && policiesPresetFlag != "" {
		return nil, fmt.Errorf("--rules and --preset are mutually exclusive")
	}
	if policiesRulesFlag != "" {
		return advisor.LoadRuleSet(policiesRulesFlag)
	}
	if policiesPresetFlag != "" {
		rs := advisor.GetPreset(policiesPresetFlag)
		if rs == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: baseline, strict)", policiesPresetFlag)
		}
		return rs, nil
	}
	return nil, nil
}
