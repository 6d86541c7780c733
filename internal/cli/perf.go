package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/apimguard/apimguard/internal/perf"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// perfCmd checks k6 results against latency/error thresholds
var perfCmd = &cobra.Command{
	Use:   "perf <k6-summary.json>",
	Short: "Check k6 load-test results against thresholds",
	Long: `Reads a k6 JSON summary and compares request latency percentiles and
the error rate against the gateway's service level objectives.

Example:
  apimguard perf results/summary.json
  apimguard perf results/summary.json --p95=300 --error-rate=0.5`,
	Args:         cobra.ExactArgs(1),
	RunE:         runPerf,
	SilenceUsage: true,
}

var (
	perfP50Flag       float64
	perfP95Flag       float64
	perfP99Flag       float64
	perfErrorRateFlag float64
)

func init() {
	defaults := perf.DefaultThresholds()
	perfCmd.Flags().Float64Var(&perfP50Flag, "p50", defaults.P50LatencyMS, "p50 latency threshold (ms)")
	perfCmd.Flags().Float64Var(&perfP95Flag, "p95", defaults.P95LatencyMS, "p95 latency threshold (ms)")
	perfCmd.Flags().Float64Var(&perfP99Flag, "p99", defaults.P99LatencyMS, "p99 latency threshold (ms)")
	perfCmd.Flags().Float64Var(&perfErrorRateFlag, "error-rate", defaults.ErrorRatePercent, "error rate threshold (%)")
}

// GetPerfCmd export
func GetPerfCmd() *cobra.Command {
	return perfCmd
}

func runPerf(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	summaryPath := args[0]

	sess := receipt.Start(ctx, "apimguard perf", os.Args[1:])
	defer func() {
		_ = sess.Finish(err, receipt.WithInput(summaryPath))
	}()

	log := logging.From(ctx)
	start := time.Now()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "apimguard.perf",
			trace.WithAttributes(
				attribute.String("apimguard.run_id", observability.RunID(ctx)),
				attribute.String("apimguard.command", "perf"),
				attribute.String("apimguard.summary", summaryPath),
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

	log.Event(ctx, "perf.start", map[string]any{"summary": summaryPath})

	var resultStatus string
	defer func() {
		log.Event(ctx, "perf.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
		})
	}()

	thresholds := perf.Thresholds{
		P50LatencyMS:     perfP50Flag,
		P95LatencyMS:     perfP95Flag,
		P99LatencyMS:     perfP99Flag,
		ErrorRatePercent: perfErrorRateFlag,
	}

	checks, checkErr := perf.CheckFile(summaryPath, thresholds)
	if checkErr != nil {
		resultStatus = "fail"
		return checkErr
	}

	for _, c := range checks {
		if c.Passed {
			fmt.Printf("%s%s%s\n", colorGreen, c, colorReset)
		} else {
			fmt.Printf("%s%s%s\n", colorRed, c, colorReset)
		}
	}

	if !perf.AllPassed(checks) {
		resultStatus = "fail"
		return fmt.Errorf("performance thresholds not met")
	}

	fmt.Printf("\n%s✓ All performance thresholds passed%s\n", colorGreen, colorReset)
	resultStatus = "success"
	return nil
}
