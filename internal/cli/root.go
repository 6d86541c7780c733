package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apimguard/apimguard/internal/observability"
	"github.com/apimguard/apimguard/internal/observability/logging"
	otelobs "github.com/apimguard/apimguard/internal/observability/otel"
	"github.com/apimguard/apimguard/internal/observability/receipt"
	"github.com/apimguard/apimguard/internal/version"
	"github.com/spf13/cobra"
)

// ANSI color codes shared by the command renderers.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

var rootCmd = &cobra.Command{
	Use:   "apimguard",
	Short: "CI checkers for API gateway configuration",
	Long: `apimguard validates gateway configuration artifacts before they ship:
CRD structure, policy best practices, hardcoded secrets, embedded OpenAPI
specs, and load-test thresholds.`,
	Version:           version.BuildVersion(),
	PersistentPreRunE: setupRun,
	SilenceUsage:      true,
}

var (
	logFormatFlag string
	logLevelFlag  string
	logFileFlag   string

	otelFlag         bool
	otelEndpointFlag string
	otelProtocolFlag string
	otelInsecureFlag bool
	otelSampleFlag   float64

	receiptFlag     string
	receiptModeFlag string
)

// Run-scoped resources released by Execute after the command finishes.
var (
	activeLogger  logging.Logger
	activeOtel    *otelobs.Handle
	activeReceipt receipt.Writer
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logFormatFlag, "log-format", "off", "Log format: jsonl or off")
	pf.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, or error")
	pf.StringVar(&logFileFlag, "log-file", "stderr", "Log destination: stderr or a file path")

	pf.BoolVar(&otelFlag, "otel", false, "Enable OpenTelemetry tracing")
	pf.StringVar(&otelEndpointFlag, "otel-endpoint", "", "OTLP endpoint (default from OTEL_EXPORTER_OTLP_ENDPOINT)")
	pf.StringVar(&otelProtocolFlag, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	pf.BoolVar(&otelInsecureFlag, "otel-insecure", false, "Allow insecure OTLP connections")
	pf.Float64Var(&otelSampleFlag, "otel-sample-ratio", 1.0, "Trace sample ratio (0..1)")

	pf.StringVar(&receiptFlag, "receipt", "", "Write a run receipt to this path")
	pf.StringVar(&receiptModeFlag, "receipt-mode", string(receipt.ModeOverwrite), "Receipt write mode: overwrite or append")

	rootCmd.AddCommand(GetValidateCmd())
	rootCmd.AddCommand(GetPoliciesCmd())
	rootCmd.AddCommand(GetSecretsCmd())
	rootCmd.AddCommand(GetExtractCmd())
	rootCmd.AddCommand(GetPerfCmd())
	rootCmd.AddCommand(GetDiffCmd())
}

// setupRun wires the run ID, logger, tracer, and receipt writer into the
// command context before any subcommand executes.
func setupRun(cmd *cobra.Command, args []string) error {
	ctx := observability.WithRunID(cmd.Context())

	logger, err := logging.NewLogger(logging.Config{
		Format: logFormatFlag,
		Level:  logLevelFlag,
		Output: logFileFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	activeLogger = logger
	ctx = logging.WithLogger(ctx, logger)

	if otelFlag {
		cfg := otelobs.DefaultConfig()
		cfg.Enabled = true
		cfg.Endpoint = otelEndpointFlag
		cfg.Protocol = otelProtocolFlag
		cfg.Insecure = otelInsecureFlag
		cfg.SampleRatio = otelSampleFlag
		handle, err := otelobs.Init(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		activeOtel = handle
		ctx = otelobs.WithHandle(ctx, handle)
	}

	if receiptFlag != "" {
		w, err := receipt.NewWriter(receiptFlag, receiptModeFlag)
		if err != nil {
			return fmt.Errorf("failed to open receipt: %w", err)
		}
		activeReceipt = w
		ctx = receipt.WithWriter(ctx, w)
	}

	cmd.SetContext(ctx)
	return nil
}

func Execute() {
	err := rootCmd.ExecuteContext(context.Background())

	if activeOtel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = activeOtel.Shutdown(shutdownCtx)
		cancel()
	}
	if activeReceipt != nil {
		_ = activeReceipt.Close()
	}
	if activeLogger != nil {
		_ = activeLogger.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
