// Package cmd contains the CLI commands for the notecheck application.
package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOutput holds the global --json flag state.
var jsonOutput bool

// logger is built before each command runs.
var logger = zap.NewNop()

func init() {
	svc := newLazyService(defaultEnvironment())
	rootCmd = BuildCommandTree(svc, svc)
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current global --json flag state.
func GetJSON() bool {
	return jsonOutput
}

// GetLogger returns the logger configured for the running command.
func GetLogger() *zap.Logger {
	return logger
}

// newLogger builds a production logger writing to stderr. Debug output is
// enabled by --verbose; otherwise only warnings and above are logged.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "notecheck",
		Short:         "Validate tab-separated Bible annotation tables",
		Long:          "notecheck checks translation notes, questions and study annotations stored as seven-column TSV tables.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

// BuildCommandTree creates the root command with every subcommand wired to
// the given runners. A nil runner makes its command fail with ErrNotWired.
func BuildCommandTree(check CheckRunner, row RowRunner) *cobra.Command {
	root := NewRootCmd()
	root.AddCommand(NewCheckCmd(check))
	root.AddCommand(NewRowCmd(row))
	root.AddCommand(NewInitCmd(defaultGetwd))
	return root
}

// Execute runs the root command and returns any error.
// Deprecated: Use ExecuteContext instead for proper signal handling.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Main runs the root command with args and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return RunCLIContext(ctx, rootCmd, args, stdout, stderr)
}
