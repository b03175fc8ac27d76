// Package cli wires the packetbatch command line: config loading, logging,
// the packet pipeline and fatal error reporting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/packetbatch/internal/config"
	"github.com/rshade/packetbatch/internal/logging"
	"github.com/rshade/packetbatch/pkg/version"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type configKey struct{}

// annotationWritesConfig marks commands that create the --config file, so a
// missing file there is expected rather than an error.
const annotationWritesConfig = "packetbatch/writes-config"

// NewRootCmd creates the root Cobra command for the packetbatch CLI.
// Running it reads the input file, sorts packet records batch by batch and
// prints them to stdout.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult *logging.LogPathResult
		flags     runFlags
	)

	cmd := &cobra.Command{
		Use:   "packetbatch [input-file]",
		Short: "Sort firewall packet records in fixed-size batches",
		Long: `packetbatch reads firewall packet records, one "serial,priority" pair per line,
groups valid records into fixed-size batches in arrival order and prints each
batch sorted by priority, then serial number.

Blank lines and lines starting with # are ignored. Invalid lines are reported
on stderr and skipped. The input file defaults to input.txt.`,
		Version:       ver,
		Example:       rootCmdExample,
		Args:          wrapArgs(cobra.MaximumNArgs(1)),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, flags)
		},
	}

	cmd.SetVersionTemplate(
		`{{.Name}} version {{.Version}} (commit ` + version.GetCommit() + ")\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "",
		"path to config file (default $PACKETBATCH_HOME/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.Flags().IntVarP(&flags.BatchSize, "batch-size", "b", 0,
		fmt.Sprintf("records per batch (default from config, %d)", config.Default().Batch.Size))
	cmd.Flags().BoolVar(&flags.Summary, "summary", false, "print a run summary to stderr")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Sort input.txt in the current directory in batches of 10
  packetbatch

  # Sort a specific file in batches of 50
  packetbatch packets.txt --batch-size 50

  # Print a summary of skipped lines and batches
  packetbatch packets.txt --summary

  # Show the effective configuration
  packetbatch config show`

// runFlags holds flag values shared between pre-run and run.
type runFlags struct {
	ConfigPath string
	BatchSize  int
	Summary    bool
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, flags runFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if errors.Is(err, os.ErrNotExist) && cmd.Annotations[annotationWritesConfig] == "true" {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("batch-size"); f != nil && f.Changed {
		cfg.Batch.Size = flags.BatchSize
	}
	return cfg, nil
}

// configFromContext returns the config loaded in PersistentPreRunE.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Execute runs cmd and reports a fatal error as a single "Error:" line on the
// command's stderr. It returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	cmd.PrintErrln(FatalMessage(err))
	return 1
}

// Main is the process entry point used by cmd/packetbatch.
func Main(ver string) int {
	cmd := NewRootCmd(ver)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return Execute(cmd)
}
