package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/packetbatch/internal/engine"
)

// runProcess executes the packet pipeline for the root command.
func runProcess(cmd *cobra.Command, args []string, flags runFlags) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)
	if len(args) == 1 {
		cfg.Input.File = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	pipeline, err := engine.NewPipeline(engine.Options{
		BatchSize:   cfg.Batch.Size,
		Output:      cmd.OutOrStdout(),
		Diagnostics: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	f, err := openInput(cfg.Input.File)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Debug().
		Str("operation", "process").
		Str("input", cfg.Input.File).
		Int("batch_size", cfg.Batch.Size).
		Msg("processing input")

	summary, err := pipeline.Run(ctx, f)
	if err != nil {
		return err
	}

	if flags.Summary {
		return writeSummary(cmd.ErrOrStderr(), summary)
	}
	return nil
}

// openInput opens path, mapping a missing file to InputNotFoundError.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InputNotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// writeSummary prints a one-line run summary with thousand separators.
func writeSummary(w io.Writer, s engine.Summary) error {
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w,
		"Summary: %d lines read, %d records in %d batches (batch size %d), %d ignored, %d skipped\n",
		s.Lines, s.Records, s.Batches, s.BatchSize, s.Ignored, s.SkippedTotal())
	return err
}
