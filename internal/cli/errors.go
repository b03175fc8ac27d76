package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/packetbatch/internal/config"
	"github.com/rshade/packetbatch/internal/engine/batch"
)

// InputNotFoundError is returned when the input file does not exist.
type InputNotFoundError struct {
	Path string
	Err  error
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file %s not found", e.Path)
}

func (e *InputNotFoundError) Unwrap() error { return e.Err }

// UsageError marks bad flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// wrapArgs marks positional argument errors as usage errors.
func wrapArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// FatalMessage renders the single diagnostic line printed for a fatal error.
func FatalMessage(err error) string {
	var notFound *InputNotFoundError
	var usage *UsageError

	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Error: The file '%s' was not found.", notFound.Path)
	case errors.Is(err, config.ErrInvalidConfig):
		return "Error: " + err.Error()
	case errors.Is(err, batch.ErrInvalidBatchSize):
		return "Error: invalid configuration: " + err.Error()
	case errors.As(err, &usage):
		return "Error: " + usage.Error()
	default:
		return "Error: An unexpected error occurred: " + err.Error()
	}
}
