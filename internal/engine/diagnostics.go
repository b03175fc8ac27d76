package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/rshade/packetbatch/internal/packet"
)

// Diagnostic renders the warning line for a skipped parse result. It returns
// "" for results that are not skips.
func Diagnostic(res packet.LineResult) string {
	if res.Kind != packet.KindSkipped {
		return ""
	}

	switch {
	case errors.Is(res.Reason, packet.ErrPriorityOutOfRange):
		return fmt.Sprintf("Warning: Skipping line #%d due to invalid priority (%s). Must be %d-%d.",
			res.LineNum, res.Priority, packet.MinPriority, packet.MaxPriority)
	case errors.Is(res.Reason, packet.ErrNonNumeric):
		return fmt.Sprintf("Warning: Skipping non-numeric data on line #%d: '%s'", res.LineNum, res.Raw)
	default:
		return fmt.Sprintf("Warning: Skipping malformed line #%d: '%s'", res.LineNum, res.Raw)
	}
}

// diagnosticWriter writes one warning per skipped line.
type diagnosticWriter struct {
	w io.Writer
}

func (d diagnosticWriter) report(res packet.LineResult) error {
	msg := Diagnostic(res)
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintln(d.w, msg)
	return err
}
