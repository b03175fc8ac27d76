package engine

import (
	"errors"

	"github.com/rshade/packetbatch/internal/packet"
)

// SkipKind names why a line was skipped.
type SkipKind string

// Skip kinds, one per packet skip reason.
const (
	SkipMalformed  SkipKind = "malformed"
	SkipNonNumeric SkipKind = "non_numeric"
	SkipPriority   SkipKind = "invalid_priority"
)

// Summary counts what a run did.
type Summary struct {
	BatchSize int
	// Lines is the number of physical input lines read.
	Lines int
	// Ignored counts blank and comment lines.
	Ignored int
	// Records is the number of valid records emitted.
	Records int
	// Batches is the number of batches emitted.
	Batches int
	Skipped map[SkipKind]int
}

func newSummary(batchSize int) Summary {
	return Summary{BatchSize: batchSize, Skipped: make(map[SkipKind]int)}
}

// SkippedTotal returns the number of lines skipped for any reason.
func (s Summary) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

func (s *Summary) addSkip(reason error) {
	s.Skipped[skipKindOf(reason)]++
}

func skipKindOf(reason error) SkipKind {
	switch {
	case errors.Is(reason, packet.ErrPriorityOutOfRange):
		return SkipPriority
	case errors.Is(reason, packet.ErrNonNumeric):
		return SkipNonNumeric
	default:
		return SkipMalformed
	}
}
