// Package engine runs the packet pipeline: parse every input line, collect the
// valid records in arrival order, cut them into fixed-size batches, sort each
// batch on its own and write the records out.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/packetbatch/internal/engine/batch"
	"github.com/rshade/packetbatch/internal/logging"
	"github.com/rshade/packetbatch/internal/packet"
)

// Options configures a Pipeline.
type Options struct {
	// BatchSize is the number of records per batch. Must be at least 1.
	BatchSize int
	// Output receives one "serial,priority" line per record.
	Output io.Writer
	// Diagnostics receives one "Warning:" line per skipped input line.
	Diagnostics io.Writer
}

// Pipeline is a configured, reusable packet batch processor. It holds no
// state between runs.
type Pipeline struct {
	batchSize   int
	output      io.Writer
	diagnostics io.Writer
}

// Pipeline construction errors.
var (
	ErrNilOutput      = errors.New("output writer cannot be nil")
	ErrNilDiagnostics = errors.New("diagnostics writer cannot be nil")
)

// NewPipeline validates opts and returns a Pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.BatchSize < batch.MinBatchSize {
		return nil, fmt.Errorf("%w: got %d", batch.ErrInvalidBatchSize, opts.BatchSize)
	}
	if opts.Output == nil {
		return nil, ErrNilOutput
	}
	if opts.Diagnostics == nil {
		return nil, ErrNilDiagnostics
	}

	return &Pipeline{
		batchSize:   opts.BatchSize,
		output:      opts.Output,
		diagnostics: opts.Diagnostics,
	}, nil
}

// BatchSize returns the configured batch size.
func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// Run reads r to the end and writes sorted batches to the output writer.
// Skipped lines are reported on the diagnostics writer and do not stop the
// run. A read or write failure aborts the run; output already flushed for
// earlier batches stays written.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (Summary, error) {
	log := engineLogger(ctx)
	traceID := logging.TraceIDFromContext(ctx)

	proc, err := batch.NewProcessor[packet.Record](p.batchSize)
	if err != nil {
		return Summary{}, err
	}
	summary := newSummary(proc.GetBatchSize())

	log.Debug().
		Str("operation", "run").
		Str("trace_id", traceID).
		Int("batch_size", proc.GetBatchSize()).
		Msg("pipeline started")

	records, err := p.collect(ctx, r, proc, &summary)
	if err != nil {
		log.Debug().Err(err).Str("trace_id", traceID).Msg("pipeline aborted while reading input")
		return summary, err
	}

	if err = p.emit(ctx, records, proc, &summary); err != nil {
		log.Debug().Err(err).Str("trace_id", traceID).Msg("pipeline aborted while writing output")
		return summary, err
	}

	log.Debug().
		Str("operation", "run").
		Str("trace_id", traceID).
		Int("lines", summary.Lines).
		Int("records", summary.Records).
		Int("skipped", summary.SkippedTotal()).
		Int("batches", summary.Batches).
		Msg("pipeline finished")

	return summary, nil
}

// collect parses every line of r and returns the valid records in order.
func (p *Pipeline) collect(
	ctx context.Context,
	r io.Reader,
	proc *batch.Processor[packet.Record],
	summary *Summary,
) ([]packet.Record, error) {
	log := engineLogger(ctx)
	diag := diagnosticWriter{w: p.diagnostics}
	reader := bufio.NewReader(r)

	var records []packet.Record
	for lineNum := 1; ; lineNum++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading input line %d: %w", lineNum, readErr)
		}
		// A trailing newline does not start another line.
		if line == "" && readErr != nil {
			break
		}

		res := packet.ParseLine(lineNum, trimTerminator(line))
		summary.Lines++

		switch res.Kind {
		case packet.KindRecord:
			log.Trace().
				Int("line", res.LineNum).
				Int("batch_index", proc.BatchIndex(len(records))).
				Msg("record accepted")
			records = append(records, res.Record)
			summary.Records++
		case packet.KindIgnored:
			summary.Ignored++
		case packet.KindSkipped:
			summary.addSkip(res.Reason)
			log.Debug().
				Str("operation", "parse").
				Int("line", res.LineNum).
				Str("reason", res.Reason.Error()).
				Msg("line skipped")
			if err := diag.report(res); err != nil {
				return nil, fmt.Errorf("writing diagnostic: %w", err)
			}
		}

		if readErr != nil {
			break
		}
	}

	return records, nil
}

// emit sorts and writes each batch, flushing after every batch.
func (p *Pipeline) emit(
	ctx context.Context,
	records []packet.Record,
	proc *batch.Processor[packet.Record],
	summary *Summary,
) error {
	if len(records) == 0 {
		return nil
	}

	log := engineLogger(ctx)
	proc.WithProgressCallback(func(progress *batch.Progress) {
		snap := progress.Snapshot()
		log.Debug().
			Str("operation", "emit").
			Int("batches_done", snap.ProcessedBatches).
			Int("batches_total", snap.TotalBatches).
			Float64("percent", snap.PercentComplete).
			Msg("batch emitted")
	})

	out := bufio.NewWriter(p.output)
	err := proc.Process(ctx, records, func(_ context.Context, items []packet.Record, batchIndex int) error {
		sorted := make([]packet.Record, len(items))
		copy(sorted, items)
		packet.SortBatch(sorted)

		for _, rec := range sorted {
			if _, werr := out.WriteString(packet.Format(rec) + "\n"); werr != nil {
				return werr
			}
		}
		summary.Batches++
		log.Debug().Int("batch_index", batchIndex).Int("size", len(sorted)).Msg("batch sorted")
		return out.Flush()
	})
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func engineLogger(ctx context.Context) zerolog.Logger {
	return logging.ComponentLogger(*logging.FromContext(ctx), "engine")
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
