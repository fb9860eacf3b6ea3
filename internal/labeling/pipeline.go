package labeling

import (
	"context"
	"fmt"
	"time"

	"github.com/nexretail/nexpos/pkg/common"
	"go.uber.org/zap"
)

// PrintState tracks a single print invocation through the pipeline.
// Failed is terminal and reachable from any state; Succeeded is terminal.
type PrintState string

const (
	StateIdle                     PrintState = "idle"
	StateValidating               PrintState = "validating"
	StateBuildingRecords          PrintState = "building_records"
	StateRendering                PrintState = "rendering"
	StateAwaitingRenderCompletion PrintState = "awaiting_render_completion"
	StatePrinting                 PrintState = "printing"
	StateSucceeded                PrintState = "succeeded"
	StateFailed                   PrintState = "failed"
)

// TopicPrintFinished carries a *PrintJobResult for every finished job,
// succeeded or failed. Subscribers persist the print log and bump metrics.
// This bus replaces the old habit of hanging refresh callbacks off a
// process-wide global.
const TopicPrintFinished = "labels.print.finished"

// EventPublisher is the slice of the application event bus the pipeline
// needs. asaskevich/EventBus satisfies it.
type EventPublisher interface {
	Publish(topic string, args ...interface{})
}

const (
	defaultFetchAttempts = 3
	defaultFetchBackoff  = 250 * time.Millisecond
)

// Pipeline orchestrates one label print invocation end to end: fetch once,
// build records, render, assemble, hand off. Preview and print share every
// stage except the final document.
type Pipeline struct {
	source    RecordSource
	builder   *Builder
	formatter *Formatter
	assembler *Assembler
	bus       EventPublisher

	// Fetch retry policy. Applies to transient store errors only;
	// validation and data-integrity failures are permanent and fail fast.
	FetchAttempts int
	FetchBackoff  time.Duration
}

func NewPipeline(source RecordSource, builder *Builder, formatter *Formatter, assembler *Assembler, bus EventPublisher) *Pipeline {
	return &Pipeline{
		source:        source,
		builder:       builder,
		formatter:     formatter,
		assembler:     assembler,
		bus:           bus,
		FetchAttempts: defaultFetchAttempts,
		FetchBackoff:  defaultFetchBackoff,
	}
}

// Preview resolves and formats labels for on-screen rendering without
// producing a document. It runs the exact same resolution and formatting
// path as Print.
func (p *Pipeline) Preview(ctx context.Context, productIDs []int64, opts LabelOptions) ([]FormattedLabel, []SkipReason, error) {
	if err := p.validateRequest(productIDs, opts); err != nil {
		return nil, nil, err
	}

	rows, err := p.fetchWithRetry(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}

	built := p.builder.Build(rows, opts)
	labels := make([]FormattedLabel, 0, len(built.Records))
	for _, rec := range built.Records {
		labels = append(labels, p.formatter.Format(rec, opts))
	}
	return labels, built.Skipped, nil
}

// Print runs the full pipeline and returns the printable document plus the
// job result. The result is also published on the event bus, succeeded or
// failed, so the print log stays complete even when the caller disconnects.
func (p *Pipeline) Print(ctx context.Context, productIDs []int64, opts LabelOptions, operator string) (*PrintableDocument, *PrintJobResult, error) {
	jobID := common.UUIDint64()
	state := StateIdle
	transition := func(to PrintState) {
		zap.L().Debug("print job state",
			zap.Int64("job_id", jobID),
			zap.String("from", string(state)),
			zap.String("to", string(to)))
		state = to
	}

	finishFailed := func(err error) (*PrintableDocument, *PrintJobResult, error) {
		transition(StateFailed)
		result := &PrintJobResult{
			JobID:    jobID,
			Success:  false,
			Operator: operator,
			Message:  err.Error(),
			Copies:   opts.Copies,
			Format:   opts.Format,
		}
		p.publish(result)
		zap.L().Warn("print job failed",
			zap.Int64("job_id", jobID),
			zap.String("operator", operator),
			zap.Error(err))
		return nil, result, err
	}

	transition(StateValidating)
	if err := p.validateRequest(productIDs, opts); err != nil {
		return finishFailed(err)
	}

	transition(StateBuildingRecords)
	rows, err := p.fetchWithRetry(ctx, productIDs)
	if err != nil {
		return finishFailed(err)
	}
	built := p.builder.Build(rows, opts)
	if len(built.Records) == 0 {
		return finishFailed(&ValidationError{
			Field:  "records",
			Reason: fmt.Sprintf("no printable labels (%d skipped)", len(built.Skipped)),
		})
	}

	doc, err := p.assembler.AssembleWithPhase(ctx, built.Records, opts, transition)
	if err != nil {
		return finishFailed(err)
	}

	transition(StatePrinting)
	result := &PrintJobResult{
		JobID:       jobID,
		Success:     true,
		Operator:    operator,
		Message:     fmt.Sprintf("printed %d labels", doc.TotalLabels),
		TotalLabels: doc.TotalLabels,
		Copies:      opts.Copies,
		Format:      opts.Format,
		Skipped:     built.Skipped,
	}
	transition(StateSucceeded)
	p.publish(result)

	zap.L().Info("print job finished",
		zap.Int64("job_id", jobID),
		zap.String("operator", operator),
		zap.Int("total_labels", doc.TotalLabels),
		zap.Int("skipped", len(built.Skipped)),
		zap.Int("render_failures", len(doc.RenderFailures)))
	return doc, result, nil
}

func (p *Pipeline) validateRequest(productIDs []int64, opts LabelOptions) error {
	if len(productIDs) == 0 {
		return &ValidationError{Field: "product_ids", Reason: "empty selection"}
	}
	return p.assembler.ValidateOptions(opts)
}

// fetchWithRetry queries the record source with bounded exponential
// backoff. One fetch per invocation, never one per label.
func (p *Pipeline) fetchWithRetry(ctx context.Context, ids []int64) ([]ProductWithUnits, error) {
	attempts := p.FetchAttempts
	if attempts <= 0 {
		attempts = defaultFetchAttempts
	}
	backoff := p.FetchBackoff
	if backoff <= 0 {
		backoff = defaultFetchBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		rows, err := p.source.FetchProducts(ctx, ids)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, &HostError{Op: "fetch label data", Cause: ctx.Err()}
		}
		zap.L().Warn("label data fetch failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, &HostError{Op: "fetch label data", Cause: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, &HostError{
		Op:    "fetch label data",
		Hint:  "check database connectivity",
		Cause: lastErr,
	}
}

func (p *Pipeline) publish(result *PrintJobResult) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(TopicPrintFinished, result)
}
