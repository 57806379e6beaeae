// Package pipeline consumes selection updates, settles and derives the
// session's dashboard, and publishes the resulting views.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/couchcryptid/hazard-dashboard/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// Message is one selection update as read from the source, with the
// callback that acknowledges it.
type Message struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(context.Context) error
}

// BatchExtractor reads up to batchSize selection updates from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]Message, error)
}

// Transformer turns a selection update into the session's next view.
type Transformer interface {
	Transform(ctx context.Context, msg Message) (engine.View, error)
}

// BatchLoader publishes views to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, views []engine.View) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	running     atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil while the loop is running. Datasets are loaded
// before the pipeline starts, so a running loop can serve any selection.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("pipeline is not running")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.running.Store(true)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	delay := minBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &delay) {
			return nil
		}
	}
}

// processBatch runs one cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, delay *time.Duration) bool {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return backoffOrStop(ctx, delay)
	}
	if len(batch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.SelectionsConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))
	*delay = minBackoff

	loaded, ok := p.transformAndLoad(ctx, batch, delay)
	if !ok {
		return false
	}
	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	}
	return true
}

// transformAndLoad applies each update in order, publishes the views and
// commits offsets. Updates that cannot be applied are logged and committed.
func (p *Pipeline) transformAndLoad(ctx context.Context, batch []Message, delay *time.Duration) (int, bool) {
	views := make([]engine.View, 0, len(batch))
	applied := make([]Message, 0, len(batch))

	for _, msg := range batch {
		view, err := p.transformer.Transform(ctx, msg)
		if err != nil {
			p.logger.Warn("selection update rejected, skipping message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, msg)
			continue
		}
		views = append(views, view)
		applied = append(applied, msg)
	}

	if len(views) == 0 {
		return 0, true
	}

	// Offsets stay uncommitted on failure; the views are rebuilt on redelivery.
	if err := p.loader.LoadBatch(ctx, views); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(views))
		return 0, backoffOrStop(ctx, delay)
	}
	p.metrics.ViewsProduced.Add(float64(len(views)))

	for _, msg := range applied {
		p.commit(ctx, msg)
	}
	return len(views), true
}

func (p *Pipeline) commit(ctx context.Context, msg Message) {
	if msg.Commit == nil {
		return
	}
	if err := msg.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	}
}

const (
	minBackoff = 200 * time.Millisecond
	maxBackoff = 5 * time.Second
)

// backoffOrStop sleeps for the current delay, then doubles it up to
// maxBackoff. Returns false if ctx ended first.
func backoffOrStop(ctx context.Context, delay *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *delay) {
		return false
	}
	*delay = retry.NextBackoff(*delay, maxBackoff)
	return true
}
