package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/navfield-etl/internal/domain"
	"github.com/couchcryptid/navfield-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw field record into a normalized fix.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.NavFix, error)
}

// BatchLoader writes multiple fixes to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, fixes []domain.NavFix) error
}

const (
	minBackoff = 200 * time.Millisecond
	maxBackoff = 5 * time.Second
)

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	ready       atomic.Bool
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
		clock:       clockwork.NewRealClock(),
		batchSize:   batchSize,
	}
}

// WithClock replaces the clock used for backoff sleeps and batch timing.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// CheckReadiness returns nil once a batch has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any fixes yet")
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled.
// Extract and load failures back off exponentially from 200ms up to 5s.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	delay := minBackoff
	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		err := p.processBatch(ctx)
		switch {
		case err == nil:
			delay = minBackoff
		case ctx.Err() != nil:
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
			if !p.sleep(ctx, delay) {
				return nil
			}
			delay = min(delay*2, maxBackoff)
		}
	}
}

// processBatch runs one extract-transform-load cycle. A non-nil error means
// the extract or load stage failed and the caller should back off.
func (p *Pipeline) processBatch(ctx context.Context) error {
	start := p.clock.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("extract batch failed", "error", err)
		}
		return err
	}
	if len(rawBatch) == 0 {
		return nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	loaded, err := p.transformAndLoad(ctx, rawBatch)
	if err != nil {
		return err
	}
	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(p.clock.Since(start).Seconds())
		p.ready.Store(true)
	}
	return nil
}

// transformAndLoad normalizes each message, loads the successes and commits
// their offsets. Messages that fail to transform are committed and dropped so
// a poison pill cannot stall the partition. Successful messages are only
// committed after the load succeeds.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent) (int, error) {
	fixes := make([]domain.NavFix, 0, len(rawBatch))
	transformed := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		fix, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		fixes = append(fixes, fix)
		transformed = append(transformed, raw)
	}

	if len(fixes) == 0 {
		return 0, nil
	}

	if err := p.loader.LoadBatch(ctx, fixes); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(fixes))
		return 0, err
	}
	p.metrics.MessagesProduced.Add(float64(len(fixes)))

	for _, raw := range transformed {
		p.commitOffset(ctx, raw)
	}
	return len(fixes), nil
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// sleep waits for d or until ctx is done. It returns false if ctx ended first.
func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
