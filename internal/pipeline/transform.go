package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/navfield-etl/internal/domain"
	"github.com/couchcryptid/navfield-etl/internal/observability"
)

// FixTransformer implements Transformer using the domain normalization
// functions and records field quality metrics.
type FixTransformer struct {
	units   domain.OutputUnits
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a FixTransformer that normalizes into units.
// Empty units fall back to domain.DefaultOutputUnits.
func NewTransformer(units domain.OutputUnits, logger *slog.Logger, metrics *observability.Metrics) *FixTransformer {
	if units.Speed == "" {
		units.Speed = domain.DefaultOutputUnits.Speed
	}
	if units.Distance == "" {
		units.Distance = domain.DefaultOutputUnits.Distance
	}
	return &FixTransformer{units: units, logger: logger, metrics: metrics}
}

// Units returns the output units fixes are normalized into.
func (t *FixTransformer) Units() domain.OutputUnits {
	return t.units
}

func (t *FixTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.NavFix, error) {
	fix, err := domain.ParseRawEvent(raw, t.units)
	if err != nil {
		return domain.NavFix{}, err
	}

	fix = domain.EnrichNavFix(fix)
	t.observe(ctx, fix)
	return fix, nil
}

// Normalize runs a single JSON field record through the same steps as the
// pipeline. It backs the synchronous HTTP endpoint.
func (t *FixTransformer) Normalize(ctx context.Context, payload []byte) (domain.NavFix, error) {
	return t.Transform(ctx, domain.RawEvent{Value: payload})
}

func (t *FixTransformer) observe(ctx context.Context, fix domain.NavFix) {
	if len(fix.InvalidFields) > 0 {
		t.logger.WarnContext(ctx, "fix has invalid fields",
			"id", fix.ID,
			"sentence_type", fix.SentenceType,
			"invalid_fields", fix.InvalidFields,
		)
	}
	if t.metrics == nil {
		return
	}
	for _, field := range fix.InvalidFields {
		t.metrics.InvalidFields.WithLabelValues(field).Inc()
	}
	if domain.IsPassThrough(fix.Speed, t.units.Speed) {
		t.metrics.UnitPassThrough.WithLabelValues(domain.FieldSpeed).Inc()
	}
	if domain.IsPassThrough(fix.Distance, t.units.Distance) {
		t.metrics.UnitPassThrough.WithLabelValues(domain.FieldDistance).Inc()
	}
}
