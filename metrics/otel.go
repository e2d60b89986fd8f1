package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Publisher mirrors Recorder observations to an OpenTelemetry meter.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: publishing must not panic; instrument failures surface at construction.
type Publisher struct {
	totalCount   metric.Int64Counter
	hitCount     metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewPublisher creates a Publisher backed by the given meter.
func NewPublisher(meter metric.Meter) (*Publisher, error) {
	totalCount, err := meter.Int64Counter(
		"decision.op.total",
		metric.WithDescription("Total number of decision operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	hitCount, err := meter.Int64Counter(
		"decision.op.hits",
		metric.WithDescription("Decision operations served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"decision.op.duration_ms",
		metric.WithDescription("Decision operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		totalCount:   totalCount,
		hitCount:     hitCount,
		durationHist: durationHist,
	}, nil
}

// Publish records a single operation observation. A nil Publisher
// discards observations, so components can hold one unconditionally.
func (p *Publisher) Publish(ctx context.Context, op string, d time.Duration, hit bool) {
	if p == nil {
		return
	}
	opt := metric.WithAttributes(attribute.String("decision.op", op))

	p.totalCount.Add(ctx, 1, opt)
	if hit {
		p.hitCount.Add(ctx, 1, opt)
	}
	p.durationHist.Record(ctx, float64(d.Microseconds())/1000.0, opt)
}
