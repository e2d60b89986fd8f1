package metrics

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestNewPublisher verifies instrument construction on a noop meter.
func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	// Publishing to noop instruments must be safe.
	p.Publish(context.Background(), "lookup", time.Millisecond, true)
	p.Publish(context.Background(), "lookup", time.Millisecond, false)
}

// TestPublisher_Publish verifies counters and histogram observations
// reach the meter.
func TestPublisher_Publish(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	p, err := NewPublisher(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}

	ctx := context.Background()
	p.Publish(ctx, "lookup", 5*time.Millisecond, true)
	p.Publish(ctx, "lookup", 10*time.Millisecond, false)
	p.Publish(ctx, "lookup", 15*time.Millisecond, true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sums := map[string]int64{}
	var histCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histCount += dp.Count
				}
			}
		}
	}

	if sums["decision.op.total"] != 3 {
		t.Errorf("decision.op.total = %d, want 3", sums["decision.op.total"])
	}
	if sums["decision.op.hits"] != 2 {
		t.Errorf("decision.op.hits = %d, want 2", sums["decision.op.hits"])
	}
	if histCount != 3 {
		t.Errorf("duration histogram count = %d, want 3", histCount)
	}
}
