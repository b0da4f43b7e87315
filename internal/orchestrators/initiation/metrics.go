package initiation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KirkDiggler/rpg-combat/internal/orchestrators/initiation"

// Metric names
const (
	MetricSteps        = "rpg_combat.initiation.steps"
	MetricStepDuration = "rpg_combat.initiation.step.duration"
)

type metrics struct {
	steps    metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &metrics{}

	if met.steps, err = m.Int64Counter(MetricSteps,
		metric.WithDescription("Initiation pipeline steps by step and outcome."),
	); err != nil {
		return nil, err
	}
	if met.duration, err = m.Float64Histogram(MetricStepDuration,
		metric.WithDescription("Latency of initiation pipeline steps."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

func (m *metrics) record(ctx context.Context, step string, outcome Outcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", string(outcome)),
	)
	m.steps.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
