package chaoslambda

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hatsunemiku3939/chaoslambda/policy"
)

const meterName = "github.com/hatsunemiku3939/chaoslambda"

// Metric names.
const (
	MetricEvaluations        = "chaoslambda.fault.evaluations"
	MetricFired              = "chaoslambda.fault.fired"
	MetricValidationFailures = "chaoslambda.fault.validation_failures"
	MetricConfigErrors       = "chaoslambda.config.errors"
)

type telemetry struct {
	evaluations  metric.Int64Counter
	fired        metric.Int64Counter
	invalid      metric.Int64Counter
	configErrors metric.Int64Counter
}

func newTelemetry(mp metric.MeterProvider) (*telemetry, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(meterName)

	var (
		t   telemetry
		err error
	)
	if t.evaluations, err = m.Int64Counter(MetricEvaluations,
		metric.WithDescription("Fault checks that reached the rate comparison")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricEvaluations, err)
	}
	if t.fired, err = m.Int64Counter(MetricFired,
		metric.WithDescription("Faults applied to an invocation")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricFired, err)
	}
	if t.invalid, err = m.Int64Counter(MetricValidationFailures,
		metric.WithDescription("Fault checks skipped because a magnitude had the wrong type")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricValidationFailures, err)
	}
	if t.configErrors, err = m.Int64Counter(MetricConfigErrors,
		metric.WithDescription("Invocations whose configuration could not be loaded")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricConfigErrors, err)
	}
	return &t, nil
}

func (t *telemetry) decision(ctx context.Context, d Decision) {
	attrs := metric.WithAttributes(attribute.String("fault_type", string(d.Kind)))
	switch d.State {
	case DecisionInvalid:
		t.invalid.Add(ctx, 1, attrs)
	case DecisionFired:
		t.evaluations.Add(ctx, 1, attrs)
		t.fired.Add(ctx, 1, attrs)
	case DecisionNotFired:
		t.evaluations.Add(ctx, 1, attrs)
	case DecisionSkipped:
	}
}

func (t *telemetry) configError(ctx context.Context, kind policy.FailureKind, schema Schema, proceeded bool) {
	t.configErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.String("schema", schema.String()),
		attribute.Bool("proceeded", proceeded),
	))
}
