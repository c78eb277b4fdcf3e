package chaoslambda

import (
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda/policy"
	"github.com/hatsunemiku3939/chaoslambda/source"
)

// Option configures an Injector at construction time.
type Option func(*Injector)

// WithSource sets the store the experiment configuration is fetched from.
func WithSource(s source.Source) Option {
	return func(i *Injector) { i.source = s }
}

// WithParameterName overrides the CHAOS_PARAM environment variable.
func WithParameterName(name string) Option {
	return func(i *Injector) { i.param = name }
}

// WithSchema sets the schema generation used by Config and Query.
// The wrappers always use the generation they are written for.
func WithSchema(s Schema) Option {
	return func(i *Injector) { i.schema = s }
}

// WithFailurePolicy replaces the per-schema default policy for configuration errors.
func WithFailurePolicy(p policy.Policy) Option {
	return func(i *Injector) { i.failurePolicy = p }
}

// WithRand sets the source of the per-check random samples.
func WithRand(r RandSource) Option {
	return func(i *Injector) { i.rand = r }
}

// WithLogger sets the logger. Every invocation derives a child carrying the
// parameter name and request id.
func WithLogger(l *zap.Logger) Option {
	return func(i *Injector) { i.logger = l }
}

// WithMeterProvider enables injection counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(i *Injector) { i.meterProvider = mp }
}

// WithClock replaces the wall clock and the latency sleep.
func WithClock(c Clock) Option {
	return func(i *Injector) { i.clock = c }
}
