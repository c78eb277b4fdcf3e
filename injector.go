package chaoslambda

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda/internal/logger"
	"github.com/hatsunemiku3939/chaoslambda/policy"
	"github.com/hatsunemiku3939/chaoslambda/source"
)

// ParamEnvKey names the environment variable holding the configuration parameter name.
const ParamEnvKey = "CHAOS_PARAM"

// Clock supplies wall time and the interruptible latency sleep.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Injector loads the experiment configuration for every invocation and hands
// it to the fault wrappers. It holds no per-invocation state and is safe for
// concurrent use.
type Injector struct {
	source        source.Source
	param         string
	schema        Schema
	failurePolicy policy.Policy
	rand          RandSource
	logger        *zap.Logger
	meterProvider metric.MeterProvider
	clock         Clock
	metrics       *telemetry
}

// New creates an Injector. The parameter name is read from CHAOS_PARAM once,
// here, unless WithParameterName is given.
func New(opts ...Option) (*Injector, error) {
	i := &Injector{
		param:  os.Getenv(ParamEnvKey),
		schema: SchemaLegacy,
		rand:   defaultRand,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.source == nil {
		return nil, ErrNoSource
	}
	if i.param == "" {
		return nil, fmt.Errorf("%w: set %s", ErrNoParameter, ParamEnvKey)
	}
	if i.rand == nil {
		i.rand = defaultRand
	}
	if i.clock == nil {
		i.clock = systemClock{}
	}
	if i.logger == nil {
		i.logger = logger.Named("chaoslambda")
	}

	m, err := newTelemetry(i.meterProvider)
	if err != nil {
		return nil, err
	}
	i.metrics = m
	return i, nil
}

// ParameterName is the name the configuration is fetched under.
func (i *Injector) ParameterName() string { return i.param }

// Config fetches and parses the configuration in the schema set by WithSchema.
// A disabled configuration is returned as is; its accessors report zero values.
func (i *Injector) Config(ctx context.Context) (*FaultConfig, error) {
	return i.load(ctx, i.invocationLogger(ctx), i.schema)
}

// Query returns a single configuration value and the injection rate.
// A disabled configuration answers (0, 0) for every key.
func (i *Injector) Query(ctx context.Context, key string) (any, float64, error) {
	cfg, err := i.Config(ctx)
	if err != nil {
		return nil, 0, err
	}
	return cfg.Query(key)
}

func (i *Injector) load(ctx context.Context, lg *zap.Logger, schema Schema) (*FaultConfig, error) {
	raw, err := i.source.Fetch(ctx, i.param)
	if err != nil {
		return nil, &ConfigError{Kind: ConfigFetch, Key: i.param, Err: err}
	}
	cfg, err := Parse(raw, schema)
	if err != nil {
		return nil, err
	}
	lg.Debug("configuration loaded",
		zap.Stringer("schema", schema),
		zap.Bool("enabled", cfg.Enabled()),
		zap.Float64("rate", cfg.Rate()),
	)
	return cfg, nil
}

// policyFor returns the configured policy, or the default of the schema
// generation: legacy aborts the invocation, unified runs the handler.
func (i *Injector) policyFor(schema Schema) policy.Policy {
	if i.failurePolicy != nil {
		return i.failurePolicy
	}
	if schema == SchemaUnified {
		return policy.FailOpenPolicy{}
	}
	return policy.FailClosedPolicy{}
}

// handleConfigError applies the failure policy. A nil return means the
// handler should run without fault injection.
func (i *Injector) handleConfigError(ctx context.Context, lg *zap.Logger, schema Schema, cause error) error {
	kind := policy.FailConfigMalformed
	if errors.Is(cause, ErrConfigFetch) {
		kind = policy.FailConfigFetch
	}

	res := i.policyFor(schema).Decide(ctx, kind, cause, policy.Result{})
	i.metrics.configError(ctx, kind, schema, res.Proceed)

	if res.Proceed {
		lg.Error("Error: injection configuration is invalid", zap.Stringer("kind", kind), zap.Error(cause))
		return nil
	}
	lg.Error("injection configuration could not be loaded", zap.Stringer("kind", kind), zap.Error(cause))
	if res.Error != nil {
		return res.Error
	}
	return cause
}

func (i *Injector) decide(ctx context.Context, lg *zap.Logger, cfg *FaultConfig, kind FaultType, p FaultPolicy, optional bool) (Decision, error) {
	d, err := Decide(cfg, kind, p, i.rand, optional)
	if err != nil {
		return d, err
	}
	i.metrics.decision(ctx, d)
	if d.State == DecisionInvalid {
		lg.Warn(d.Invalid.Error(), zap.String("field", d.Invalid.Field), zap.String("fault_type", string(kind)))
	}
	return d, nil
}

func (i *Injector) invocationLogger(ctx context.Context) *zap.Logger {
	var requestID string
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	} else {
		requestID = uuid.NewString()
	}
	return i.logger.With(zap.String("parameter", i.param), zap.String("request_id", requestID))
}
