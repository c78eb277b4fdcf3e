package chaoslambda

import (
	"context"
)

// plan lists the fault checks to run against a loaded configuration. optional
// reports whether an absent magnitude skips its check instead of failing.
type plan func(cfg *FaultConfig) (kinds []FaultType, optional bool)

func single(kind FaultType) plan {
	return func(*FaultConfig) ([]FaultType, bool) { return []FaultType{kind}, false }
}

func dispatch(cfg *FaultConfig) ([]FaultType, bool) {
	if ft := cfg.FaultType(); ft.Valid() {
		return []FaultType{ft}, false
	}
	return nil, false
}

func all(*FaultConfig) ([]FaultType, bool) {
	return []FaultType{FaultLatency, FaultException, FaultStatusCode}, true
}

func wrap[E any, R Response](i *Injector, schema Schema, p FaultPolicy, pl plan, h Handler[E, R]) Handler[E, R] {
	return func(ctx context.Context, event E) (R, error) {
		var zero R
		lg := i.invocationLogger(ctx)

		cfg, err := i.load(ctx, lg, schema)
		if err != nil {
			if err := i.handleConfigError(ctx, lg, schema, err); err != nil {
				return zero, err
			}
			return h(ctx, event)
		}

		kinds, optional := pl(cfg)
		decisions := make([]Decision, 0, len(kinds))
		for _, kind := range kinds {
			d, err := i.decide(ctx, lg, cfg, kind, p, optional)
			if err != nil {
				if err := i.handleConfigError(ctx, lg, schema, err); err != nil {
					return zero, err
				}
				return h(ctx, event)
			}
			decisions = append(decisions, d)
		}
		return apply(ctx, i, lg, p, decisions, h, event)
	}
}

// InjectDelay delays h by the "delay" value of a legacy configuration.
// The sleep happens before h runs and the total duration is logged.
func InjectDelay[E any, R Response](i *Injector, p FaultPolicy, h Handler[E, R]) Handler[E, R] {
	return wrap(i, SchemaLegacy, p, single(FaultLatency), h)
}

// InjectException runs h and then replaces its result with an *InjectedFault
// carrying the "exception_msg" of a legacy configuration.
func InjectException[E any, R Response](i *Injector, p FaultPolicy, h Handler[E, R]) Handler[E, R] {
	return wrap(i, SchemaLegacy, p, single(FaultException), h)
}

// InjectStatusCode runs h and then overwrites the status of its result with the
// "error_code" of a legacy configuration.
func InjectStatusCode[E any, R Response](i *Injector, p FaultPolicy, h Handler[E, R]) Handler[E, R] {
	return wrap(i, SchemaLegacy, p, single(FaultStatusCode), h)
}

// InjectFault applies the single fault selected by "fault_type" in a unified
// configuration. An absent or unknown fault type runs h unmodified.
func InjectFault[E any, R Response](i *Injector, p FaultPolicy, h Handler[E, R]) Handler[E, R] {
	return wrap(i, SchemaUnified, p, dispatch, h)
}

// InjectAll evaluates latency, exception and status code from a unified
// configuration, in that order, each with its own random sample. A fault
// whose magnitude is absent is skipped.
func InjectAll[E any, R Response](i *Injector, p FaultPolicy, h Handler[E, R]) Handler[E, R] {
	return wrap(i, SchemaUnified, p, all, h)
}

// DelayMiddleware is InjectDelay for use with Chain.
func DelayMiddleware[E any, R Response](i *Injector, p FaultPolicy) Middleware[E, R] {
	return func(next Handler[E, R]) Handler[E, R] { return InjectDelay(i, p, next) }
}

// ExceptionMiddleware is InjectException for use with Chain.
func ExceptionMiddleware[E any, R Response](i *Injector, p FaultPolicy) Middleware[E, R] {
	return func(next Handler[E, R]) Handler[E, R] { return InjectException(i, p, next) }
}

// StatusCodeMiddleware is InjectStatusCode for use with Chain.
func StatusCodeMiddleware[E any, R Response](i *Injector, p FaultPolicy) Middleware[E, R] {
	return func(next Handler[E, R]) Handler[E, R] { return InjectStatusCode(i, p, next) }
}

// FaultMiddleware is InjectFault for use with Chain.
func FaultMiddleware[E any, R Response](i *Injector, p FaultPolicy) Middleware[E, R] {
	return func(next Handler[E, R]) Handler[E, R] { return InjectFault(i, p, next) }
}

// AllMiddleware is InjectAll for use with Chain.
func AllMiddleware[E any, R Response](i *Injector, p FaultPolicy) Middleware[E, R] {
	return func(next Handler[E, R]) Handler[E, R] { return InjectAll(i, p, next) }
}
