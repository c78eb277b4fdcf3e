package chaoslambda

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// apply runs h under the decided faults. Latency is applied before the
// handler; exception and status code act on its result.
func apply[E any, R Response](
	ctx context.Context,
	i *Injector,
	lg *zap.Logger,
	p FaultPolicy,
	decisions []Decision,
	h Handler[E, R],
	event E,
) (R, error) {
	var zero R

	latency, timed := findDecision(decisions, FaultLatency)
	timed = timed && latency.Evaluated()

	var start time.Time
	if timed {
		start = i.clock.Now()
		lg.Info(fmt.Sprintf("Injecting %d ms of delay with a rate of %v", latency.DelayMs, latency.Rate))
		if latency.ShouldFire() {
			lg.Info("sleeping now")
			if err := i.clock.Sleep(ctx, time.Duration(latency.DelayMs)*time.Millisecond); err != nil {
				return zero, err
			}
		}
	}

	res, err := h(ctx, event)

	if timed {
		elapsed := i.clock.Now().Sub(start)
		lg.Info(fmt.Sprintf("Added %.2fms to %s", float64(elapsed)/float64(time.Millisecond), p.name()))
	}
	if err != nil {
		return res, err
	}

	for _, d := range decisions {
		if !d.Evaluated() {
			continue
		}
		switch d.Kind {
		case FaultException:
			lg.Info(fmt.Sprintf("Injecting exception_type %s with message %s a rate of %v",
				faultTypeName(d.ExceptionType), d.Message, d.Rate))
			if d.ShouldFire() {
				lg.Info("corrupting now")
				return zero, &InjectedFault{Type: d.ExceptionType, Message: d.Message}
			}
		case FaultStatusCode:
			lg.Info(fmt.Sprintf("Injecting Error %d at a rate of %v", d.StatusCode, d.Rate))
			if d.ShouldFire() {
				if isNil(res) {
					lg.Warn(fmt.Sprintf("Parameter %s cannot be applied to an empty response", KeyErrorCode),
						zap.String("field", KeyErrorCode))
					continue
				}
				lg.Info("corrupting now")
				res.SetStatusCode(d.StatusCode)
			}
		case FaultLatency:
		}
	}
	return res, nil
}

func findDecision(decisions []Decision, kind FaultType) (Decision, bool) {
	for _, d := range decisions {
		if d.Kind == kind {
			return d, true
		}
	}
	return Decision{}, false
}

// isNil reports whether a handler result has nothing to set a status code on.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
