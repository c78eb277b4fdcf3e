package chaoslambda

import (
	"errors"
	"math/rand/v2"
)

// RandSource yields uniform samples in [0, 1).
type RandSource interface {
	Float64() float64
}

// RandFunc adapts a function to RandSource.
type RandFunc func() float64

// Float64 implements RandSource.
func (f RandFunc) Float64() float64 { return f() }

// defaultRand draws from the goroutine-safe global generator, so concurrent
// invocations each get an independent sample.
var defaultRand RandSource = RandFunc(rand.Float64)

// DecisionState is the terminal state of one fault check.
type DecisionState int

const (
	// DecisionSkipped means the fault is not configured for this invocation
	// (disabled, absent in an optional check, or a zero magnitude).
	DecisionSkipped DecisionState = iota
	// DecisionInvalid means the magnitude failed validation; no sample was drawn.
	DecisionInvalid
	// DecisionNotFired means the fault was evaluated and did not fire.
	DecisionNotFired
	// DecisionFired means the fault fires.
	DecisionFired
)

func (s DecisionState) String() string {
	switch s {
	case DecisionSkipped:
		return "skipped"
	case DecisionInvalid:
		return "invalid"
	case DecisionNotFired:
		return "not_fired"
	case DecisionFired:
		return "fired"
	default:
		return "unknown"
	}
}

// Decision is the per-invocation result of evaluating one fault. It lives only
// on the current invocation's stack.
type Decision struct {
	Kind  FaultType
	State DecisionState
	Rate  float64
	// Drawn reports whether a random sample was consumed.
	Drawn bool

	DelayMs       int
	StatusCode    int
	Message       string
	ExceptionType error

	// Invalid is set when State is DecisionInvalid.
	Invalid *ValidationError
}

// ShouldFire is true when the fault must be applied.
func (d Decision) ShouldFire() bool { return d.State == DecisionFired }

// Evaluated is true when the fault was configured and reached the rate check.
func (d Decision) Evaluated() bool {
	return d.State == DecisionFired || d.State == DecisionNotFired
}

// Decide evaluates one fault kind against cfg. Magnitudes are validated before
// any sample is drawn, and at most one sample is drawn per call.
//
// When optional is true an absent magnitude skips the check; otherwise it is a
// *ConfigError of kind ConfigMissingKey. The status-code fault is the exception:
// an absent code is reported as a validation failure.
func Decide(cfg *FaultConfig, kind FaultType, p FaultPolicy, r RandSource, optional bool) (Decision, error) {
	d := Decision{Kind: kind, Rate: cfg.Rate()}
	if !cfg.Enabled() {
		return d, nil
	}

	switch kind {
	case FaultLatency:
		ms, ok, err := cfg.Delay()
		if p.Delay != nil {
			ms, ok, err = *p.Delay, true, nil
			if ms < 0 {
				err = &ValidationError{Field: KeyDelay, Want: "int"}
			}
		}
		if done, derr := resolveMagnitude(&d, KeyDelay, ok, err, optional); done {
			return d, derr
		}
		d.DelayMs = ms
		if ms == 0 {
			// Configured but zero: evaluated without a draw, never sleeps.
			d.State = DecisionNotFired
			return d, nil
		}

	case FaultException:
		d.ExceptionType = p.ExceptionType
		if d.ExceptionType == nil {
			d.ExceptionType = ErrInjectedFault
		}
		msg, ok, err := cfg.ExceptionMessage()
		if p.ExceptionMessage != "" {
			msg, ok, err = p.ExceptionMessage, true, nil
		}
		if done, derr := resolveMagnitude(&d, KeyExceptionMessage, ok, err, optional); done {
			return d, derr
		}
		d.Message = msg

	case FaultStatusCode:
		code, ok, err := cfg.ErrorCode()
		if p.ErrorCode != nil {
			code, ok, err = *p.ErrorCode, true, nil
		}
		if !ok && !optional {
			err = &ValidationError{Field: KeyErrorCode, Want: "int"}
			ok = true
		}
		if done, derr := resolveMagnitude(&d, KeyErrorCode, ok, err, optional); done {
			return d, derr
		}
		if code == 0 {
			return d, nil
		}
		d.StatusCode = code

	default:
		return d, nil
	}

	d.Drawn = true
	if r.Float64() <= d.Rate {
		d.State = DecisionFired
	} else {
		d.State = DecisionNotFired
	}
	return d, nil
}

// resolveMagnitude settles the absent and invalid cases. It reports done=true
// when the decision is final without a draw.
func resolveMagnitude(d *Decision, key string, present bool, err error, optional bool) (bool, error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		d.State = DecisionInvalid
		d.Invalid = verr
		return true, nil
	case err != nil:
		return true, err
	case !present && optional:
		return true, nil
	case !present:
		return true, &ConfigError{Kind: ConfigMissingKey, Key: key}
	}
	return false, nil
}
