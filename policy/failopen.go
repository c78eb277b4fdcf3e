package policy

import "context"

// FailOpenPolicy invokes the handler normally on any configuration failure.
// The failure is only reported through logs.
type FailOpenPolicy struct{}

// Decide implements Policy.
func (FailOpenPolicy) Decide(_ context.Context, kind FailureKind, _ error, current Result) Result {
	if kind == FailNone {
		return current
	}
	current.Proceed = true
	current.Error = nil
	return current
}

// Parse maps a settings value to a Policy. An empty name returns nil, which
// lets each configuration schema apply its own default.
func Parse(name string) (Policy, bool) {
	switch name {
	case "":
		return nil, true
	case "closed", "fail-closed":
		return FailClosedPolicy{}, true
	case "open", "fail-open":
		return FailOpenPolicy{}, true
	default:
		return nil, false
	}
}
