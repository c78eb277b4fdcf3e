package policy

import "context"

// FailClosedPolicy aborts the invocation on any configuration failure. The
// handler is not called and the configuration error reaches the caller.
type FailClosedPolicy struct{}

// Decide implements Policy.
func (FailClosedPolicy) Decide(_ context.Context, kind FailureKind, inner error, current Result) Result {
	switch kind {
	case FailNone:
		return current
	case FailConfigFetch, FailConfigMalformed:
		current.Proceed = false
		if inner != nil && current.Error == nil {
			current.Error = inner
		}
		return current
	default:
		return current
	}
}
