package policy

import "context"

// FailureKind enumerates where in the configuration pipeline a failure occurred.
type FailureKind int

const (
	// FailNone indicates no failure occurred.
	FailNone FailureKind = iota
	// FailConfigFetch indicates the remote store did not return the parameter.
	FailConfigFetch
	// FailConfigMalformed indicates the parameter could not be decoded or lacks a required key.
	FailConfigMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailNone:
		return "none"
	case FailConfigFetch:
		return "config_fetch"
	case FailConfigMalformed:
		return "config_malformed"
	default:
		return "unknown"
	}
}

// Result is the decision for the current invocation.
type Result struct {
	// Proceed is true when the wrapped handler should run without fault injection.
	Proceed bool
	// Error is returned to the caller when Proceed is false.
	Error error
}

// Policy decides how a configuration failure affects the invocation.
type Policy interface {
	Decide(ctx context.Context, kind FailureKind, inner error, current Result) Result
}
