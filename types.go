package chaoslambda

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// Response is the minimum a handler result must expose for the status-code fault.
// Everything else about the result is passed through untouched.
type Response interface {
	SetStatusCode(code int)
}

// Handler is the function shape wrapped by the injectors. The event and the
// invocation context are opaque to the fault engine.
type Handler[E any, R Response] func(ctx context.Context, event E) (R, error)

// Middleware composes cross-cutting concerns around a Handler.
type Middleware[E any, R Response] func(next Handler[E, R]) Handler[E, R]

// Chain applies middlewares so that the first one listed is the outermost.
func Chain[E any, R Response](h Handler[E, R], mws ...Middleware[E, R]) Handler[E, R] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Result is a minimal API Gateway style response.
type Result struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// SetStatusCode implements Response.
func (r *Result) SetStatusCode(code int) { r.StatusCode = code }

// ProxyResponse adapts the aws-lambda-go API Gateway proxy response to Response.
// The embedded struct keeps the JSON shape the Lambda runtime expects.
type ProxyResponse struct {
	events.APIGatewayProxyResponse
}

// SetStatusCode implements Response.
func (r *ProxyResponse) SetStatusCode(code int) { r.StatusCode = code }

// FaultType selects the fault in the unified configuration schema.
type FaultType string

const (
	FaultLatency    FaultType = "latency"
	FaultException  FaultType = "exception"
	FaultStatusCode FaultType = "status_code"
)

// Valid reports whether t names a known fault.
func (t FaultType) Valid() bool {
	switch t {
	case FaultLatency, FaultException, FaultStatusCode:
		return true
	}
	return false
}

// Schema selects one of the two configuration generations.
type Schema int

const (
	// SchemaLegacy is the per-fault schema keyed by "isEnabled".
	SchemaLegacy Schema = iota
	// SchemaUnified is the fault-type-driven schema keyed by "is_enabled" and "fault_type".
	SchemaUnified
)

func (s Schema) String() string {
	if s == SchemaUnified {
		return "unified"
	}
	return "legacy"
}

// ParseSchema maps "legacy" or "unified" to a Schema.
func ParseSchema(name string) (Schema, error) {
	switch name {
	case "legacy", "":
		return SchemaLegacy, nil
	case "unified":
		return SchemaUnified, nil
	}
	return SchemaLegacy, fmt.Errorf("unknown schema %q", name)
}

// EnabledKey is the name of the master switch in s.
func (s Schema) EnabledKey() string {
	if s == SchemaUnified {
		return KeyEnabledUnified
	}
	return KeyEnabledLegacy
}

// FaultPolicy carries per-call-site overrides. The zero value (DefaultPolicy)
// takes every magnitude from the remote configuration.
//
// An override replaces only the magnitude. The injection rate and the master
// switch still come from the remote configuration, so an override never forces
// a fault to fire; set "rate": 1 in the configuration for that.
type FaultPolicy struct {
	// Name labels the wrapped handler in duration logs.
	Name string
	// Delay overrides the configured delay in milliseconds.
	Delay *int
	// ErrorCode overrides the configured status code.
	ErrorCode *int
	// ExceptionType tags the injected error; errors.Is(err, ExceptionType) holds.
	ExceptionType error
	// ExceptionMessage overrides the configured exception message.
	ExceptionMessage string
}

// DefaultPolicy is the policy used when a wrapper is applied without overrides.
func DefaultPolicy() FaultPolicy {
	return FaultPolicy{Name: "handler"}
}

func (p FaultPolicy) name() string {
	if p.Name == "" {
		return "handler"
	}
	return p.Name
}

// Ptr is a helper for the pointer-valued policy overrides.
func Ptr[T any](v T) *T { return &v }
