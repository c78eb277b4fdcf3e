// Package chaoslambda injects latency, errors and status-code rewrites into
// serverless handlers, driven by a JSON experiment configuration fetched from a
// remote store on every invocation.
//
// Two configuration generations are supported. The legacy one is consulted
// per fault by InjectDelay, InjectException and InjectStatusCode:
//
//	{"isEnabled": true, "delay": 400, "error_code": 404, "exception_msg": "I really failed seriously", "rate": 1}
//
// The unified one selects a single fault with "fault_type" and is consulted by
// InjectFault, or by InjectAll which evaluates every configured fault:
//
//	{"is_enabled": true, "fault_type": "latency", "delay": 400, "rate": 0.5}
//
// Configuration errors abort legacy invocations and are only logged for
// unified ones, unless WithFailurePolicy says otherwise.
package chaoslambda
