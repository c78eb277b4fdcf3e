package chaoslambda

// --- Configuration keys ---

const (
	KeyEnabledLegacy    = "isEnabled"
	KeyEnabledUnified   = "is_enabled"
	KeyFaultType        = "fault_type"
	KeyDelay            = "delay"
	KeyErrorCode        = "error_code"
	KeyExceptionMessage = "exception_msg"
	KeyRate             = "rate"
)

// --- Schemas ---
// Magnitude fields are intentionally left untyped here: a wrong type on one of
// them only disables that fault check, it never rejects the whole configuration.

var LegacyConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "isEnabled": { "type": "boolean" },
    "rate": { "type": "number", "minimum": 0, "maximum": 1 }
  },
  "required": ["isEnabled"]
}`

var UnifiedConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "is_enabled": { "type": "boolean" },
    "fault_type": { "type": "string" },
    "rate": { "type": "number", "minimum": 0, "maximum": 1 }
  },
  "required": ["is_enabled"]
}`
