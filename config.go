package chaoslambda

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"

	"github.com/samber/lo"

	"github.com/hatsunemiku3939/chaoslambda/pkg/jsonschema"
)

var (
	legacySchema  = jsonschema.MustCompile(LegacyConfigSchema)
	unifiedSchema = jsonschema.MustCompile(UnifiedConfigSchema)
)

// FaultConfig is the validated configuration of one experiment. It is built
// fresh for every invocation and never mutated after Parse returns.
//
// A disabled configuration keeps its raw fields for re-serialization, but every
// accessor reports a zero magnitude and a zero rate.
type FaultConfig struct {
	schema  Schema
	enabled bool
	rate    float64
	fields  map[string]any
}

// Parse decodes and validates a configuration blob of the given schema generation.
func Parse(raw []byte, schema Schema) (*FaultConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &ConfigError{Kind: ConfigMalformed, Err: err}
	}
	if fields == nil {
		return nil, &ConfigError{Kind: ConfigMalformed, Err: errors.New("configuration is null")}
	}

	enabledKey := schema.EnabledKey()
	if _, ok := fields[enabledKey]; !ok {
		return nil, &ConfigError{Kind: ConfigMissingKey, Key: enabledKey}
	}
	// A disabled experiment is honored whatever the other stored values hold.
	if on, isBool := fields[enabledKey].(bool); isBool && !on {
		return &FaultConfig{schema: schema, fields: fields}, nil
	}

	validator := legacySchema
	if schema == SchemaUnified {
		validator = unifiedSchema
	}
	if err := validator.Validate(raw); err != nil {
		return nil, &ConfigError{Kind: ConfigMalformed, Err: err}
	}

	cfg := &FaultConfig{
		schema:  schema,
		enabled: fields[enabledKey].(bool),
		rate:    1,
		fields:  fields,
	}
	if n, ok := fields[KeyRate].(json.Number); ok {
		rate, err := n.Float64()
		if err != nil {
			return nil, &ConfigError{Kind: ConfigMalformed, Key: KeyRate, Err: err}
		}
		cfg.rate = rate
	}
	return cfg, nil
}

// Schema returns the generation this configuration was parsed as.
func (c *FaultConfig) Schema() Schema { return c.schema }

// Enabled is the master switch.
func (c *FaultConfig) Enabled() bool { return c.enabled }

// Rate is the injection probability; zero when disabled.
func (c *FaultConfig) Rate() float64 {
	if !c.enabled {
		return 0
	}
	return c.rate
}

// FaultType is the active fault of a unified configuration. It is empty when
// disabled, absent, or not a string.
func (c *FaultConfig) FaultType() FaultType {
	if !c.enabled {
		return ""
	}
	s, _ := c.fields[KeyFaultType].(string)
	return FaultType(s)
}

// Has reports whether key is present in an enabled configuration.
func (c *FaultConfig) Has(key string) bool {
	if !c.enabled {
		return false
	}
	_, ok := c.fields[key]
	return ok
}

// Delay returns the configured delay in milliseconds. ok is false when the key
// is absent. A present value that is not a non-negative integer yields a *ValidationError.
func (c *FaultConfig) Delay() (ms int, ok bool, err error) {
	return c.intField(KeyDelay, false)
}

// ErrorCode returns the configured status code.
func (c *FaultConfig) ErrorCode() (code int, ok bool, err error) {
	return c.intField(KeyErrorCode, true)
}

// ExceptionMessage returns the configured exception message.
func (c *FaultConfig) ExceptionMessage() (msg string, ok bool, err error) {
	if !c.enabled {
		return "", false, nil
	}
	v, present := c.fields[KeyExceptionMessage]
	if !present {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, &ValidationError{Field: KeyExceptionMessage, Want: "string"}
	}
	return s, true, nil
}

func (c *FaultConfig) intField(key string, allowNegative bool) (int, bool, error) {
	if !c.enabled {
		return 0, false, nil
	}
	v, present := c.fields[key]
	if !present {
		return 0, false, nil
	}
	n, isNumber := v.(json.Number)
	if !isNumber {
		return 0, true, &ValidationError{Field: key, Want: "int"}
	}
	i, err := n.Int64()
	if err != nil || (i < 0 && !allowNegative) || i > math.MaxInt32 || i < math.MinInt32 {
		return 0, true, &ValidationError{Field: key, Want: "int"}
	}
	return int(i), true, nil
}

// knownKeys lists the dimensions a single-field query may ask for.
func (c *FaultConfig) knownKeys() []string {
	keys := []string{c.schema.EnabledKey(), KeyDelay, KeyErrorCode, KeyExceptionMessage, KeyRate}
	if c.schema == SchemaUnified {
		keys = append(keys, KeyFaultType)
	}
	return keys
}

// Query is the single-field mode: it returns the requested value and the rate.
// A disabled configuration answers (0, 0) for every key.
func (c *FaultConfig) Query(key string) (any, float64, error) {
	if !c.enabled {
		return 0, 0, nil
	}
	if !lo.Contains(c.knownKeys(), key) {
		return nil, 0, &ConfigError{Kind: ConfigUnknownKey, Key: key}
	}
	v, ok := c.fields[key]
	if !ok {
		return nil, 0, &ConfigError{Kind: ConfigMissingKey, Key: key}
	}
	return plainValue(v), c.rate, nil
}

// Fields returns a copy of the decoded configuration with numbers converted to
// int64 or float64. It is the full-config mode view.
func (c *FaultConfig) Fields() map[string]any {
	return lo.MapValues(c.fields, func(v any, _ string) any { return plainValue(v) })
}

// MarshalJSON re-serializes every field as it was received.
func (c *FaultConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.fields)
}

func plainValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, _ := n.Float64()
	return f
}
