package chaoslambda

import (
	"errors"
	"fmt"

	"github.com/hatsunemiku3939/chaoslambda/source"
)

var (
	ErrConfigFetch     = errors.New("configuration fetch failed")
	ErrConfigMalformed = errors.New("configuration malformed")
	ErrMissingKey      = errors.New("missing required key")
	ErrUnknownKey      = errors.New("unknown configuration key")
	ErrInjectedFault   = errors.New("injected fault")
	ErrNoSource        = errors.New("no configuration source")
	ErrNoParameter     = errors.New("no configuration parameter name")
)

// ConfigErrorKind classifies a ConfigError.
type ConfigErrorKind int

const (
	// ConfigFetch indicates the remote store could not return the parameter.
	ConfigFetch ConfigErrorKind = iota
	// ConfigMalformed indicates the blob could not be decoded or failed schema validation.
	ConfigMalformed
	// ConfigMissingKey indicates a key required by the requested operation is absent.
	ConfigMissingKey
	// ConfigUnknownKey indicates a single-field query named a dimension the schema does not know.
	ConfigUnknownKey
)

func (k ConfigErrorKind) String() string {
	switch k {
	case ConfigFetch:
		return "fetch"
	case ConfigMalformed:
		return "malformed"
	case ConfigMissingKey:
		return "missing_key"
	case ConfigUnknownKey:
		return "unknown_key"
	default:
		return "unknown"
	}
}

// ConfigError is returned for every configuration problem that prevents a fault decision.
type ConfigError struct {
	Kind ConfigErrorKind
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case ConfigMissingKey, ConfigUnknownKey:
		return fmt.Sprintf("%s is not a valid Key in the configuration", e.Key)
	case ConfigFetch:
		if errors.Is(e.Err, source.ErrUnavailable) {
			return fmt.Sprintf("%s could not be fetched from the configuration store: %v", e.Key, e.Err)
		}
		return fmt.Sprintf("%s does not exist in the configuration store: %v", e.Key, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrConfigMalformed, e.Err)
		}
		return ErrConfigMalformed.Error()
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	var errs []error
	switch e.Kind {
	case ConfigFetch:
		errs = append(errs, ErrConfigFetch)
	case ConfigMalformed:
		errs = append(errs, ErrConfigMalformed)
	case ConfigMissingKey:
		// A missing key is a malformed configuration for the operation that needed it.
		errs = append(errs, ErrMissingKey, ErrConfigMalformed)
	case ConfigUnknownKey:
		errs = append(errs, ErrUnknownKey)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ValidationError reports a magnitude field of the wrong type. It is never fatal:
// the affected fault check is skipped and the handler runs unaffected.
type ValidationError struct {
	Field string
	Want  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Parameter %s is no valid %s", e.Field, e.Want)
}

// InjectedFault is the synthetic error raised by an exception fault.
// Error returns the message unchanged; errors.Is matches the type tag.
type InjectedFault struct {
	Type    error
	Message string
}

func (e *InjectedFault) Error() string { return e.Message }

func (e *InjectedFault) Unwrap() error {
	if e.Type == nil {
		return ErrInjectedFault
	}
	return e.Type
}

// TypeName is the label used for the fault type in logs.
func (e *InjectedFault) TypeName() string {
	return faultTypeName(e.Type)
}

func faultTypeName(tag error) string {
	if tag == nil || tag == ErrInjectedFault {
		return "Exception"
	}
	if s := tag.Error(); s != "" {
		return s
	}
	return fmt.Sprintf("%T", tag)
}
