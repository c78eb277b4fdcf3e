// Package settings loads the process-wide settings of a chaos-enabled function.
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"

	"github.com/hatsunemiku3939/chaoslambda/policy"
)

const (
	SourceSSM = "ssm"
	SourceS3  = "s3"
	SourceEnv = "env"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are read once at process start and never mutated afterwards.
type Settings struct {
	Param         string        `mapstructure:"CHAOS_PARAM"`
	Source        string        `mapstructure:"CHAOS_SOURCE" default:"ssm"`
	S3Bucket      string        `mapstructure:"CHAOS_S3_BUCKET"`
	S3Prefix      string        `mapstructure:"CHAOS_S3_PREFIX"`
	FailurePolicy string        `mapstructure:"CHAOS_FAILURE_POLICY"`
	CacheTTL      time.Duration `mapstructure:"CHAOS_CACHE_TTL" default:"0s"`
	Region        string        `mapstructure:"AWS_REGION"`
}

func keys() []string {
	return []string{
		"CHAOS_PARAM", "CHAOS_SOURCE", "CHAOS_S3_BUCKET", "CHAOS_S3_PREFIX",
		"CHAOS_FAILURE_POLICY", "CHAOS_CACHE_TTL", "AWS_REGION",
	}
}

// FromEnv loads settings from the process environment.
func FromEnv() (*Settings, error) {
	env := make(map[string]string)
	for _, k := range keys() {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return Load(env)
}

// Load applies defaults, then the given values, then validates.
func Load(env map[string]string) (*Settings, error) {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           s,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if s.Param == "" {
		return fmt.Errorf("%w: CHAOS_PARAM is required", ErrInvalidSettings)
	}
	switch s.Source {
	case SourceSSM, SourceEnv:
	case SourceS3:
		if s.S3Bucket == "" {
			return fmt.Errorf("%w: CHAOS_S3_BUCKET is required for the s3 source", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: unknown CHAOS_SOURCE %q", ErrInvalidSettings, s.Source)
	}
	if _, ok := policy.Parse(s.FailurePolicy); !ok {
		return fmt.Errorf("%w: unknown CHAOS_FAILURE_POLICY %q", ErrInvalidSettings, s.FailurePolicy)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("%w: CHAOS_CACHE_TTL must not be negative", ErrInvalidSettings)
	}
	return nil
}

// Policy returns the configured failure policy, or nil for the schema default.
func (s *Settings) Policy() policy.Policy {
	p, _ := policy.Parse(s.FailurePolicy)
	return p
}
