// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogMod string

const (
	DevelopmentMod LogMod = "development"
	ProductionMod  LogMod = "production"
)

const (
	LogModEnvKey = "LOG_MOD"
	LevelEnvKey  = "LOG_LEVEL"
)

type Config struct {
	LogMod   LogMod `mapstructure:"LOG_MOD" default:"production"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

// LoadConfig applies defaults, then the non-empty values of env.
func LoadConfig(env map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	set := make(map[string]string, len(env))
	for k, v := range env {
		if v != "" {
			set[k] = v
		}
	}
	if err := mapstructure.Decode(set, cfg); err != nil {
		return nil, fmt.Errorf("decode logger config: %w", err)
	}
	return cfg, nil
}

func configFromEnv() *Config {
	cfg, err := LoadConfig(map[string]string{
		LogModEnvKey: os.Getenv(LogModEnvKey),
		LevelEnvKey:  os.Getenv(LevelEnvKey),
	})
	if err != nil {
		return &Config{LogMod: ProductionMod, LogLevel: zapcore.InfoLevel.String()}
	}
	return cfg
}

var globalLogger atomic.Pointer[zap.Logger]

func init() {
	globalLogger.Store(NewFromConfig(configFromEnv()))
}

// newZapCfg creates new zap config. Lambda ships stdout and stderr to CloudWatch,
// so production output is JSON on stderr.
func newZapCfg(mod LogMod, level zapcore.Level) zap.Config {
	var cfg zap.Config
	switch mod {
	case DevelopmentMod:
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level.SetLevel(level)
	return cfg
}

// NewFromConfig creates a logger from config. An unparsable level falls back to info.
func NewFromConfig(cfg *Config, opts ...zap.Option) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	lg, err := newZapCfg(cfg.LogMod, level).Build(opts...)
	if err != nil {
		return zap.NewNop()
	}
	return lg
}

// NewFromEnv creates a logger from LOG_MOD and LOG_LEVEL and installs it as the global logger.
func NewFromEnv(opts ...zap.Option) *zap.Logger {
	lg := NewFromConfig(configFromEnv(), opts...)
	SetGlobal(lg)
	return lg
}

// Global returns the global logger.
func Global() *zap.Logger {
	return globalLogger.Load()
}

// SetGlobal replaces the global logger.
func SetGlobal(lg *zap.Logger) {
	if lg == nil {
		lg = zap.NewNop()
	}
	globalLogger.Store(lg)
}

// Named returns a child of the global logger.
func Named(name string) *zap.Logger {
	return Global().Named(name)
}
