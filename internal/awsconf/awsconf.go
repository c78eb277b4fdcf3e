// Package awsconf loads the AWS SDK configuration with SDK logs routed to zap.
package awsconf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func logMode(lgr *zap.Logger) aws.ClientLogMode {
	mode := aws.LogRetries
	if lgr.Level() == zapcore.DebugLevel {
		mode |= aws.LogRequest |
			aws.LogResponse |
			aws.LogDeprecatedUsage |
			aws.LogSigning
	}
	return mode
}

func loggerFunc(lgr *zap.Logger) logging.LoggerFunc {
	return func(classification logging.Classification, format string, v ...interface{}) {
		switch classification {
		case logging.Debug:
			lgr.Sugar().Debugf(format, v...)
		case logging.Warn:
			lgr.Sugar().Warnf(format, v...)
		}
	}
}

// Load returns the default AWS configuration. An empty region keeps the
// region resolved from the environment.
func Load(ctx context.Context, region string, lgr *zap.Logger, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithLogger(loggerFunc(lgr)),
		config.WithClientLogMode(logMode(lgr)),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	opts = append(opts, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
