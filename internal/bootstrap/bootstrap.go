// Package bootstrap wires settings, logging and AWS clients into an Injector.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda"
	"github.com/hatsunemiku3939/chaoslambda/internal/awsconf"
	"github.com/hatsunemiku3939/chaoslambda/internal/settings"
	"github.com/hatsunemiku3939/chaoslambda/source"
	chaoss3 "github.com/hatsunemiku3939/chaoslambda/source/s3"
	chaosssm "github.com/hatsunemiku3939/chaoslambda/source/ssm"
)

// Source builds the configuration source named by the settings. awsCfg is
// ignored for the env source.
func Source(s *settings.Settings, awsCfg aws.Config) (source.Source, error) {
	var src source.Source
	switch s.Source {
	case settings.SourceEnv:
		src = source.Env{}
	case settings.SourceSSM:
		src = chaosssm.New(awsssm.NewFromConfig(awsCfg))
	case settings.SourceS3:
		src = chaoss3.New(awss3.NewFromConfig(awsCfg), s.S3Bucket, s.S3Prefix)
	default:
		return nil, fmt.Errorf("%w: unknown source %q", settings.ErrInvalidSettings, s.Source)
	}
	if s.CacheTTL > 0 {
		src = source.NewCached(src, s.CacheTTL)
	}
	return src, nil
}

// Injector creates an Injector from settings. opts are applied last.
func Injector(ctx context.Context, s *settings.Settings, lg *zap.Logger, opts ...chaoslambda.Option) (*chaoslambda.Injector, error) {
	var awsCfg aws.Config
	if s.Source != settings.SourceEnv {
		cfg, err := awsconf.Load(ctx, s.Region, lg.Named("aws"))
		if err != nil {
			return nil, err
		}
		awsCfg = cfg
	}

	src, err := Source(s, awsCfg)
	if err != nil {
		return nil, err
	}

	base := []chaoslambda.Option{
		chaoslambda.WithSource(src),
		chaoslambda.WithParameterName(s.Param),
		chaoslambda.WithLogger(lg),
	}
	if p := s.Policy(); p != nil {
		base = append(base, chaoslambda.WithFailurePolicy(p))
	}
	return chaoslambda.New(append(base, opts...)...)
}
