package awsconf

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMode(t *testing.T) {
	assert.Equal(t, aws.LogRetries, logMode(zap.NewNop()))

	core, _ := observer.New(zapcore.DebugLevel)
	debug := logMode(zap.New(core))
	assert.True(t, debug.IsRequest())
	assert.True(t, debug.IsSigning())
}

func TestLoggerFunc(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fn := loggerFunc(zap.New(core))

	fn.Logf(logging.Warn, "retrying %s", "GetParameter")
	fn.Logf(logging.Debug, "request %d", 1)

	all := logs.All()
	require.Len(t, all, 2)
	assert.Equal(t, zapcore.WarnLevel, all[0].Level)
	assert.Equal(t, "retrying GetParameter", all[0].Message)
	assert.Equal(t, "request 1", all[1].Message)
}

func TestLoad_Region(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	cfg, err := Load(context.Background(), "eu-central-1", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Region)
}
