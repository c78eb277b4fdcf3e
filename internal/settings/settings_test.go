package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatsunemiku3939/chaoslambda/policy"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(map[string]string{"CHAOS_PARAM": "chaoslambda.config"})
	require.NoError(t, err)

	assert.Equal(t, "chaoslambda.config", s.Param)
	assert.Equal(t, SourceSSM, s.Source)
	assert.Zero(t, s.CacheTTL)
	assert.Nil(t, s.Policy())
}

func TestLoad_Values(t *testing.T) {
	s, err := Load(map[string]string{
		"CHAOS_PARAM":          "experiments/orders.json",
		"CHAOS_SOURCE":         "s3",
		"CHAOS_S3_BUCKET":      "chaos-bucket",
		"CHAOS_S3_PREFIX":      "prod",
		"CHAOS_FAILURE_POLICY": "open",
		"CHAOS_CACHE_TTL":      "90s",
		"AWS_REGION":           "eu-west-1",
	})
	require.NoError(t, err)

	assert.Equal(t, SourceS3, s.Source)
	assert.Equal(t, "chaos-bucket", s.S3Bucket)
	assert.Equal(t, "prod", s.S3Prefix)
	assert.Equal(t, 90*time.Second, s.CacheTTL)
	assert.Equal(t, "eu-west-1", s.Region)
	assert.Equal(t, policy.FailOpenPolicy{}, s.Policy())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing param", map[string]string{}},
		{"unknown source", map[string]string{"CHAOS_PARAM": "p", "CHAOS_SOURCE": "consul"}},
		{"s3 without bucket", map[string]string{"CHAOS_PARAM": "p", "CHAOS_SOURCE": "s3"}},
		{"unknown policy", map[string]string{"CHAOS_PARAM": "p", "CHAOS_FAILURE_POLICY": "maybe"}},
		{"bad ttl", map[string]string{"CHAOS_PARAM": "p", "CHAOS_CACHE_TTL": "soon"}},
		{"negative ttl", map[string]string{"CHAOS_PARAM": "p", "CHAOS_CACHE_TTL": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.env)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CHAOS_PARAM", "from-env")
	t.Setenv("CHAOS_SOURCE", "env")
	t.Setenv("CHAOS_FAILURE_POLICY", "closed")

	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.Param)
	assert.Equal(t, SourceEnv, s.Source)
	assert.Equal(t, policy.FailClosedPolicy{}, s.Policy())
}
