package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda"
	"github.com/hatsunemiku3939/chaoslambda/source"
)

func newInjector(t *testing.T, blob string) *chaoslambda.Injector {
	t.Helper()
	inj, err := chaoslambda.New(
		chaoslambda.WithSource(source.NewStatic("p", blob)),
		chaoslambda.WithParameterName("p"),
		chaoslambda.WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)
	return inj
}

func TestBuild_Variants(t *testing.T) {
	inj := newInjector(t, `{"isEnabled": true, "is_enabled": true, "fault_type": "status_code", "delay": 0, "error_code": 404, "exception_msg": "I really failed seriously", "rate": 1}`)

	tests := []struct {
		variant    string
		wantStatus int
		wantErr    error
	}{
		{"delay", 200, nil},
		{"delay_zero", 200, nil},
		{"exception", 0, chaoslambda.ErrInjectedFault},
		{"exception_arg", 0, errValue},
		{"statuscode", 404, nil},
		{"statuscode_arg", 400, nil},
		{"fault", 404, nil},
		{"all", 0, chaoslambda.ErrInjectedFault},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			h, err := build(inj, zap.NewNop(), tt.variant)
			require.NoError(t, err)

			res, err := h(context.Background(), events.APIGatewayProxyRequest{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, "Hello from Lambda!", res.Body)
		})
	}
}

func TestBuild_Unknown(t *testing.T) {
	_, err := build(newInjector(t, `{"isEnabled": false}`), zap.NewNop(), "nope")
	assert.Error(t, err)
}

func TestBuild_Dependency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	t.Setenv("DEPENDENCY_URL", srv.URL)

	h, err := build(newInjector(t, `{"is_enabled": false}`), zap.NewNop(), "dependency")
	require.NoError(t, err)

	res, err := h(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dependency answered 202", res.Body)
}
