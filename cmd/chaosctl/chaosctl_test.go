package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatsunemiku3939/chaoslambda/source"
)

const testParam = "chaoslambda.config"

type staticStore struct {
	*source.Static
}

func (s staticStore) Put(_ context.Context, name, value string) error {
	s.Set(name, value)
	return nil
}

func run(t *testing.T, st store, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(context.Context, string) (store, error) { return st, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"isEnabled": true, "delay": 400, "rate": 0.5}`)
	out, err := run(t, nil, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid legacy configuration (enabled=true, rate=0.5)")
}

func TestValidate_YAMLUnified(t *testing.T) {
	path := writeFile(t, "config.yaml", "is_enabled: true\nfault_type: status_code\nerror_code: 503\nrate: 1\n")
	out, err := run(t, nil, "", "validate", "--schema", "unified", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid unified configuration")
}

func TestValidate_Warnings(t *testing.T) {
	path := writeFile(t, "config.json", `{"is_enabled": true, "fault_type": "network", "delay": "slow"}`)
	out, err := run(t, nil, "", "validate", "--schema", "unified", "--json", path)
	require.NoError(t, err)

	var res validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Valid)
	assert.Contains(t, res.Warnings, "Parameter delay is no valid int")
	assert.Len(t, res.Warnings, 2)
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, "config.json", `{"delay": 400}`)
	out, err := run(t, nil, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, "invalid: isEnabled is not a valid Key in the configuration")
}

func TestValidate_UnknownSchema(t *testing.T) {
	path := writeFile(t, "config.json", `{"isEnabled": true}`)
	_, err := run(t, nil, "", "validate", "--schema", "v3", path)
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	st := staticStore{source.NewStatic(testParam, `{"isEnabled":true,"delay":400}`)}
	out, err := run(t, st, "", "get", "--param", testParam)
	require.NoError(t, err)
	assert.Contains(t, out, "\"delay\": 400")
}

func TestGet_RequiresParam(t *testing.T) {
	t.Setenv("CHAOS_PARAM", "")
	st := staticStore{&source.Static{}}
	_, err := run(t, st, "", "get")
	assert.ErrorIs(t, err, errNoParam)
}

func TestPut_FromStdin(t *testing.T) {
	st := staticStore{&source.Static{}}
	out, err := run(t, st, "isEnabled: true\nerror_code: 404\n", "put", "--param", testParam)
	require.NoError(t, err)
	assert.Contains(t, out, "stored "+testParam)

	raw, err := st.Fetch(context.Background(), testParam)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isEnabled": true, "error_code": 404}`, string(raw))
}

func TestPut_RejectsInvalid(t *testing.T) {
	st := staticStore{&source.Static{}}
	_, err := run(t, st, `{"isEnabled": true, "rate": 2}`, "put", "--param", testParam)
	require.Error(t, err)

	_, err = st.Fetch(context.Background(), testParam)
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestToggle(t *testing.T) {
	st := staticStore{source.NewStatic(testParam, `{"is_enabled": false, "fault_type": "latency", "delay": 400, "rate": 0.25}`)}

	out, err := run(t, st, "", "enable", "--param", testParam, "--schema", "unified")
	require.NoError(t, err)
	assert.Contains(t, out, testParam+" enabled")

	raw, err := st.Fetch(context.Background(), testParam)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_enabled": true, "fault_type": "latency", "delay": 400, "rate": 0.25}`, string(raw))

	_, err = run(t, st, "", "disable", "--param", testParam, "--schema", "unified")
	require.NoError(t, err)
	raw, err = st.Fetch(context.Background(), testParam)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_enabled": false, "fault_type": "latency", "delay": 400, "rate": 0.25}`, string(raw))
}
