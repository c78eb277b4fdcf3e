package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	s := NewStatic("test.config", `{"isEnabled": true}`)

	got, err := s.Fetch(context.Background(), "test.config")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isEnabled": true}`, string(got))

	_, err = s.Fetch(context.Background(), "test.conf")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Delete("test.config")
	_, err = s.Fetch(context.Background(), "test.config")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_ZeroValue(t *testing.T) {
	var s Static
	_, err := s.Fetch(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Set("x", "1")
	got, err := s.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestEnv(t *testing.T) {
	t.Setenv("CHAOS_TEST_BLOB", `{"is_enabled": false}`)

	got, err := Env{}.Fetch(context.Background(), "CHAOS_TEST_BLOB")
	require.NoError(t, err)
	assert.Equal(t, `{"is_enabled": false}`, string(got))

	_, err = Env{}.Fetch(context.Background(), "CHAOS_TEST_BLOB_MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCached(t *testing.T) {
	calls := 0
	inner := Func(func(_ context.Context, name string) ([]byte, error) {
		calls++
		return []byte(name), nil
	})

	now := time.Unix(0, 0)
	c := NewCached(inner, time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "p", string(got))
	}
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	_, err := c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	c.Invalidate("p")
	_, err = c.Fetch(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	inner := Func(func(context.Context, string) ([]byte, error) {
		calls++
		return nil, ErrUnavailable
	})
	c := NewCached(inner, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), "p")
		assert.True(t, errors.Is(err, ErrUnavailable))
	}
	assert.Equal(t, 2, calls)
}

func TestCached_Disabled(t *testing.T) {
	calls := 0
	inner := Func(func(context.Context, string) ([]byte, error) {
		calls++
		return []byte("v"), nil
	})
	c := NewCached(inner, 0)
	_, _ = c.Fetch(context.Background(), "p")
	_, _ = c.Fetch(context.Background(), "p")
	assert.Equal(t, 2, calls)
}
