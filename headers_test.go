package fault

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHeaderKeys(t *testing.T) {
	t.Run("trims and lower-cases", func(t *testing.T) {
		keys, err := normalizeHeaderKeys([]string{" X-Request-Id ", "USER-AGENT"})
		require.NoError(t, err)
		require.Equal(t, HeaderSet{"x-request-id", "user-agent"}, keys)
	})

	t.Run("rejects blank entries", func(t *testing.T) {
		_, err := normalizeHeaderKeys([]string{"x-request-id", "   "})
		require.Error(t, err)
	})
}

func TestCollectHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Request-Id", "req-1")
	h.Set("User-Agent", "test-agent")

	got := collectHeaders(h, HeaderSet{"x-request-id", "user-agent", "x-correlation-id"})

	require.Equal(t, map[string]string{
		"x-request-id": "req-1",
		"user-agent":   "test-agent",
	}, got)

	_, present := got["x-correlation-id"]
	require.False(t, present, "absent headers must be omitted, not nulled")
}

func TestEchoPolicy(t *testing.T) {
	h := http.Header{}
	h.Set("X-Request-Id", "req-1")
	h.Set("X-Correlation-Id", "corr-1")
	h.Set("X-User-Id", "user-1")

	t.Run("default echoes the tracing triple only", func(t *testing.T) {
		got := EchoDefault().headers(h)
		require.Equal(t, map[string]string{
			"x-request-id":     "req-1",
			"x-correlation-id": "corr-1",
		}, got)
	})

	t.Run("none echoes nothing even when present", func(t *testing.T) {
		require.Empty(t, EchoNone().headers(h))
	})

	t.Run("explicit list echoes exactly those", func(t *testing.T) {
		got := EchoOnly("x-user-id").headers(h)
		require.Equal(t, map[string]string{"x-user-id": "user-1"}, got)
	})
}

func TestMergeErrorHeaders(t *testing.T) {
	base := map[string]string{"x-request-id": "req-1"}

	got := mergeErrorHeaders(base, map[string]string{
		"x-request-id": "overridden",
		"retry-after":  "30",
		"":             "dropped",
		"x-empty":      "",
	})

	require.Equal(t, map[string]string{
		"x-request-id": "overridden",
		"retry-after":  "30",
	}, got)
}
