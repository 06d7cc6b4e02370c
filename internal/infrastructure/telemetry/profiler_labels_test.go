package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route":      "/api/v1/sales",
		"method":     "POST",
		"user_id":    "u-1",
		"empty":      "",
		"!!":         "dropped",
		"controller": strings.Repeat("x", 200),
	})

	assert.Equal(t, []string{
		"controller", strings.Repeat("x", MaxLabelValueLength),
		"method", "POST",
		"route", "/api/v1/sales",
	}, pairs)
	assert.Nil(t, sanitizeLabels(nil))
}

func TestSanitizeLabelKey(t *testing.T) {
	assert.Equal(t, "http_route", sanitizeLabelKey("HTTP-Route"))
	assert.Equal(t, "a_b", sanitizeLabelKey("a b"))
	assert.Equal(t, "", sanitizeLabelKey("$%"))
}

func TestHTTPRequestLabels(t *testing.T) {
	labels := HTTPRequestLabels("sales", "/api/v1/sales", "")
	assert.Equal(t, map[string]string{
		ProfilingLabelController: "sales",
		ProfilingLabelRoute:      "/api/v1/sales",
	}, labels)
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("attaches labels", func(t *testing.T) {
		var got string
		WithProfilingLabels(context.Background(), map[string]string{ProfilingLabelRoute: "/health"}, func(ctx context.Context) {
			got, _ = pprof.Label(ctx, ProfilingLabelRoute)
		})
		assert.Equal(t, "/health", got)
	})

	t.Run("runs fn without labels", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), map[string]string{"user_id": "x"}, func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, "user_id")
			assert.False(t, ok)
		})
		assert.True(t, called)
	})
}
