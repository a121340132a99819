package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := NewProfiler(config.TelemetryConfig{}, "test", zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("enabled requires an address", func(t *testing.T) {
		_, err := NewProfiler(config.TelemetryConfig{ProfilingEnabled: true}, "test", zap.NewNop())
		assert.ErrorContains(t, err, "pyroscope_address")
	})

	t.Run("nil profiler", func(t *testing.T) {
		var p *Profiler
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
	})
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		var got string
		WithProfilingLabels(context.Background(), func(ctx context.Context) {
			got, _ = pprof.Label(ctx, "operation")
		}, "operation", "receive", "tenant")
		assert.Equal(t, "receive", got)
	})

	t.Run("no labels runs fn directly", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, "operation")
			assert.False(t, ok)
		})
		assert.True(t, called)
	})
}
