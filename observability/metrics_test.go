package observability

import (
	"context"
	"testing"
	"time"

	"arcade/config"
	"arcade/events"
	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	mp := NewMetricsProvider(cfg)
	reader := sdkmetric.NewManualReader()

	mp.mu.Lock()
	require.NoError(t, mp.start(reader))
	mp.mu.Unlock()

	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	return sums
}

func TestMetricsProvider_Record(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.Record(ctx, events.RoundStartedEvent{UserID: 1, Game: models.GameSnake})
	mp.Record(ctx, events.RoundStartedEvent{UserID: 1, Game: models.GameWhac})
	mp.Record(ctx, events.ScoreRecordedEvent{UserID: 1, Game: models.GameSnake, Score: 6, Tickets: 12, Duration: 5 * time.Second})
	mp.Record(ctx, events.RoundRejectedEvent{UserID: 1, Game: models.GameWhac, Reason: models.ReasonArithmeticMismatch})
	mp.Record(ctx, events.ItemPurchasedEvent{UserID: 1, ItemID: "badge_star", Category: models.CategoryBadge})
	mp.Record(ctx, events.UserFlaggedEvent{UserID: 1, Failures: 3})

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums[RoundsStartedTotal])
	assert.Equal(t, int64(1), sums[RoundsAcceptedTotal])
	assert.Equal(t, int64(1), sums[RoundsRejectedTotal])
	assert.Equal(t, int64(12), sums[TicketsEarnedTotal])
	assert.Equal(t, int64(1), sums[ShopPurchasesTotal])
	assert.Equal(t, int64(1), sums[UsersFlaggedTotal])
}

func TestMetricsProvider_SubscribeTo(t *testing.T) {
	mp, reader := newTestProvider(t)
	bus := events.NewBus()
	mp.SubscribeTo(bus)

	bus.Publish(events.ScoreRecordedEvent{UserID: 1, Game: models.GameTetris, Score: 150, Tickets: 2})

	assert.Eventually(t, func() bool {
		return collectSums(t, reader)[TicketsEarnedTotal] == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetricsProvider_Disabled(t *testing.T) {
	cfg := config.NewTestConfig()
	mp := NewMetricsProvider(cfg)

	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	// Recording without instruments is a no-op
	mp.Record(context.Background(), events.UserFlaggedEvent{UserID: 1})
	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"
	mp := NewMetricsProvider(cfg)

	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "prometheus"

	err := NewMetricsProvider(cfg).Initialize(context.Background())

	assert.ErrorContains(t, err, "unknown exporter type")
}
