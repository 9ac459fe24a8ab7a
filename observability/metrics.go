package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arcade/config"
	"arcade/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the arcade service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	roundsStartedCounter  metric.Int64Counter
	roundsAcceptedCounter metric.Int64Counter
	roundsRejectedCounter metric.Int64Counter
	roundDurationHist     metric.Float64Histogram
	ticketsEarnedCounter  metric.Int64Counter
	shopPurchasesCounter  metric.Int64Counter
	usersFlaggedCounter   metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.start(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

// start builds the meter provider around reader. Callers hold mp.mu.
func (mp *MetricsProvider) start(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("arcade")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.roundsStartedCounter, err = mp.meter.Int64Counter(
		RoundsStartedTotal,
		metric.WithDescription("Total number of rounds started"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds started counter: %w", err)
	}

	mp.roundsAcceptedCounter, err = mp.meter.Int64Counter(
		RoundsAcceptedTotal,
		metric.WithDescription("Total number of submissions accepted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds accepted counter: %w", err)
	}

	mp.roundsRejectedCounter, err = mp.meter.Int64Counter(
		RoundsRejectedTotal,
		metric.WithDescription("Total number of submissions rejected by validation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds rejected counter: %w", err)
	}

	mp.roundDurationHist, err = mp.meter.Float64Histogram(
		RoundDuration,
		metric.WithDescription("Server-measured duration of submitted rounds in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 1800),
	)
	if err != nil {
		return fmt.Errorf("failed to create round duration histogram: %w", err)
	}

	mp.ticketsEarnedCounter, err = mp.meter.Int64Counter(
		TicketsEarnedTotal,
		metric.WithDescription("Total number of tickets awarded"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tickets earned counter: %w", err)
	}

	mp.shopPurchasesCounter, err = mp.meter.Int64Counter(
		ShopPurchasesTotal,
		metric.WithDescription("Total number of shop purchases"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create shop purchases counter: %w", err)
	}

	mp.usersFlaggedCounter, err = mp.meter.Int64Counter(
		UsersFlaggedTotal,
		metric.WithDescription("Total number of users flagged as suspect"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create users flagged counter: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// SubscribeTo records metrics for every event emitted on bus
func (mp *MetricsProvider) SubscribeTo(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		mp.Record(ctx, event)
	})
}

// Record updates the instruments matching an event
func (mp *MetricsProvider) Record(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.RoundStartedEvent:
		mp.roundsStartedCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(LabelGame, string(e.Game))))

	case events.ScoreRecordedEvent:
		game := metric.WithAttributes(attribute.String(LabelGame, string(e.Game)))
		mp.roundsAcceptedCounter.Add(ctx, 1, game)
		mp.ticketsEarnedCounter.Add(ctx, e.Tickets, game)
		mp.roundDurationHist.Record(ctx, e.Duration.Seconds(), game)

	case events.RoundRejectedEvent:
		mp.roundsRejectedCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String(LabelGame, string(e.Game)),
				attribute.String(LabelReason, string(e.Reason)),
			))
		mp.roundDurationHist.Record(ctx, e.Duration.Seconds(),
			metric.WithAttributes(attribute.String(LabelGame, string(e.Game))))

	case events.ItemPurchasedEvent:
		mp.shopPurchasesCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(LabelCategory, string(e.Category))))

	case events.UserFlaggedEvent:
		mp.usersFlaggedCounter.Add(ctx, 1)
	}
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
