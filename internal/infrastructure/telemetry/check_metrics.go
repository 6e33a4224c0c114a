// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CheckMetrics provides domain metrics for the compliance backend.
// It tracks check activity, provider notifications, inbound email
// traffic, and outbox backlog health.
type CheckMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	checkStartedTotal        *Counter
	notificationAppliedTotal *Counter
	notificationIgnoredTotal *Counter
	emailReceivedTotal       *Counter
	webhookRejectedTotal     *Counter

	// Gauge metrics (point-in-time values)
	outboxEntries          *Gauge
	outboxOldestPendingAge *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	outboxProvider OutboxMetricsProvider
}

// OutboxMetricsProvider provides outbox backlog data for periodic metrics
// collection. The interface keeps the telemetry layer decoupled from the
// outbox persistence implementation.
type OutboxMetricsProvider interface {
	// CountByStatus returns the number of outbox entries per status
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// OldestPendingAge returns the age of the oldest pending entry,
	// or zero when the backlog is empty
	OldestPendingAge(ctx context.Context) (time.Duration, error)
}

// CheckMetricsConfig holds configuration for domain metrics.
type CheckMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 1 minute
	OutboxProvider  OutboxMetricsProvider
}

// NewCheckMetrics creates a new CheckMetrics instance.
func NewCheckMetrics(cfg CheckMetricsConfig) (*CheckMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CheckMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		outboxProvider: cfg.OutboxProvider,
	}

	// Initialize counter metrics
	var err error

	cm.checkStartedTotal, err = NewCounter(
		cfg.Meter,
		"scms_check_started_total",
		"Total number of integrity checks started",
		"{checks}",
	)
	if err != nil {
		return nil, err
	}

	cm.notificationAppliedTotal, err = NewCounter(
		cfg.Meter,
		"scms_notification_applied_total",
		"Total number of provider notifications applied to a check stage",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	cm.notificationIgnoredTotal, err = NewCounter(
		cfg.Meter,
		"scms_notification_ignored_total",
		"Total number of provider notifications ignored without a stage change",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	cm.emailReceivedTotal, err = NewCounter(
		cfg.Meter,
		"scms_email_received_total",
		"Total number of inbound emails accepted by the mailroom",
		"{emails}",
	)
	if err != nil {
		return nil, err
	}

	cm.webhookRejectedTotal, err = NewCounter(
		cfg.Meter,
		"scms_webhook_rejected_total",
		"Total number of rejected webhook deliveries",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Outbox gauge metrics
	cm.outboxEntries, err = NewGauge(
		cfg.Meter,
		"scms_outbox_entries",
		"Current number of outbox entries per status",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	cm.outboxOldestPendingAge, err = NewFloatGauge(
		cfg.Meter,
		"scms_outbox_oldest_pending_age_seconds",
		"Age of the oldest pending outbox entry",
		"s",
	)
	if err != nil {
		return nil, err
	}

	return cm, nil
}

// =============================================================================
// Check Metrics
// =============================================================================

// RecordCheckStarted records the creation of a new integrity check.
func (cm *CheckMetrics) RecordCheckStarted(ctx context.Context) {
	cm.checkStartedTotal.Inc(ctx)
}

// RecordNotificationApplied records a provider notification that changed a
// stage. Stage and status are low-cardinality enum values.
func (cm *CheckMetrics) RecordNotificationApplied(ctx context.Context, stage, status string) {
	cm.notificationAppliedTotal.Inc(ctx,
		AttrCheckStage.String(stage),
		AttrStageStatus.String(status),
	)
}

// RecordNotificationIgnored records a provider notification that resulted in
// no stage change, labeled with the raw notification state.
func (cm *CheckMetrics) RecordNotificationIgnored(ctx context.Context, state string) {
	cm.notificationIgnoredTotal.Inc(ctx,
		AttrNotificationState.String(state),
	)
}

// =============================================================================
// Mailroom Metrics
// =============================================================================

// RecordEmailReceived records an accepted inbound email.
func (cm *CheckMetrics) RecordEmailReceived(ctx context.Context, kind string) {
	cm.emailReceivedTotal.Inc(ctx,
		AttrEmailKind.String(kind),
	)
}

// RecordWebhookRejected records a rejected webhook delivery (bad token,
// malformed payload, oversized body).
func (cm *CheckMetrics) RecordWebhookRejected(ctx context.Context, reason string) {
	cm.webhookRejectedTotal.Inc(ctx,
		AttrRejectReason.String(reason),
	)
}

// =============================================================================
// Outbox Metrics
// =============================================================================

// RecordOutboxEntries records the current outbox entry count for a status.
// This is a gauge metric that should be updated periodically.
func (cm *CheckMetrics) RecordOutboxEntries(ctx context.Context, status string, count int64) {
	cm.outboxEntries.Record(ctx, count,
		AttrOutboxStatus.String(status),
	)
}

// RecordOutboxOldestPendingAge records the age of the oldest pending entry.
func (cm *CheckMetrics) RecordOutboxOldestPendingAge(ctx context.Context, age time.Duration) {
	cm.outboxOldestPendingAge.Record(ctx, age.Seconds())
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of outbox gauge metrics
// every interval (default: 1 minute). This is non-blocking - use Stop() to
// stop collection.
func (cm *CheckMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	cm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go cm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (cm *CheckMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	cm.collectOutboxMetrics(ctx)

	for {
		select {
		case <-cm.stopChan:
			cm.logger.Info("Stopping periodic outbox metrics collection")
			return
		case <-ctx.Done():
			cm.logger.Info("Context cancelled, stopping periodic outbox metrics collection")
			return
		case <-ticker.C:
			cm.collectOutboxMetrics(ctx)
		}
	}
}

// collectOutboxMetrics collects outbox gauge metrics.
func (cm *CheckMetrics) collectOutboxMetrics(ctx context.Context) {
	if cm.outboxProvider == nil {
		cm.logger.Debug("No outbox provider configured, skipping outbox metrics collection")
		return
	}

	counts, err := cm.outboxProvider.CountByStatus(ctx)
	if err != nil {
		cm.logger.Warn("Failed to count outbox entries for metrics collection", zap.Error(err))
	} else {
		for status, count := range counts {
			cm.RecordOutboxEntries(ctx, status, count)
		}
	}

	age, err := cm.outboxProvider.OldestPendingAge(ctx)
	if err != nil {
		cm.logger.Warn("Failed to get oldest pending outbox age", zap.Error(err))
	} else {
		cm.RecordOutboxOldestPendingAge(ctx, age)
	}
}

// Stop stops the periodic collection.
func (cm *CheckMetrics) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewCheckMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
