// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// GormOutboxMetricsProvider implements OutboxMetricsProvider using GORM.
// It queries the outbox_entries table directly for aggregated metrics.
type GormOutboxMetricsProvider struct {
	db *gorm.DB
}

// NewGormOutboxMetricsProvider creates a new GormOutboxMetricsProvider.
func NewGormOutboxMetricsProvider(db *gorm.DB) *GormOutboxMetricsProvider {
	return &GormOutboxMetricsProvider{db: db}
}

// CountByStatus returns the number of outbox entries per status.
func (p *GormOutboxMetricsProvider) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("outbox_entries").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// OldestPendingAge returns the age of the oldest pending outbox entry, or
// zero when no pending entries exist.
func (p *GormOutboxMetricsProvider) OldestPendingAge(ctx context.Context) (time.Duration, error) {
	// MIN over an empty set yields NULL, so scan through sql.NullTime.
	var oldest sql.NullTime
	err := p.db.WithContext(ctx).
		Table("outbox_entries").
		Select("MIN(created_at) AS oldest").
		Where("status = ?", "PENDING").
		Row().Scan(&oldest)

	if err != nil {
		return 0, err
	}
	if !oldest.Valid {
		return 0, nil
	}

	return time.Since(oldest.Time), nil
}
