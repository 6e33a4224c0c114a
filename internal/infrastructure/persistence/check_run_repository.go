package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/domain/shared"
	"github.com/scms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// casMaxRetries bounds the read-modify-write loop in Update. Conflicts
// are rare (two webhook deliveries for the same run racing), so a small
// bound is enough.
const casMaxRetries = 3

// GormCheckRunRepository implements integrity.CheckRunRepository using GORM
type GormCheckRunRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormCheckRunRepository creates a new GormCheckRunRepository
func NewGormCheckRunRepository(db *gorm.DB) *GormCheckRunRepository {
	return &GormCheckRunRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormCheckRunRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// WithTx returns a new repository instance with the given transaction
func (r *GormCheckRunRepository) WithTx(tx *gorm.DB) *GormCheckRunRepository {
	return &GormCheckRunRepository{db: tx, outboxSaver: r.outboxSaver}
}

// FindByID retrieves a check run by ID
func (r *GormCheckRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*integrity.CheckRun, error) {
	var model models.CheckRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySubmitReqID retrieves a check run by the external submit request id
func (r *GormCheckRunRepository) FindBySubmitReqID(ctx context.Context, submitReqID string) (*integrity.CheckRun, error) {
	var model models.CheckRunModel
	if err := r.db.WithContext(ctx).First(&model, "submit_req_id = ?", submitReqID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates a new check run, writing its events to the outbox within
// the same transaction.
func (r *GormCheckRunRepository) Save(ctx context.Context, run *integrity.CheckRun) error {
	events := run.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CheckRunModelFromDomain(run)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	run.ClearDomainEvents()
	return nil
}

// Update applies fn against a freshly read aggregate and writes it back
// under optimistic concurrency. On a version conflict the whole
// read-modify-write is retried against the new state, so concurrent
// webhook deliveries serialize without lost updates.
func (r *GormCheckRunRepository) Update(ctx context.Context, id uuid.UUID, fn func(run *integrity.CheckRun) error) (*integrity.CheckRun, error) {
	var lastErr error

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		run, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(run); err != nil {
			return nil, err
		}

		currentVersion := run.Version
		run.IncrementVersion()
		events := run.GetDomainEvents()
		model := models.CheckRunModelFromDomain(run)

		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.CheckRunModel{}).
				Where("id = ? AND version = ?", run.ID, currentVersion).
				Updates(map[string]interface{}{
					"submit_req_id": model.SubmitReqID,
					"service_data":  model.ServiceDataJSON,
					"version":       model.Version,
					"updated_at":    model.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}

			if r.outboxSaver != nil && len(events) > 0 {
				if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
					return fmt.Errorf("failed to save events to outbox: %w", err)
				}
			}
			return nil
		})
		if err == nil {
			run.ClearDomainEvents()
			return run, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}
