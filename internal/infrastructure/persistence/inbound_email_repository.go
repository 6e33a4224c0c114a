package persistence

import (
	"context"
	"errors"

	"github.com/scms/backend/internal/domain/mailroom"
	"github.com/scms/backend/internal/domain/shared"
	"github.com/scms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInboundEmailRepository implements mailroom.InboundEmailRepository using GORM
type GormInboundEmailRepository struct {
	db *gorm.DB
}

// NewGormInboundEmailRepository creates a new GormInboundEmailRepository
func NewGormInboundEmailRepository(db *gorm.DB) *GormInboundEmailRepository {
	return &GormInboundEmailRepository{db: db}
}

// Save persists an inbound email. Redelivered messages (same provider
// message id) are ignored so webhook retries stay idempotent.
func (r *GormInboundEmailRepository) Save(ctx context.Context, email *mailroom.InboundEmail) error {
	model := models.InboundEmailModelFromDomain(email)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyExists
	}
	return nil
}

// FindByMessageID retrieves an inbound email by provider message id
func (r *GormInboundEmailRepository) FindByMessageID(ctx context.Context, messageID string) (*mailroom.InboundEmail, error) {
	var model models.InboundEmailModel
	if err := r.db.WithContext(ctx).First(&model, "message_id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
