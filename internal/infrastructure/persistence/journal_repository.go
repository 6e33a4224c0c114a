package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/scms/backend/internal/domain/compliance"
	"github.com/scms/backend/internal/domain/shared"
	"github.com/scms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJournalRepository implements compliance.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByISSN retrieves a journal by print or electronic ISSN. The input
// is normalized so hyphenated and bare forms both match.
func (r *GormJournalRepository) FindByISSN(ctx context.Context, issn string) (*compliance.Journal, error) {
	normalized := compliance.NormalizeISSN(issn)
	if normalized == "" {
		return nil, shared.ErrInvalidInput
	}

	var model models.JournalModel
	err := r.db.WithContext(ctx).
		Where("issn = ? OR eissn = ?", normalized, normalized).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTitle retrieves a journal by name, ignoring case and punctuation.
// Candidates are prefiltered in SQL and matched precisely in memory
// because the normalized form is not stored.
func (r *GormJournalRepository) FindByTitle(ctx context.Context, title string) (*compliance.Journal, error) {
	normalized := compliance.NormalizeTitle(title)
	if normalized == "" {
		return nil, shared.ErrInvalidInput
	}

	var candidates []models.JournalModel
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+firstWord(title)+"%").
		Limit(100).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		journal := candidates[i].ToDomain()
		if journal.MatchesTitle(title) {
			return journal, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Save creates or updates a journal directory entry
func (r *GormJournalRepository) Save(ctx context.Context, journal *compliance.Journal) error {
	model := models.JournalModelFromDomain(journal)
	return r.db.WithContext(ctx).Save(model).Error
}

func firstWord(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
