package compliance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/scms/backend/internal/domain/compliance"
	"github.com/scms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// JournalService resolves journal directory entries and classifies
// publications against an open-access policy. Lookups go through the
// cache first; cache failures degrade to the repository.
type JournalService struct {
	repo   compliance.JournalRepository
	cache  compliance.JournalCache
	logger *zap.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(
	repo compliance.JournalRepository,
	cache compliance.JournalCache,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ResolveJournalRequest identifies a journal by ISSN or, failing that, title
type ResolveJournalRequest struct {
	ISSN  string `form:"issn" json:"issn"`
	Title string `form:"title" json:"title"`
}

// CreateJournalRequest registers a journal directory entry
type CreateJournalRequest struct {
	Title     string `json:"title" binding:"required"`
	ISSN      string `json:"issn"`
	EISSN     string `json:"eissn"`
	Publisher string `json:"publisher"`
}

// JournalResponse is the API view of a journal directory entry
type JournalResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ISSN      string    `json:"issn,omitempty"`
	EISSN     string    `json:"eissn,omitempty"`
	Publisher string    `json:"publisher,omitempty"`
}

// ClassifyRequest asks for a compliance classification of publications
type ClassifyRequest struct {
	PolicyName    string                   `json:"policy_name" binding:"required"`
	EffectiveDate time.Time                `json:"effective_date" binding:"required"`
	Publications  []compliance.Publication `json:"publications" binding:"required"`
}

// ClassifiedPublication pairs a publication with its compliance status
type ClassifiedPublication struct {
	Publication compliance.Publication      `json:"publication"`
	Status      compliance.ComplianceStatus `json:"status"`
	License     string                      `json:"license_label,omitempty"`
}

// ResolveJournal finds a journal by ISSN first, then by title. At least
// one identifier must be present.
func (s *JournalService) ResolveJournal(ctx context.Context, req ResolveJournalRequest) (*JournalResponse, error) {
	if req.ISSN == "" && req.Title == "" {
		return nil, shared.NewDomainError("INVALID_LOOKUP", "Provide an ISSN or a title")
	}

	if req.ISSN != "" {
		journal, err := s.lookupByISSN(ctx, req.ISSN)
		if err == nil {
			response := toJournalResponse(journal)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrInvalidInput) {
			return nil, err
		}
		// Fall through to the title lookup when the ISSN is unknown.
	}

	if req.Title != "" {
		journal, err := s.lookupByTitle(ctx, req.Title)
		if err == nil {
			response := toJournalResponse(journal)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	return nil, shared.NewDomainError("JOURNAL_NOT_FOUND", "No journal matches the given identifiers")
}

// RegisterJournal adds a journal directory entry
func (s *JournalService) RegisterJournal(ctx context.Context, req CreateJournalRequest) (*JournalResponse, error) {
	journal, err := compliance.NewJournal(req.Title, req.ISSN, req.EISSN, req.Publisher)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, journal); err != nil {
		s.logger.Error("Failed to save journal",
			zap.Error(err),
			zap.String("title", req.Title),
		)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register journal")
	}

	s.invalidate(ctx, journal)

	response := toJournalResponse(journal)
	return &response, nil
}

// Classify evaluates publications against the given policy
func (s *JournalService) Classify(ctx context.Context, req ClassifyRequest) ([]ClassifiedPublication, error) {
	policy, err := compliance.NewPolicy(req.PolicyName, req.EffectiveDate)
	if err != nil {
		return nil, err
	}

	classified := make([]ClassifiedPublication, len(req.Publications))
	for i, pub := range req.Publications {
		classified[i] = ClassifiedPublication{
			Publication: pub,
			Status:      policy.Classify(pub),
			License:     compliance.FormatLicense(pub.License),
		}
	}
	return classified, nil
}

func (s *JournalService) lookupByISSN(ctx context.Context, issn string) (*compliance.Journal, error) {
	key := "issn:" + compliance.NormalizeISSN(issn)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("Journal cache lookup failed", zap.Error(err), zap.String("key", key))
	}

	journal, err := s.repo.FindByISSN(ctx, issn)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, journal, 0); err != nil {
		s.logger.Warn("Journal cache store failed", zap.Error(err), zap.String("key", key))
	}
	return journal, nil
}

func (s *JournalService) lookupByTitle(ctx context.Context, title string) (*compliance.Journal, error) {
	key := "title:" + compliance.NormalizeTitle(title)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("Journal cache lookup failed", zap.Error(err), zap.String("key", key))
	}

	journal, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, journal, 0); err != nil {
		s.logger.Warn("Journal cache store failed", zap.Error(err), zap.String("key", key))
	}
	return journal, nil
}

// invalidate drops cache entries that could now be stale
func (s *JournalService) invalidate(ctx context.Context, journal *compliance.Journal) {
	keys := []string{"title:" + compliance.NormalizeTitle(journal.Title)}
	if journal.ISSN != "" {
		keys = append(keys, "issn:"+journal.ISSN)
	}
	if journal.EISSN != "" {
		keys = append(keys, "issn:"+journal.EISSN)
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Journal cache invalidation failed", zap.Error(err), zap.String("key", key))
		}
	}
}

func toJournalResponse(journal *compliance.Journal) JournalResponse {
	return JournalResponse{
		ID:        journal.ID,
		Title:     journal.Title,
		ISSN:      journal.ISSN,
		EISSN:     journal.EISSN,
		Publisher: journal.Publisher,
	}
}
