package compliance

import (
	"context"
	"strings"
	"unicode"

	"github.com/scms/backend/internal/domain/shared"
)

// Journal is a directory entry matched by ISSN or title
type Journal struct {
	shared.BaseEntity
	Title     string
	ISSN      string
	EISSN     string
	Publisher string
}

// NewJournal creates a journal directory entry
func NewJournal(title, issn, eissn, publisher string) (*Journal, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Journal title is required")
	}
	if issn == "" && eissn == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Journal needs at least one ISSN")
	}
	return &Journal{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		ISSN:       NormalizeISSN(issn),
		EISSN:      NormalizeISSN(eissn),
		Publisher:  publisher,
	}, nil
}

// MatchesISSN reports whether the given ISSN identifies this journal,
// hyphenated or not, print or electronic.
func (j *Journal) MatchesISSN(issn string) bool {
	normalized := NormalizeISSN(issn)
	if normalized == "" {
		return false
	}
	return normalized == j.ISSN || normalized == j.EISSN
}

// MatchesTitle reports whether the given name matches the journal title
// ignoring case, punctuation and surrounding whitespace.
func (j *Journal) MatchesTitle(name string) bool {
	normalized := NormalizeTitle(name)
	if normalized == "" {
		return false
	}
	return normalized == NormalizeTitle(j.Title)
}

// NormalizeISSN strips hyphens and whitespace and uppercases the check
// character so 1234-567x and 1234567X compare equal.
func NormalizeISSN(issn string) string {
	var b strings.Builder
	for _, r := range issn {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		}
	}
	return b.String()
}

// NormalizeTitle lowercases a journal name and drops everything except
// letters and digits.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// JournalRepository defines persistence for the journal directory
type JournalRepository interface {
	FindByISSN(ctx context.Context, issn string) (*Journal, error)
	FindByTitle(ctx context.Context, title string) (*Journal, error)
	Save(ctx context.Context, journal *Journal) error
}
