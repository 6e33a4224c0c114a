package compliance

import (
	"time"

	"github.com/scms/backend/internal/domain/shared"
)

// Publication is the slice of article metadata the compliance views need
type Publication struct {
	Title       string    `json:"title"`
	DOI         string    `json:"doi"`
	JournalISSN string    `json:"journal_issn"`
	License     string    `json:"license"`
	PublishedAt time.Time `json:"published_at"`
}

// Policy is an open-access policy with an effective date. Publications
// published on or after the effective date fall under the policy.
type Policy struct {
	Name          string
	EffectiveDate time.Time
}

// NewPolicy creates a policy, rejecting a zero effective date
func NewPolicy(name string, effectiveDate time.Time) (*Policy, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_POLICY", "Policy name is required")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Policy effective date is required")
	}
	return &Policy{Name: name, EffectiveDate: effectiveDate}, nil
}

// Covers reports whether a publication date falls under the policy.
// The effective date itself is covered.
func (p *Policy) Covers(publishedAt time.Time) bool {
	if publishedAt.IsZero() {
		return false
	}
	return !publishedAt.Before(p.EffectiveDate)
}

// FilterCovered returns the publications the policy applies to,
// preserving input order.
func (p *Policy) FilterCovered(pubs []Publication) []Publication {
	covered := make([]Publication, 0, len(pubs))
	for _, pub := range pubs {
		if p.Covers(pub.PublishedAt) {
			covered = append(covered, pub)
		}
	}
	return covered
}

// ComplianceStatus classifies a publication against the policy
type ComplianceStatus string

const (
	ComplianceOutOfScope   ComplianceStatus = "out_of_scope"
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
)

// Classify returns the compliance status of one publication: out of
// scope before the effective date, compliant when openly licensed.
func (p *Policy) Classify(pub Publication) ComplianceStatus {
	if !p.Covers(pub.PublishedAt) {
		return ComplianceOutOfScope
	}
	if IsOpenLicense(pub.License) {
		return ComplianceCompliant
	}
	return ComplianceNonCompliant
}
