package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var effectiveDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testPolicy(t *testing.T) *Policy {
	policy, err := NewPolicy("open-access-2025", effectiveDate)
	require.NoError(t, err)
	return policy
}

func TestNewPolicy(t *testing.T) {
	_, err := NewPolicy("", effectiveDate)
	assert.Error(t, err)

	_, err = NewPolicy("p", time.Time{})
	assert.Error(t, err)
}

func TestPolicy_Covers(t *testing.T) {
	policy := testPolicy(t)

	assert.True(t, policy.Covers(effectiveDate), "effective date itself is covered")
	assert.True(t, policy.Covers(effectiveDate.AddDate(0, 6, 0)))
	assert.False(t, policy.Covers(effectiveDate.Add(-time.Second)))
	assert.False(t, policy.Covers(time.Time{}))
}

func TestPolicy_FilterCovered(t *testing.T) {
	policy := testPolicy(t)
	pubs := []Publication{
		{Title: "before", PublishedAt: effectiveDate.AddDate(-1, 0, 0)},
		{Title: "on", PublishedAt: effectiveDate},
		{Title: "after", PublishedAt: effectiveDate.AddDate(0, 3, 0)},
		{Title: "undated"},
	}

	covered := policy.FilterCovered(pubs)

	require.Len(t, covered, 2)
	assert.Equal(t, "on", covered[0].Title)
	assert.Equal(t, "after", covered[1].Title)
}

func TestPolicy_Classify(t *testing.T) {
	policy := testPolicy(t)

	tests := []struct {
		name   string
		pub    Publication
		status ComplianceStatus
	}{
		{"before effective date", Publication{PublishedAt: effectiveDate.AddDate(0, 0, -1), License: "cc-by"}, ComplianceOutOfScope},
		{"open license in scope", Publication{PublishedAt: effectiveDate, License: "cc-by"}, ComplianceCompliant},
		{"restrictive license in scope", Publication{PublishedAt: effectiveDate, License: "cc-by-nc"}, ComplianceNonCompliant},
		{"missing license in scope", Publication{PublishedAt: effectiveDate}, ComplianceNonCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, policy.Classify(tt.pub))
		})
	}
}
