package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJournal(t *testing.T) *Journal {
	journal, err := NewJournal("The Journal of Cell Biology", "0021-9525", "1540-8140", "Rockefeller University Press")
	require.NoError(t, err)
	return journal
}

func TestNewJournal(t *testing.T) {
	t.Run("normalizes ISSNs on construction", func(t *testing.T) {
		journal := testJournal(t)

		assert.Equal(t, "00219525", journal.ISSN)
		assert.Equal(t, "15408140", journal.EISSN)
	})

	t.Run("requires title and at least one ISSN", func(t *testing.T) {
		_, err := NewJournal("", "0021-9525", "", "")
		assert.Error(t, err)

		_, err = NewJournal("Nameless", "", "", "")
		assert.Error(t, err)
	})
}

func TestJournal_MatchesISSN(t *testing.T) {
	journal := testJournal(t)

	assert.True(t, journal.MatchesISSN("0021-9525"))
	assert.True(t, journal.MatchesISSN("00219525"))
	assert.True(t, journal.MatchesISSN("1540-8140"), "electronic ISSN matches too")
	assert.False(t, journal.MatchesISSN("1234-5678"))
	assert.False(t, journal.MatchesISSN(""))
}

func TestJournal_MatchesTitle(t *testing.T) {
	journal := testJournal(t)

	assert.True(t, journal.MatchesTitle("the journal of cell biology"))
	assert.True(t, journal.MatchesTitle("The Journal of Cell Biology."))
	assert.True(t, journal.MatchesTitle("  THE JOURNAL OF CELL BIOLOGY  "))
	assert.False(t, journal.MatchesTitle("Journal of Cell Science"))
	assert.False(t, journal.MatchesTitle(""))
}

func TestNormalizeISSN(t *testing.T) {
	assert.Equal(t, "1234567X", NormalizeISSN("1234-567x"))
	assert.Equal(t, "1234567X", NormalizeISSN(" 1234 567X "))
	assert.Equal(t, "", NormalizeISSN("----"))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "elife", NormalizeTitle("eLife"))
	assert.Equal(t, "plosone", NormalizeTitle("PLoS ONE"))
	assert.Equal(t, "naturecellbiology", NormalizeTitle("Nature: Cell Biology!"))
}
