package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("derives counts from report summary", func(t *testing.T) {
		m := StageMap{
			StageResultsReview: {
				Status: StatusCompleted,
				Summary: &ReportSummary{
					SubimagesTotal: 147,
					MatchesReview:  34,
					MatchesReport:  2,
					InspectsReport: 2,
				},
			},
		}

		counts := Summarize(m)

		assert.Equal(t, SummaryCounts{Total: 147, Waiting: 34, Bad: 4, Good: 109}, counts)
	})

	t.Run("prefers finalReport over resultsReview", func(t *testing.T) {
		m := StageMap{
			StageResultsReview: {Summary: &ReportSummary{SubimagesTotal: 10}},
			StageFinalReport:   {Summary: &ReportSummary{SubimagesTotal: 20}},
		}

		assert.Equal(t, 20, Summarize(m).Total)
	})

	t.Run("falls back to all zeroes without a summary", func(t *testing.T) {
		assert.Equal(t, SummaryCounts{}, Summarize(nil))
		assert.Equal(t, SummaryCounts{}, Summarize(NewStageMap(testTime)))
		assert.Equal(t, SummaryCounts{}, Summarize(StageMap{
			StageFinalReport: {Status: StatusCompleted},
		}))
	})

	t.Run("good is clamped at zero", func(t *testing.T) {
		m := StageMap{
			StageFinalReport: {
				Summary: &ReportSummary{
					SubimagesTotal: 5,
					MatchesReview:  4,
					MatchesReport:  3,
					InspectsReport: 3,
				},
			},
		}

		counts := Summarize(m)

		assert.Equal(t, 0, counts.Good)
		assert.GreaterOrEqual(t, counts.Total, 0)
	})

	t.Run("negative inputs never produce negative counts", func(t *testing.T) {
		m := StageMap{
			StageFinalReport: {
				Summary: &ReportSummary{
					SubimagesTotal: -1,
					MatchesReview:  -2,
					MatchesReport:  -3,
					InspectsReport: 1,
				},
			},
		}

		counts := Summarize(m)

		assert.GreaterOrEqual(t, counts.Total, 0)
		assert.GreaterOrEqual(t, counts.Waiting, 0)
		assert.GreaterOrEqual(t, counts.Bad, 0)
		assert.GreaterOrEqual(t, counts.Good, 0)
	})

	t.Run("bad plus waiting plus good never exceeds total", func(t *testing.T) {
		m := StageMap{
			StageFinalReport: {
				Summary: &ReportSummary{
					SubimagesTotal: 100,
					MatchesReview:  30,
					MatchesReport:  5,
					InspectsReport: 5,
				},
			},
		}

		counts := Summarize(m)

		assert.LessOrEqual(t, counts.Waiting+counts.Bad+counts.Good, counts.Total)
	})
}

func TestSummarizeStage(t *testing.T) {
	data := StageData{
		Summary: &ReportSummary{SubimagesTotal: 8, MatchesReview: 2, MatchesReport: 1, InspectsReport: 0},
	}

	assert.Equal(t, SummaryCounts{Total: 8, Waiting: 2, Bad: 1, Good: 5}, SummarizeStage(data))
	assert.Equal(t, SummaryCounts{}, SummarizeStage(StageData{}))
}
