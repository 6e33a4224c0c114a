package integrity

// SummaryCounts is the derived display tuple for badges and legends.
// It is computed on demand, never stored.
type SummaryCounts struct {
	Total   int `json:"total"`
	Waiting int `json:"waiting"`
	Bad     int `json:"bad"`
	Good    int `json:"good"`
}

// Summarize derives the display counts from the latest known report
// summary, preferring finalReport over resultsReview. It falls back to
// all zeroes when no summary has arrived yet and never returns a
// negative count.
func Summarize(m StageMap) SummaryCounts {
	summary := latestSummary(m)
	if summary == nil {
		return SummaryCounts{}
	}

	total := clampNonNegative(summary.SubimagesTotal)
	waiting := clampNonNegative(summary.MatchesReview)
	bad := clampNonNegative(summary.MatchesReport) + clampNonNegative(summary.InspectsReport)

	good := total - waiting - bad
	if good < 0 {
		good = 0
	}

	return SummaryCounts{
		Total:   total,
		Waiting: waiting,
		Bad:     bad,
		Good:    good,
	}
}

// SummarizeStage derives the counts from a single stage's data
func SummarizeStage(d StageData) SummaryCounts {
	if d.Summary == nil {
		return SummaryCounts{}
	}
	return Summarize(StageMap{StageFinalReport: d})
}

func latestSummary(m StageMap) *ReportSummary {
	if data, ok := m[StageFinalReport]; ok && data.Summary != nil {
		return data.Summary
	}
	if data, ok := m[StageResultsReview]; ok && data.Summary != nil {
		return data.Summary
	}
	return nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
