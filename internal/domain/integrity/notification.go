package integrity

import (
	"time"
)

// NotificationState is the state string reported by the integrity service
type NotificationState string

const (
	StateProcessing       NotificationState = "Processing"
	StateAwaitingApproval NotificationState = "Awaiting: Sub-Image Approval"
	StateAwaitingReview   NotificationState = "Awaiting: Review"
	StateReportClean      NotificationState = "Report: Clean"
	StateReportFlagged    NotificationState = "Report: Flagged"
	StateDeleted          NotificationState = "Deleted"
)

// IsKnown checks if the state is one the mapper understands
func (s NotificationState) IsKnown() bool {
	switch s {
	case StateProcessing, StateAwaitingApproval, StateAwaitingReview,
		StateReportClean, StateReportFlagged, StateDeleted:
		return true
	}
	return false
}

// String returns the string representation of the state
func (s NotificationState) String() string {
	return string(s)
}

// Notification is an inbound progress report from the integrity service.
// Numeric fields default to zero when the sender omits them.
type Notification struct {
	SubmitReqID    string
	ReportID       string
	State          NotificationState
	SubimagesTotal int
	MatchesReview  int
	MatchesReport  int
	InspectsReport int
	ReportURL      string
	Number         int
	Message        string
}

// summary packages the notification counts for stage data
func (n Notification) summary() *ReportSummary {
	return &ReportSummary{
		SubimagesTotal: n.SubimagesTotal,
		MatchesReview:  n.MatchesReview,
		MatchesReport:  n.MatchesReport,
		InspectsReport: n.InspectsReport,
	}
}

// ApplyResult reports what a notification did to the stage map
type ApplyResult struct {
	Applied bool
	Stage   Stage
	Status  StageStatus
	Note    string
}

// ApplyNotification maps an inbound notification onto the stage map and
// returns a new map, structurally independent from the input. Exactly one
// stage is updated per notification; all other stages are untouched.
// A nil map is treated as the registry default. Unknown states leave the
// map unchanged; the caller decides how to log that. The function never
// returns an error: missing counts are already zero on the Notification
// and malformed string fields are the caller's validation concern.
func ApplyNotification(m StageMap, n Notification, receivedAt time.Time) (StageMap, ApplyResult) {
	var next StageMap
	if m == nil {
		next = NewStageMap(receivedAt)
	} else {
		next = m.Clone()
	}

	switch n.State {
	case StateProcessing:
		// Detection only starts once the manuscript has been posted.
		if next[StageInitialPost].Status != StatusCompleted {
			return next, ApplyResult{Stage: StageInitialPost, Note: "initial post not completed"}
		}
		return setStage(next, StageSubimageDetection, update{
			status:     StatusProcessing,
			receivedAt: receivedAt,
		})

	case StateAwaitingApproval:
		return setStage(next, StageSubimageSelection, update{
			status:     StatusPending,
			receivedAt: receivedAt,
		})

	case StateAwaitingReview:
		return setStage(next, StageResultsReview, update{
			status:     StatusPending,
			summary:    n.summary(),
			reportID:   n.ReportID,
			reportURL:  n.ReportURL,
			receivedAt: receivedAt,
		})

	case StateReportClean, StateReportFlagged:
		outcome := OutcomeClean
		if n.State == StateReportFlagged {
			outcome = OutcomeFlagged
		}
		// The first report notification completes the review stage; a
		// later one is the terminal refresh on the final report stage.
		target := StageResultsReview
		if next[StageResultsReview].Status == StatusCompleted {
			target = StageFinalReport
		}
		return setStage(next, target, update{
			status:     StatusCompleted,
			outcome:    outcome,
			summary:    n.summary(),
			reportID:   n.ReportID,
			reportURL:  n.ReportURL,
			receivedAt: receivedAt,
		})

	case StateDeleted:
		current, _ := CurrentStage(next)
		return setStage(next, current, update{
			status:     StatusError,
			message:    deletedMessage(n.Message),
			receivedAt: receivedAt,
		})
	}

	return next, ApplyResult{Note: "unknown state " + n.State.String()}
}

// update describes the single-stage mutation a notification maps to
type update struct {
	status     StageStatus
	outcome    Outcome
	message    string
	summary    *ReportSummary
	reportID   string
	reportURL  string
	receivedAt time.Time
}

// setStage applies the update to one stage, appending a history entry.
// Stages already completed are never rewound to pending or processing.
func setStage(m StageMap, stage Stage, u update) (StageMap, ApplyResult) {
	data, ok := m[stage]
	if !ok {
		data = defaultStageData()
	}

	if data.Status == StatusCompleted && (u.status == StatusPending || u.status == StatusProcessing) {
		return m, ApplyResult{Stage: stage, Status: data.Status, Note: "stage already completed"}
	}

	previous := data.Status
	data.History = append(data.History, HistoryEntry{
		PreviousStatus: previous,
		NewStatus:      u.status,
		Timestamp:      u.receivedAt,
	})
	data.Status = u.status
	data.Timestamp = u.receivedAt
	if u.outcome != "" {
		data.Outcome = u.outcome
	}
	if u.message != "" {
		data.Message = u.message
	}
	if u.summary != nil {
		data.Summary = u.summary
	}
	if u.reportID != "" {
		data.ReportID = u.reportID
	}
	if u.reportURL != "" {
		data.ReportURL = u.reportURL
	}
	m[stage] = data

	return m, ApplyResult{Applied: true, Stage: stage, Status: u.status}
}

func deletedMessage(msg string) string {
	if msg == "" {
		return "check deleted by integrity service"
	}
	return msg
}
