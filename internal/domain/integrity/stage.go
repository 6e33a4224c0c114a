package integrity

import (
	"time"
)

// Stage identifies one step of the externally-driven image-integrity
// review pipeline. Ordering is significant: it defines which stage is
// "current" (see CurrentStage).
type Stage string

const (
	StageInitialPost        Stage = "initialPost"
	StageSubimageDetection  Stage = "subimageDetection"
	StageSubimageSelection  Stage = "subimageSelection"
	StageIntegrityDetection Stage = "integrityDetection"
	StageResultsReview      Stage = "resultsReview"
	StageFinalReport        Stage = "finalReport"
)

// StageOrder is the canonical pipeline order.
var StageOrder = []Stage{
	StageInitialPost,
	StageSubimageDetection,
	StageSubimageSelection,
	StageIntegrityDetection,
	StageResultsReview,
	StageFinalReport,
}

// IsValid checks if the stage is one of the canonical stages
func (s Stage) IsValid() bool {
	for _, stage := range StageOrder {
		if s == stage {
			return true
		}
	}
	return false
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// Ordinal returns the stage's position in the canonical order, or -1 for
// an unknown stage.
func (s Stage) Ordinal() int {
	for i, stage := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// StageStatus represents the status of a single pipeline stage
type StageStatus string

const (
	StatusPending    StageStatus = "pending"
	StatusProcessing StageStatus = "processing"
	StatusCompleted  StageStatus = "completed"
	StatusFailed     StageStatus = "failed"
	StatusError      StageStatus = "error"
)

// IsValid checks if the stage status is valid
func (s StageStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusError:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that halt the pipeline walk
func (s StageStatus) IsTerminal() bool {
	return s == StatusFailed || s == StatusError
}

// String returns the string representation of the status
func (s StageStatus) String() string {
	return string(s)
}

// Outcome is the terminal classification attached to the results stage
type Outcome string

const (
	OutcomeClean   Outcome = "clean"
	OutcomeFlagged Outcome = "flagged"
)

// HistoryEntry records one status transition of a stage
type HistoryEntry struct {
	PreviousStatus StageStatus `json:"previousStatus"`
	NewStatus      StageStatus `json:"newStatus"`
	Timestamp      time.Time   `json:"timestamp"`
}

// ReportSummary carries the counts reported by the integrity service
type ReportSummary struct {
	SubimagesTotal int `json:"subimagesTotal"`
	MatchesReview  int `json:"matchesReview"`
	MatchesReport  int `json:"matchesReport"`
	InspectsReport int `json:"inspectsReport"`
}

// StageData is the per-stage record kept in the stage map
type StageData struct {
	Status    StageStatus    `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	Message   string         `json:"message,omitempty"`
	ReportID  string         `json:"reportId,omitempty"`
	ReportURL string         `json:"reportUrl,omitempty"`
	Summary   *ReportSummary `json:"summary,omitempty"`
	History   []HistoryEntry `json:"history"`
}

// clone returns a structurally independent copy of the stage data
func (d StageData) clone() StageData {
	out := d
	if d.Summary != nil {
		s := *d.Summary
		out.Summary = &s
	}
	out.History = make([]HistoryEntry, len(d.History))
	copy(out.History, d.History)
	return out
}

// StageMap maps stages to their data. Absent keys mean the stage has not
// been reached yet and are treated as pending with empty history.
type StageMap map[Stage]StageData

// NewStageMap returns the default stage map for a freshly requested
// check: only initialPost present, pending, empty history.
func NewStageMap(now time.Time) StageMap {
	return StageMap{
		StageInitialPost: {
			Status:    StatusPending,
			Timestamp: now,
			History:   []HistoryEntry{},
		},
	}
}

// defaultStageData is the shape used for stages absent from the map
func defaultStageData() StageData {
	return StageData{
		Status:  StatusPending,
		History: []HistoryEntry{},
	}
}

// Clone returns a deep copy sharing no mutable substructure with m
func (m StageMap) Clone() StageMap {
	out := make(StageMap, len(m))
	for stage, data := range m {
		out[stage] = data.clone()
	}
	return out
}

// CurrentStage returns the first stage in canonical order whose status is
// not completed, treating missing stages as pending. Failed and errored
// stages halt progression, so they stay current. If every stage is
// completed the last stage is returned. The returned data is always
// populated, falling back to the registry default for absent stages.
func CurrentStage(m StageMap) (Stage, StageData) {
	for _, stage := range StageOrder {
		data, ok := m[stage]
		if !ok {
			return stage, defaultStageData()
		}
		if data.Status != StatusCompleted {
			return stage, data
		}
	}
	last := StageOrder[len(StageOrder)-1]
	return last, m[last]
}
