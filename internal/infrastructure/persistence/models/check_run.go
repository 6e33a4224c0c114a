package models

import (
	"encoding/json"

	"github.com/scms/backend/internal/domain/integrity"
	"github.com/scms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// logger for model conversion errors (silent failures are logged for debugging)
var modelLogger = zap.L().Named("persistence.models")

// CheckRunModel is the persistence model for the CheckRun aggregate root.
// Per-service state lives inside the service_data JSONB envelope so new
// check services don't need schema changes.
type CheckRunModel struct {
	AggregateModel
	ManuscriptID    string `gorm:"type:varchar(100);not null;index"`
	SubmitReqID     string `gorm:"type:varchar(100);index"`
	ServiceDataJSON string `gorm:"column:service_data;type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (CheckRunModel) TableName() string {
	return "check_runs"
}

// ToDomain converts the persistence model to a domain CheckRun aggregate.
func (m *CheckRunModel) ToDomain() *integrity.CheckRun {
	run := &integrity.CheckRun{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		ManuscriptID: m.ManuscriptID,
		SubmitReqID:  m.SubmitReqID,
		ServiceData:  make(map[string]json.RawMessage),
	}

	if m.ServiceDataJSON != "" && m.ServiceDataJSON != "{}" {
		var serviceData map[string]json.RawMessage
		if err := json.Unmarshal([]byte(m.ServiceDataJSON), &serviceData); err != nil {
			modelLogger.Warn("failed to parse service_data JSON",
				zap.String("manuscript_id", m.ManuscriptID),
				zap.String("raw_json", m.ServiceDataJSON),
				zap.Error(err))
		} else {
			run.ServiceData = serviceData
		}
	}

	return run
}

// FromDomain populates the persistence model from a domain CheckRun aggregate.
func (m *CheckRunModel) FromDomain(run *integrity.CheckRun) {
	m.FromDomainAggregateRoot(run.BaseAggregateRoot)
	m.ManuscriptID = run.ManuscriptID
	m.SubmitReqID = run.SubmitReqID

	if len(run.ServiceData) > 0 {
		if jsonBytes, err := json.Marshal(run.ServiceData); err == nil {
			m.ServiceDataJSON = string(jsonBytes)
		} else {
			m.ServiceDataJSON = "{}"
		}
	} else {
		m.ServiceDataJSON = "{}"
	}
}

// CheckRunModelFromDomain creates a new persistence model from a domain CheckRun
func CheckRunModelFromDomain(run *integrity.CheckRun) *CheckRunModel {
	m := &CheckRunModel{}
	m.FromDomain(run)
	return m
}
