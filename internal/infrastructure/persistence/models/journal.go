package models

import (
	"github.com/scms/backend/internal/domain/compliance"
)

// JournalModel is the persistence model for journal directory entries
type JournalModel struct {
	BaseModel
	Title     string `gorm:"type:varchar(500);not null;index"`
	ISSN      string `gorm:"column:issn;type:varchar(10);index"`
	EISSN     string `gorm:"column:eissn;type:varchar(10);index"`
	Publisher string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal
func (m *JournalModel) ToDomain() *compliance.Journal {
	return &compliance.Journal{
		BaseEntity: m.BaseModel.ToDomain(),
		Title:      m.Title,
		ISSN:       m.ISSN,
		EISSN:      m.EISSN,
		Publisher:  m.Publisher,
	}
}

// FromDomain populates the persistence model from a domain Journal
func (m *JournalModel) FromDomain(j *compliance.Journal) {
	m.FromDomainBaseEntity(j.BaseEntity)
	m.Title = j.Title
	m.ISSN = j.ISSN
	m.EISSN = j.EISSN
	m.Publisher = j.Publisher
}

// JournalModelFromDomain creates a new persistence model from a domain Journal
func JournalModelFromDomain(j *compliance.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}
