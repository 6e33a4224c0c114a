package models

import (
	"time"

	"github.com/scms/backend/internal/domain/mailroom"
)

// InboundEmailModel is the persistence model for inbound emails
type InboundEmailModel struct {
	BaseModel
	MessageID  string             `gorm:"type:varchar(500);not null;uniqueIndex"`
	Sender     string             `gorm:"type:varchar(500);not null;index"`
	Recipient  string             `gorm:"type:varchar(500)"`
	Subject    string             `gorm:"type:text"`
	Body       string             `gorm:"type:text"`
	Kind       mailroom.EmailKind `gorm:"type:varchar(50);not null;index"`
	Reference  string             `gorm:"type:varchar(100);index"`
	ReceivedAt time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InboundEmailModel) TableName() string {
	return "inbound_emails"
}

// ToDomain converts the persistence model to a domain InboundEmail
func (m *InboundEmailModel) ToDomain() *mailroom.InboundEmail {
	return &mailroom.InboundEmail{
		BaseEntity: m.BaseModel.ToDomain(),
		MessageID:  m.MessageID,
		Sender:     m.Sender,
		Recipient:  m.Recipient,
		Subject:    m.Subject,
		Body:       m.Body,
		Kind:       m.Kind,
		Reference:  m.Reference,
		ReceivedAt: m.ReceivedAt,
	}
}

// FromDomain populates the persistence model from a domain InboundEmail
func (m *InboundEmailModel) FromDomain(e *mailroom.InboundEmail) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.MessageID = e.MessageID
	m.Sender = e.Sender
	m.Recipient = e.Recipient
	m.Subject = e.Subject
	m.Body = e.Body
	m.Kind = e.Kind
	m.Reference = e.Reference
	m.ReceivedAt = e.ReceivedAt
}

// InboundEmailModelFromDomain creates a new persistence model from a domain InboundEmail
func InboundEmailModelFromDomain(e *mailroom.InboundEmail) *InboundEmailModel {
	m := &InboundEmailModel{}
	m.FromDomain(e)
	return m
}
