package mailroom

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/scms/backend/internal/domain/shared"
)

// EmailKind discriminates inbound emails for dispatch
type EmailKind string

const (
	KindIntegrityReport   EmailKind = "integrity_report"
	KindSubmissionReceipt EmailKind = "submission_receipt"
	KindJournalReply      EmailKind = "journal_reply"
	KindUnknown           EmailKind = "unknown"
)

// InboundEmail is one message delivered by the inbound email provider
type InboundEmail struct {
	shared.BaseEntity
	MessageID  string
	Sender     string
	Recipient  string
	Subject    string
	Body       string
	Kind       EmailKind
	Reference  string
	ReceivedAt time.Time
}

// NewInboundEmail creates an inbound email, classifying it by subject
func NewInboundEmail(messageID, sender, recipient, subject, body string, receivedAt time.Time) (*InboundEmail, error) {
	if messageID == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Message ID is required")
	}
	if _, err := mail.ParseAddress(sender); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Sender address is not parseable")
	}

	return &InboundEmail{
		BaseEntity: shared.NewBaseEntity(),
		MessageID:  messageID,
		Sender:     sender,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		Kind:       ClassifySubject(subject),
		Reference:  ExtractReference(subject),
		ReceivedAt: receivedAt,
	}, nil
}

// SenderPolicy restricts which domains may feed the mailroom
type SenderPolicy struct {
	allowedDomains map[string]struct{}
}

// NewSenderPolicy builds a policy from a list of allowed domains.
// An empty list allows every sender.
func NewSenderPolicy(domains []string) *SenderPolicy {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			allowed[d] = struct{}{}
		}
	}
	return &SenderPolicy{allowedDomains: allowed}
}

// Allows reports whether the sender address passes the policy
func (p *SenderPolicy) Allows(sender string) bool {
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		return false
	}
	if len(p.allowedDomains) == 0 {
		return true
	}
	at := strings.LastIndex(addr.Address, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(addr.Address[at+1:])
	_, ok := p.allowedDomains[domain]
	return ok
}

var referencePattern = regexp.MustCompile(`\[([A-Za-z0-9_\-]+)\]`)

// ExtractReference pulls the bracketed tracking token out of a subject
// line, e.g. "Re: your submission [ms-2026-0042]" yields ms-2026-0042.
func ExtractReference(subject string) string {
	match := referencePattern.FindStringSubmatch(subject)
	if match == nil {
		return ""
	}
	return match[1]
}

// ClassifySubject maps a subject line to an email kind
func ClassifySubject(subject string) EmailKind {
	lowered := strings.ToLower(subject)
	switch {
	case strings.Contains(lowered, "integrity report"):
		return KindIntegrityReport
	case strings.Contains(lowered, "submission received"):
		return KindSubmissionReceipt
	case strings.Contains(lowered, "re:"):
		return KindJournalReply
	}
	return KindUnknown
}

// InboundEmailRepository defines persistence for inbound emails
type InboundEmailRepository interface {
	Save(ctx context.Context, email *InboundEmail) error
	FindByMessageID(ctx context.Context, messageID string) (*InboundEmail, error)
}
