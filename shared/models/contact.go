package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry type codes accepted by the contact form.
const (
	InquiryTypeBug      = "bug"
	InquiryTypeFeedback = "feedback"
	InquiryTypeGeneral  = "general"
)

// AllInquiryTypes lists the inquiry type codes in display order.
var AllInquiryTypes = []string{InquiryTypeBug, InquiryTypeFeedback, InquiryTypeGeneral}

// InquiryTypeLabelsKo maps inquiry type codes to the Korean labels used in
// the notification email.
var InquiryTypeLabelsKo = map[string]string{
	InquiryTypeBug:      "버그·에러 신고",
	InquiryTypeFeedback: "건의·피드백",
	InquiryTypeGeneral:  "일반 문의",
}

// IsValidInquiryType reports whether t is a known inquiry type code.
func IsValidInquiryType(t string) bool {
	_, ok := InquiryTypeLabelsKo[t]
	return ok
}

// ContactSubmission is a stored inbound contact message. MessageKo carries a
// best-effort Korean translation of the original message; on translation
// failure it holds the fixed sentinel string instead.
type ContactSubmission struct {
	ID        uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantUID string    `json:"-" gorm:"type:varchar(128);not null;index"`
	Service   string    `json:"service" gorm:"type:varchar(255);not null"`
	Type      string    `json:"type" gorm:"type:varchar(32);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	MessageKo string    `json:"message_ko" gorm:"type:text"`
	Language  string    `json:"language" gorm:"type:varchar(16)"`
	Source    string    `json:"source" gorm:"type:varchar(255)"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the ContactSubmission model
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// ContactNotificationEvent is the Kafka message produced on a successful
// submission and consumed by the mailer. EventID keys idempotent retries.
type ContactNotificationEvent struct {
	EventID   string    `json:"event_id"`
	TenantUID string    `json:"tenant_uid"`
	AppName   string    `json:"app_name"`
	Type      string    `json:"type"`
	TypeKo    string    `json:"type_ko"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	MessageKo string    `json:"message_ko"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// FailedNotification is a notification the mailer could not deliver, parked
// for retry with backoff. Status moves pending -> resolved | failed.
type FailedNotification struct {
	ID           uuid.UUID  `json:"id" gorm:"type:varchar(36);primaryKey"`
	EventID      string     `json:"event_id" gorm:"type:varchar(64);not null;index"`
	TenantUID    string     `json:"tenant_uid" gorm:"type:varchar(128);not null"`
	Payload      string     `json:"payload" gorm:"type:text;not null"`
	ErrorMessage string     `json:"error_message" gorm:"type:text;not null"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
	Status       string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	NextRetryAt  *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// TableName returns the table name for the FailedNotification model
func (FailedNotification) TableName() string {
	return "failed_notifications"
}
