package models

import (
	"time"
)

// Contact form status values. Only active forms accept submissions.
const (
	FormStatusActive = "active"
	FormStatusPaused = "paused"
)

// ContactForm is a tenant's embeddable form configuration, keyed by the
// public-facing form id. Empty Apps/Types mean unrestricted.
type ContactForm struct {
	TenantUID string     `json:"-" gorm:"type:varchar(128);primaryKey"`
	FormID    string     `json:"form_id" gorm:"type:varchar(128);primaryKey"`
	Apps      StringList `json:"apps" gorm:"type:text"`
	Types     StringList `json:"types" gorm:"type:text"`
	Languages StringList `json:"languages" gorm:"type:text"`
	// Language is the legacy single-language field. It is normalized into
	// Languages at the store boundary and never written by new code.
	Language  string    `json:"-" gorm:"type:varchar(16)"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the ContactForm model
func (ContactForm) TableName() string {
	return "contact_forms"
}

// Normalize folds the legacy single-language field into Languages. Records
// written before the languages list existed store one language string.
func (f *ContactForm) Normalize() {
	if len(f.Languages) == 0 && f.Language != "" {
		f.Languages = StringList{f.Language}
	}
	if f.Status == "" {
		f.Status = FormStatusActive
	}
}

// FormIndexEntry maps a public form id to its owning tenant. It is the sole
// public entry point for resolving a form without knowing the tenant, and
// duplicates the form status for fast lookup. Admin form writes are the sync
// point that keeps the duplicate consistent.
type FormIndexEntry struct {
	FormID    string    `json:"form_id" gorm:"type:varchar(128);primaryKey"`
	TenantUID string    `json:"uid" gorm:"type:varchar(128);not null;index"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the FormIndexEntry model
func (FormIndexEntry) TableName() string {
	return "form_index"
}
