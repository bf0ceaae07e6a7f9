package models

import (
	"time"
)

// Legal document types.
const (
	DocTypePrivacy = "privacy"
	DocTypeTerms   = "terms"
)

// DocTypes lists the supported document types.
var DocTypes = []string{DocTypePrivacy, DocTypeTerms}

// DocLangs lists the supported document languages.
var DocLangs = []string{"ko", "en", "ja"}

// IsValidDocType reports whether t is a supported document type.
func IsValidDocType(t string) bool {
	for _, v := range DocTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsValidDocLang reports whether lang is a supported document language.
func IsValidDocLang(lang string) bool {
	for _, v := range DocLangs {
		if lang == v {
			return true
		}
	}
	return false
}

// LegalDocument holds the latest content for one (tenant, app, type, lang)
// key. Two-state lifecycle: draft (IsDraft=true) and published. Only the
// latest content is retained; there is no history and no unpublish.
type LegalDocument struct {
	TenantUID   string     `json:"-" gorm:"type:varchar(128);primaryKey"`
	AppID       string     `json:"app_id" gorm:"type:varchar(128);primaryKey"`
	DocType     string     `json:"doc_type" gorm:"type:varchar(16);primaryKey"`
	Lang        string     `json:"lang" gorm:"type:varchar(16);primaryKey"`
	Content     string     `json:"content" gorm:"type:text"`
	IsDraft     bool       `json:"is_draft" gorm:"not null"`
	PublishedAt *time.Time `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TableName returns the table name for the LegalDocument model
func (LegalDocument) TableName() string {
	return "legal_documents"
}
