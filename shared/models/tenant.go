package models

import (
	"time"
)

// Tenant represents an authenticated account owning apps, forms, documents
// and settings. The primary key is the subject claim of the identity token.
// A tenant row is created on first authenticated access and never deleted
// by this system.
type Tenant struct {
	UID         string    `json:"uid" gorm:"type:varchar(128);primaryKey"`
	Email       string    `json:"email" gorm:"type:varchar(255);index"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255)"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
