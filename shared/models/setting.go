package models

import (
	"time"
)

// SettingAnthropicAPIKey is the settings key holding the tenant's AI
// provider credential, read before every assistant call.
const SettingAnthropicAPIKey = "anthropic_api_key"

// Setting is a per-tenant key-value record.
type Setting struct {
	TenantUID string    `json:"-" gorm:"type:varchar(128);primaryKey"`
	Key       string    `json:"key" gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}
