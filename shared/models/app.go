package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Feature tags a tenant can declare for an app. The list is a closed
// vocabulary: the AI review prompt is built from it, so changing an entry
// changes review semantics.
const (
	FeatureFirebase      = "firebase"
	FeatureGoogleSignIn  = "google-signin"
	FeatureAppleSignIn   = "apple-signin"
	FeatureLocation      = "location"
	FeatureCamera        = "camera"
	FeatureMicrophone    = "microphone"
	FeaturePush          = "push-notification"
	FeatureInAppPurchase = "in-app-purchase"
	FeatureAdSDK         = "ad-sdk"
)

// AllFeatures is the feature vocabulary in display order.
var AllFeatures = []string{
	FeatureFirebase,
	FeatureGoogleSignIn,
	FeatureAppleSignIn,
	FeatureLocation,
	FeatureCamera,
	FeatureMicrophone,
	FeaturePush,
	FeatureInAppPurchase,
	FeatureAdSDK,
}

// IsKnownFeature reports whether f belongs to the feature vocabulary.
func IsKnownFeature(f string) bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// StringList is a []string stored as a JSON text column. Used for app
// features and contact-form restriction sets so the same model works on
// Postgres and the sqlite test database.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list contains s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// App represents a client application registered under a tenant. The id is a
// human-editable slug, unique within the tenant's collection.
type App struct {
	TenantUID string     `json:"-" gorm:"type:varchar(128);primaryKey"`
	ID        string     `json:"id" gorm:"type:varchar(128);primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	Features  StringList `json:"features" gorm:"type:text"`
	SortOrder int        `json:"order" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for the App model
func (App) TableName() string {
	return "apps"
}
