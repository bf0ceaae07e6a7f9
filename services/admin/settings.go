package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// SetAPIKeyRequest carries the AI provider credential. An empty value
// clears the stored key.
type SetAPIKeyRequest struct {
	Value string `json:"value"`
}

// handleGetAPIKey reports whether a key is configured. Only a masked
// suffix leaves the service.
func handleGetAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		key, err := tenantAPIKey(db, tenantUID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch settings")
			return
		}

		utils.OKResponse(c, "Settings retrieved successfully", gin.H{
			"configured": key != "",
			"masked":     maskAPIKey(key),
		})
	}
}

// handleSetAPIKey stores or clears the tenant's AI provider key.
func handleSetAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		var req SetAPIKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		value := strings.TrimSpace(req.Value)
		if value == "" {
			err := db.Where("tenant_uid = ? AND key = ?", tenantUID, models.SettingAnthropicAPIKey).
				Delete(&models.Setting{}).Error
			if err != nil {
				utils.InternalServerErrorResponse(c, "Failed to clear API key")
				return
			}
			utils.OKResponse(c, "API key cleared", nil)
			return
		}

		setting := models.Setting{
			TenantUID: tenantUID,
			Key:       models.SettingAnthropicAPIKey,
			Value:     value,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_uid"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to save API key")
			return
		}

		utils.OKResponse(c, "API key saved", gin.H{"masked": maskAPIKey(value)})
	}
}

// tenantAPIKey loads the stored AI provider key, empty when unset.
func tenantAPIKey(db *gorm.DB, tenantUID string) (string, error) {
	var setting models.Setting
	err := db.Where("tenant_uid = ? AND key = ?", tenantUID, models.SettingAnthropicAPIKey).
		First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
