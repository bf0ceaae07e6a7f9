package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// AddAppRequest represents the add app request. When ID is empty it is
// derived from the name by transliteration and slugification.
type AddAppRequest struct {
	Name string `json:"name" binding:"required"`
	ID   string `json:"id"`
}

// UpdateAppRequest represents a partial app update
type UpdateAppRequest struct {
	Name      *string   `json:"name"`
	SortOrder *int      `json:"order"`
	Features  *[]string `json:"features"`
}

// RenameAppRequest represents the identifier rename request
type RenameAppRequest struct {
	NewID string `json:"new_id" binding:"required"`
}

// handleListApps returns the tenant's apps sorted ascending by order.
func handleListApps(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		var apps []models.App
		if err := db.Where("tenant_uid = ?", tenantUID).
			Order("sort_order ASC, id ASC").Find(&apps).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch apps")
			return
		}

		utils.OKResponse(c, "Apps retrieved successfully", apps)
	}
}

// handleAddApp creates a new app with an empty feature set. The id must be
// unique within the tenant's collection.
func handleAddApp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		var req AddAppRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			utils.BadRequestResponse(c, "App name must not be empty")
			return
		}

		appID := utils.SanitizeAppID(req.ID)
		if appID == "" {
			appID = utils.Slugify(name)
		}
		if appID == "" {
			utils.BadRequestResponse(c, "App name does not yield a valid id")
			return
		}

		// Collision check before create
		var existing models.App
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, appID).
			First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "An app with this id already exists")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.InternalServerErrorResponse(c, "Failed to check app id")
			return
		}

		var maxOrder int
		db.Model(&models.App{}).Where("tenant_uid = ?", tenantUID).
			Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

		app := models.App{
			TenantUID: tenantUID,
			ID:        appID,
			Name:      name,
			Features:  models.StringList{},
			SortOrder: maxOrder + 1,
		}

		if err := db.Create(&app).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create app")
			return
		}

		utils.CreatedResponse(c, "App created successfully", app)
	}
}

// handleUpdateApp applies partial name / order / feature updates.
func handleUpdateApp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID := c.Param("id")

		var app models.App
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, appID).
			First(&app).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "App not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch app")
			}
			return
		}

		var req UpdateAppRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				utils.BadRequestResponse(c, "App name must not be empty")
				return
			}
			app.Name = name
		}
		if req.SortOrder != nil {
			app.SortOrder = *req.SortOrder
		}
		if req.Features != nil {
			features := models.StringList{}
			for _, f := range *req.Features {
				if !models.IsKnownFeature(f) {
					utils.BadRequestResponse(c, "Unknown feature: "+f)
					return
				}
				features = append(features, f)
			}
			app.Features = features
		}

		if err := db.Save(&app).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update app")
			return
		}

		utils.OKResponse(c, "App updated successfully", app)
	}
}

// handleRenameApp swaps an app's identifier: copy the record to the new id,
// then delete the old one. The two writes are not transactional; a failure
// between them leaves both ids visible and the caller must re-list and
// reconcile. Documents and submissions keep referencing the old id.
func handleRenameApp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		oldID := c.Param("id")

		var req RenameAppRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		newID := utils.SanitizeAppID(req.NewID)
		if newID == "" || newID == oldID {
			utils.BadRequestResponse(c, "New id must differ from the current id")
			return
		}

		var app models.App
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, oldID).
			First(&app).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "App not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch app")
			}
			return
		}

		var existing models.App
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, newID).
			First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "An app with this id already exists")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.InternalServerErrorResponse(c, "Failed to check app id")
			return
		}

		renamed := app
		renamed.ID = newID
		if err := db.Create(&renamed).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to write app under new id")
			return
		}

		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, oldID).
			Delete(&models.App{}).Error; err != nil {
			// New id exists but the old one could not be removed. Surface
			// the failure so the caller re-lists and reconciles.
			utils.InternalServerErrorResponse(c, "App copied but old id could not be removed")
			return
		}

		utils.OKResponse(c, "App renamed successfully", renamed)
	}
}

// handleDeleteApp removes the app record. Legal documents under the app id
// are left in place.
func handleDeleteApp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID := c.Param("id")

		var app models.App
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, appID).
			First(&app).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "App not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch app")
			}
			return
		}

		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, appID).
			Delete(&models.App{}).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete app")
			return
		}

		utils.OKResponse(c, "App deleted successfully", nil)
	}
}
