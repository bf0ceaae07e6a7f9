package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// handleListContacts returns the tenant's inbox newest first. Optional
// filters: ?service=<appId> and ?unread=true.
func handleListContacts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		query := db.Where("tenant_uid = ?", tenantUID)
		if service := c.Query("service"); service != "" {
			query = query.Where("service = ?", service)
		}
		if c.Query("unread") == "true" {
			query = query.Where("is_read = ?", false)
		}

		var submissions []models.ContactSubmission
		if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch contacts")
			return
		}

		utils.OKResponse(c, "Contacts retrieved successfully", submissions)
	}
}

// handleMarkContactRead flags one submission as read.
func handleMarkContactRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		id := c.Param("id")

		var submission models.ContactSubmission
		if err := db.Where("tenant_uid = ? AND id = ?", tenantUID, id).
			First(&submission).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "Contact not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch contact")
			}
			return
		}

		if submission.IsRead {
			utils.OKResponse(c, "Contact already marked as read", submission)
			return
		}

		submission.IsRead = true
		if err := db.Save(&submission).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to update contact")
			return
		}

		utils.OKResponse(c, "Contact marked as read", submission)
	}
}
