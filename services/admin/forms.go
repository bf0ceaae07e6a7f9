package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// UpsertFormRequest carries a full contact form configuration.
type UpsertFormRequest struct {
	Apps      []string `json:"apps"`
	Types     []string `json:"types"`
	Languages []string `json:"languages"`
	Status    string   `json:"status"`
}

// handleListForms returns all contact forms owned by the tenant.
func handleListForms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)

		var forms []models.ContactForm
		if err := db.Where("tenant_uid = ?", tenantUID).
			Order("form_id ASC").Find(&forms).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch forms")
			return
		}

		for i := range forms {
			forms[i].Normalize()
		}

		utils.OKResponse(c, "Forms retrieved successfully", forms)
	}
}

// handleUpsertForm writes the form configuration and keeps the global form
// index in step with it. Form ids are unique across tenants; taking over
// another tenant's id is rejected.
func handleUpsertForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		formID := c.Param("formId")

		var req UpsertFormRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		fields := map[string]string{}
		for _, t := range req.Types {
			if !models.IsValidInquiryType(t) {
				fields["types"] = "Unknown inquiry type: " + t
				break
			}
		}
		status := req.Status
		if status == "" {
			status = models.FormStatusActive
		}
		if status != models.FormStatusActive && status != models.FormStatusPaused {
			fields["status"] = "Status must be active or paused"
		}
		if len(fields) > 0 {
			utils.ValidationErrorResponse(c, fields)
			return
		}

		var index models.FormIndexEntry
		err := db.Where("form_id = ?", formID).First(&index).Error
		if err == nil && index.TenantUID != tenantUID {
			utils.ConflictResponse(c, "This form id belongs to another tenant")
			return
		} else if err != nil && err != gorm.ErrRecordNotFound {
			utils.InternalServerErrorResponse(c, "Failed to check form id")
			return
		}

		form := models.ContactForm{
			TenantUID: tenantUID,
			FormID:    formID,
			Apps:      models.StringList(req.Apps),
			Types:     models.StringList(req.Types),
			Languages: models.StringList(req.Languages),
			Status:    status,
		}
		form.Normalize()

		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_uid"}, {Name: "form_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"apps", "types", "languages", "status", "updated_at",
			}),
		}).Create(&form).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to save form")
			return
		}

		entry := models.FormIndexEntry{
			FormID:    formID,
			TenantUID: tenantUID,
			Status:    status,
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "form_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tenant_uid", "status", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Form saved but index update failed")
			return
		}

		utils.InvalidateFormIndexEntry(formID)

		utils.OKResponse(c, "Form saved successfully", form)
	}
}

// handleDeleteForm removes the form, its index row and its cache entry.
// Past submissions made through the form are kept.
func handleDeleteForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		formID := c.Param("formId")

		var form models.ContactForm
		if err := db.Where("tenant_uid = ? AND form_id = ?", tenantUID, formID).
			First(&form).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "Form not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch form")
			}
			return
		}

		if err := db.Where("tenant_uid = ? AND form_id = ?", tenantUID, formID).
			Delete(&models.ContactForm{}).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete form")
			return
		}

		if err := db.Where("form_id = ? AND tenant_uid = ?", formID, tenantUID).
			Delete(&models.FormIndexEntry{}).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Form deleted but index row could not be removed")
			return
		}

		utils.InvalidateFormIndexEntry(formID)

		utils.OKResponse(c, "Form deleted successfully", nil)
	}
}
