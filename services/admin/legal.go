package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// LegalContentRequest carries document content for draft and publish.
type LegalContentRequest struct {
	Content string `json:"content"`
}

// docKey validates the appId/docType/lang path segments.
func docKey(c *gin.Context) (appID, docType, lang string, ok bool) {
	appID = c.Param("appId")
	docType = c.Param("docType")
	lang = c.Param("lang")
	if !models.IsValidDocType(docType) {
		utils.BadRequestResponse(c, "Unknown document type")
		return "", "", "", false
	}
	if lang != "" && !models.IsValidDocLang(lang) {
		utils.BadRequestResponse(c, "Unsupported language")
		return "", "", "", false
	}
	return appID, docType, lang, true
}

// handleGetLegalDoc returns the latest record for one document key.
func handleGetLegalDoc(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, lang, ok := docKey(c)
		if !ok {
			return
		}

		var doc models.LegalDocument
		err := db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
			tenantUID, appID, docType, lang).First(&doc).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "Document not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch document")
			}
			return
		}

		utils.OKResponse(c, "Document retrieved successfully", doc)
	}
}

// handleSaveDraft upserts the document as a draft. The merge never touches
// published_at, so a previously published document keeps its timestamp while
// its draft evolves.
func handleSaveDraft(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, lang, ok := docKey(c)
		if !ok {
			return
		}

		var req LegalContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now()
		doc := models.LegalDocument{
			TenantUID: tenantUID,
			AppID:     appID,
			DocType:   docType,
			Lang:      lang,
			Content:   req.Content,
			IsDraft:   true,
			UpdatedAt: &now,
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_uid"}, {Name: "app_id"}, {Name: "doc_type"}, {Name: "lang"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"content", "is_draft", "updated_at"}),
		}).Create(&doc).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to save draft")
			return
		}

		utils.OKResponse(c, "Draft saved successfully", doc)
	}
}

// handlePublish replaces the full record in the published state. Publishing
// a never-drafted document is allowed and creates it published directly.
func handlePublish(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, lang, ok := docKey(c)
		if !ok {
			return
		}

		var req LegalContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		now := time.Now()
		doc := models.LegalDocument{
			TenantUID:   tenantUID,
			AppID:       appID,
			DocType:     docType,
			Lang:        lang,
			Content:     req.Content,
			IsDraft:     false,
			PublishedAt: &now,
			UpdatedAt:   &now,
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_uid"}, {Name: "app_id"}, {Name: "doc_type"}, {Name: "lang"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"content", "is_draft", "published_at", "updated_at"}),
		}).Create(&doc).Error
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to publish document")
			return
		}

		utils.OKResponse(c, "Document published successfully", doc)
	}
}

// handleListPublishedLanguages returns the languages whose latest record is
// published. Draft-only languages are excluded so the public language
// switcher never links to unreviewed text.
func handleListPublishedLanguages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, _, ok := docKey(c)
		if !ok {
			return
		}

		langs, err := publishedLanguages(db, tenantUID, appID, docType)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch published languages")
			return
		}

		utils.OKResponse(c, "Published languages retrieved successfully", gin.H{
			"languages": langs,
		})
	}
}

// publishedLanguages lists languages with is_draft=false for one document.
func publishedLanguages(db *gorm.DB, tenantUID, appID, docType string) ([]string, error) {
	langs := []string{}
	err := db.Model(&models.LegalDocument{}).
		Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND is_draft = ?",
			tenantUID, appID, docType, false).
		Order("lang ASC").
		Pluck("lang", &langs).Error
	if err != nil {
		return nil, err
	}
	return langs, nil
}
