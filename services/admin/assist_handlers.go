package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/middleware"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// handleTranslateDoc translates the Korean document into the target
// language. The Korean record is always the translation source; its draft
// or published state does not matter. The result is returned to the caller
// and is not written to the store until the caller saves or publishes it.
func handleTranslateDoc(db *gorm.DB, assistant *AssistantClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, lang, ok := docKey(c)
		if !ok {
			return
		}
		if lang == "ko" {
			utils.BadRequestResponse(c, "Korean is the translation source, pick another language")
			return
		}

		var source models.LegalDocument
		err := db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
			tenantUID, appID, docType, "ko").First(&source).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequestResponse(c, "Write the Korean document first, it is the translation source")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch source document")
			}
			return
		}
		if source.Content == "" {
			utils.BadRequestResponse(c, "The Korean document is empty")
			return
		}

		apiKey, err := tenantAPIKey(db, tenantUID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch settings")
			return
		}
		if apiKey == "" {
			utils.BadRequestResponse(c, ErrNoAPIKey.Error())
			return
		}

		translated, err := assistant.TranslateDocument(c.Request.Context(), apiKey, source.Content, lang, docType)
		if err != nil {
			utils.UpstreamFailureResponse(c, err.Error())
			return
		}

		utils.OKResponse(c, "Document translated successfully", gin.H{
			"lang":    lang,
			"content": translated,
		})
	}
}

// handleReviewDoc checks the submitted document text against the app's
// declared feature list. Review needs at least one declared feature,
// otherwise there is nothing to compare against.
func handleReviewDoc(db *gorm.DB, assistant *AssistantClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantUID, _ := middleware.GetTenantFromContext(c)
		appID, docType, _, ok := docKey(c)
		if !ok {
			return
		}

		var req LegalContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}
		if req.Content == "" {
			utils.BadRequestResponse(c, "Document content must not be empty")
			return
		}

		var app models.App
		err := db.Where("tenant_uid = ? AND id = ?", tenantUID, appID).First(&app).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFoundResponse(c, "App not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to fetch app")
			}
			return
		}
		if len(app.Features) == 0 {
			utils.BadRequestResponse(c, "Register the app's features first, review compares the document against them")
			return
		}

		apiKey, err := tenantAPIKey(db, tenantUID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch settings")
			return
		}
		if apiKey == "" {
			utils.BadRequestResponse(c, ErrNoAPIKey.Error())
			return
		}

		report, err := assistant.ReviewDocument(c.Request.Context(), apiKey, req.Content, app.Features, docType)
		if err != nil {
			utils.UpstreamFailureResponse(c, err.Error())
			return
		}

		utils.OKResponse(c, "Document reviewed successfully", gin.H{
			"report": report,
		})
	}
}
