package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// handlePublicLegalDoc serves a published legal document. The owning tenant
// comes from the u query parameter or PUBLIC_DEFAULT_TENANT. Unknown tenant,
// unknown docType or lang, missing document and draft-only document all
// produce the same not-found response so draft content cannot be probed.
func handlePublicLegalDoc(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		appID := c.Param("appId")
		docType := c.Param("docType")
		lang := c.Param("lang")

		tenantUID := c.Query("u")
		if tenantUID == "" {
			tenantUID = config.GetEnv("PUBLIC_DEFAULT_TENANT", "")
		}

		if tenantUID == "" || !models.IsValidDocType(docType) || !models.IsValidDocLang(lang) {
			utils.NotFoundResponse(c, "Document not found")
			return
		}

		var doc models.LegalDocument
		err := db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ? AND is_draft = ?",
			tenantUID, appID, docType, lang, false).First(&doc).Error
		if err != nil {
			// Store errors also collapse into not found; the public
			// reader never exposes backend state.
			utils.NotFoundResponse(c, "Document not found")
			return
		}

		langs, err := publishedLanguagesFor(db, tenantUID, appID, docType)
		if err != nil {
			langs = []string{lang}
		}

		utils.OKResponse(c, "Document retrieved successfully", gin.H{
			"app_id":       appID,
			"doc_type":     docType,
			"lang":         lang,
			"content":      doc.Content,
			"published_at": doc.PublishedAt,
			"languages":    langs,
		})
	}
}

// publishedLanguagesFor lists the languages the language switcher may link.
func publishedLanguagesFor(db *gorm.DB, tenantUID, appID, docType string) ([]string, error) {
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
