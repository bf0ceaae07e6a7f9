package main

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// ErrFormNotFound covers every permanent resolution miss: unknown form id,
// or an index row whose backing config was deleted.
var ErrFormNotFound = errors.New("form not found")

// resolveForm maps a public form id to its owning tenant and normalized
// config. The index lookup goes through the Redis cache; the config itself
// is always read fresh. Index/data drift resolves as not found, store
// errors propagate so callers can distinguish transient from permanent.
func resolveForm(db *gorm.DB, formID string) (*models.ContactForm, error) {
	entry, err := utils.GetCachedFormIndexEntry(formID)
	if err != nil {
		var row models.FormIndexEntry
		dbErr := db.Where("form_id = ?", formID).First(&row).Error
		if dbErr == gorm.ErrRecordNotFound {
			return nil, ErrFormNotFound
		}
		if dbErr != nil {
			return nil, fmt.Errorf("form index lookup failed: %w", dbErr)
		}
		entry = &row
		utils.CacheFormIndexEntry(entry)
	}

	var form models.ContactForm
	err = db.Where("tenant_uid = ? AND form_id = ?", entry.TenantUID, formID).
		First(&form).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("form config lookup failed: %w", err)
	}

	form.Normalize()
	return &form, nil
}

// resolvedFormView is the widget-facing shape of a form config. Apps are
// expanded to id/name pairs, inquiry types carry their display labels.
type resolvedFormView struct {
	FormID    string            `json:"form_id"`
	Status    string            `json:"status"`
	Apps      []resolvedFormApp `json:"apps"`
	Types     []resolvedType    `json:"types"`
	Languages []string          `json:"languages"`
}

type resolvedFormApp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type resolvedType struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// handleResolveForm returns the config governing one embedded form.
func handleResolveForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		formID := c.Param("formId")

		form, err := resolveForm(db, formID)
		if err != nil {
			if errors.Is(err, ErrFormNotFound) {
				utils.NotFoundResponse(c, "Form not found")
			} else {
				utils.UpstreamFailureResponse(c, "Form lookup failed, try again later")
			}
			return
		}

		view, err := buildFormView(db, form)
		if err != nil {
			utils.UpstreamFailureResponse(c, "Form lookup failed, try again later")
			return
		}

		utils.OKResponse(c, "Form resolved successfully", view)
	}
}

// buildFormView expands the stored config into the widget shape. An empty
// apps restriction exposes every app the tenant has registered.
func buildFormView(db *gorm.DB, form *models.ContactForm) (*resolvedFormView, error) {
	query := db.Where("tenant_uid = ?", form.TenantUID)
	if len(form.Apps) > 0 {
		query = query.Where("id IN ?", []string(form.Apps))
	}

	var apps []models.App
	if err := query.Order("sort_order ASC, id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	view := &resolvedFormView{
		FormID:    form.FormID,
		Status:    form.Status,
		Apps:      make([]resolvedFormApp, 0, len(apps)),
		Types:     make([]resolvedType, 0),
		Languages: form.Languages,
	}
	for _, app := range apps {
		view.Apps = append(view.Apps, resolvedFormApp{ID: app.ID, Name: app.Name})
	}

	types := []string(form.Types)
	if len(types) == 0 {
		types = models.AllInquiryTypes
	}
	for _, t := range types {
		view.Types = append(view.Types, resolvedType{Code: t, Label: models.InquiryTypeLabelsKo[t]})
	}
	if view.Languages == nil {
		view.Languages = []string{}
	}

	return view, nil
}
