package main

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/translate"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// emailPattern accepts local@domain.tld and nothing stricter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitContactRequest is an inbound contact submission. Website is a
// hidden honeypot field; humans never fill it.
type SubmitContactRequest struct {
	FormID   string `json:"form_id"`
	Service  string `json:"service"`
	Type     string `json:"type"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Language string `json:"language"`
	Source   string `json:"source"`
	Website  string `json:"website"`
}

// handleSubmitContact validates, translates and records a submission, then
// dispatches the notification event. Persist and dispatch run concurrently;
// if either fails the whole submission is reported as failed even though
// the other half may have gone through.
func handleSubmitContact(db *gorm.DB, translator *translate.Client, publisher NotificationPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		// Honeypot hit: report success, do nothing
		if req.Website != "" {
			utils.CreatedResponse(c, "Contact submitted successfully", nil)
			return
		}

		form, tenantUID, ok := submissionTarget(c, db, req.FormID)
		if !ok {
			return
		}

		if fields := validateSubmission(&req, form); len(fields) > 0 {
			utils.ValidationErrorResponse(c, fields)
			return
		}

		messageKo := translator.ToKorean(c.Request.Context(), req.Message, req.Language)

		now := time.Now()
		submission := models.ContactSubmission{
			ID:        uuid.New(),
			TenantUID: tenantUID,
			Service:   req.Service,
			Type:      req.Type,
			Email:     req.Email,
			Message:   req.Message,
			MessageKo: messageKo,
			Language:  req.Language,
			Source:    req.Source,
			CreatedAt: now,
		}

		event := &models.ContactNotificationEvent{
			EventID:   uuid.New().String(),
			TenantUID: tenantUID,
			AppName:   req.Service,
			Type:      req.Type,
			TypeKo:    models.InquiryTypeLabelsKo[req.Type],
			Email:     req.Email,
			Message:   req.Message,
			MessageKo: messageKo,
			Source:    req.Source,
			Language:  req.Language,
			Timestamp: now,
		}

		var wg sync.WaitGroup
		var persistErr, dispatchErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			persistErr = db.Create(&submission).Error
		}()
		go func() {
			defer wg.Done()
			dispatchErr = publisher.Publish(c.Request.Context(), event)
		}()
		wg.Wait()

		if persistErr != nil || dispatchErr != nil {
			logrus.WithFields(logrus.Fields{
				"tenant":       tenantUID,
				"persist_err":  persistErr,
				"dispatch_err": dispatchErr,
			}).Error("Contact submission partially failed")
			utils.UpstreamFailureResponse(c, "Submission could not be completed, try again later")
			return
		}

		utils.CreatedResponse(c, "Contact submitted successfully", gin.H{
			"id": submission.ID,
		})
	}
}

// submissionTarget resolves which tenant and config govern the submission.
// Without a form id the deployment either runs open (default tenant, no
// restrictions) or rejects, controlled by PUBLIC_OPEN_SUBMISSIONS.
func submissionTarget(c *gin.Context, db *gorm.DB, formID string) (*models.ContactForm, string, bool) {
	if formID == "" {
		if config.GetEnv("PUBLIC_OPEN_SUBMISSIONS", "false") != "true" {
			utils.ValidationErrorResponse(c, map[string]string{
				"form_id": "A form id is required",
			})
			return nil, "", false
		}
		tenantUID := config.GetEnv("PUBLIC_DEFAULT_TENANT", "")
		if tenantUID == "" {
			utils.NotFoundResponse(c, "No default tenant is configured")
			return nil, "", false
		}
		return nil, tenantUID, true
	}

	form, err := resolveForm(db, formID)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			utils.NotFoundResponse(c, "Form not found")
		} else {
			utils.UpstreamFailureResponse(c, "Form lookup failed, try again later")
		}
		return nil, "", false
	}
	if form.Status != models.FormStatusActive {
		utils.ForbiddenResponse(c, "This form is not accepting submissions")
		return nil, "", false
	}
	return form, form.TenantUID, true
}

// validateSubmission returns field-scoped messages for everything wrong
// with the request. A nil form means open mode with no restrictions.
func validateSubmission(req *SubmitContactRequest, form *models.ContactForm) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(req.Service) == "" {
		fields["service"] = "Select an app"
	} else if form != nil && len(form.Apps) > 0 && !form.Apps.Contains(req.Service) {
		fields["service"] = "This app is not available on this form"
	}

	if req.Type == "" {
		fields["type"] = "Select an inquiry type"
	} else if !models.IsValidInquiryType(req.Type) {
		fields["type"] = "Unknown inquiry type"
	} else if form != nil && len(form.Types) > 0 && !form.Types.Contains(req.Type) {
		fields["type"] = "This inquiry type is not available on this form"
	}

	if req.Email == "" {
		fields["email"] = "Enter an email address"
	} else if !emailPattern.MatchString(req.Email) {
		fields["email"] = "Enter a valid email address"
	}

	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "Enter a message"
	}

	return fields
}
