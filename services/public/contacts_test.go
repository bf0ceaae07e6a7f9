package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/translate"
)

func validSubmission() gin.H {
	return gin.H{
		"form_id":  "form-1",
		"service":  "posiki",
		"type":     models.InquiryTypeGeneral,
		"email":    "visitor@example.com",
		"message":  "Hello",
		"language": "en",
	}
}

func submissionCount(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.ContactSubmission{}).Count(&count)
	return count
}

func TestSubmitRejectsInvalidEmailWithoutSideEffects(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1"})

	body := validSubmission()
	body["email"] = "not-an-email"
	w := doJSON(t, router, http.MethodPost, "/contacts", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")

	assert.Zero(t, submissionCount(db))
	assert.Empty(t, publisher.published())
}

func TestSubmitHoneypotDropsSilently(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1"})

	body := validSubmission()
	body["website"] = "https://spam.example.com"
	w := doJSON(t, router, http.MethodPost, "/contacts", body)

	// Indistinguishable from success, but nothing happened
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Zero(t, submissionCount(db))
	assert.Empty(t, publisher.published())
}

func TestSubmitPersistsSentinelWhenTranslationFails(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1"})

	w := doJSON(t, router, http.MethodPost, "/contacts", validSubmission())
	require.Equal(t, http.StatusCreated, w.Code)

	var submission models.ContactSubmission
	require.NoError(t, db.First(&submission).Error)
	assert.Equal(t, "Hello", submission.Message)
	assert.Equal(t, translate.FailureSentinel, submission.MessageKo)
	assert.Equal(t, testTenant, submission.TenantUID)
	assert.False(t, submission.IsRead)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, translate.FailureSentinel, events[0].MessageKo)
	assert.Equal(t, "일반 문의", events[0].TypeKo)
}

func TestSubmitPersistsTranslation(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"translatedText":"안녕하세요"}}`))
	}))
	t.Cleanup(server.Close)

	router := newTestRouter(db, translate.NewClientWithBaseURL(server.URL), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1"})

	w := doJSON(t, router, http.MethodPost, "/contacts", validSubmission())
	require.Equal(t, http.StatusCreated, w.Code)

	var submission models.ContactSubmission
	require.NoError(t, db.First(&submission).Error)
	assert.Equal(t, "안녕하세요", submission.MessageKo)
}

func TestSubmitFailsWhenDispatchFails(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{err: errors.New("broker unreachable")}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1"})

	w := doJSON(t, router, http.MethodPost, "/contacts", validSubmission())

	// Persist may have succeeded; the submission is still reported failed
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSubmitEnforcesFormRestrictions(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{
		FormID: "form-1",
		Apps:   models.StringList{"posiki"},
		Types:  models.StringList{models.InquiryTypeBug},
	})

	body := validSubmission()
	body["service"] = "unlisted-app"
	body["type"] = models.InquiryTypeGeneral
	w := doJSON(t, router, http.MethodPost, "/contacts", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "service")
	assert.Contains(t, fields, "type")
	assert.Zero(t, submissionCount(db))
}

func TestSubmitRejectsPausedForm(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)
	seedForm(t, db, models.ContactForm{FormID: "form-1", Status: models.FormStatusPaused})

	w := doJSON(t, router, http.MethodPost, "/contacts", validSubmission())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, submissionCount(db))
}

func TestSubmitWithoutFormIDRejectedByDefault(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)

	body := validSubmission()
	body["form_id"] = ""
	w := doJSON(t, router, http.MethodPost, "/contacts", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "form_id")
}

func TestSubmitOpenModeUsesDefaultTenant(t *testing.T) {
	t.Setenv("PUBLIC_OPEN_SUBMISSIONS", "true")
	t.Setenv("PUBLIC_DEFAULT_TENANT", "default-tenant")

	db := newTestDB(t)
	publisher := &fakePublisher{}
	router := newTestRouter(db, unreachableTranslator(), publisher)

	body := validSubmission()
	body["form_id"] = ""
	w := doJSON(t, router, http.MethodPost, "/contacts", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var submission models.ContactSubmission
	require.NoError(t, db.First(&submission).Error)
	assert.Equal(t, "default-tenant", submission.TenantUID)
}
