package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/translate"
)

const testTenant = "tenant-test-1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))
	return db
}

// fakePublisher records published events in memory.
type fakePublisher struct {
	mu     sync.Mutex
	events []*models.ContactNotificationEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event *models.ContactNotificationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() []*models.ContactNotificationEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.ContactNotificationEvent(nil), f.events...)
}

func newTestRouter(db *gorm.DB, translator *translate.Client, publisher NotificationPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/forms/:formId", handleResolveForm(db))
	router.POST("/contacts", handleSubmitContact(db, translator, publisher))
	router.GET("/legal/:appId/:docType/:lang", handlePublicLegalDoc(db))
	return router
}

// unreachableTranslator always yields the failure sentinel.
func unreachableTranslator() *translate.Client {
	return translate.NewClientWithBaseURL("http://127.0.0.1:1")
}

func seedForm(t *testing.T, db *gorm.DB, form models.ContactForm) {
	t.Helper()
	if form.TenantUID == "" {
		form.TenantUID = testTenant
	}
	if form.Status == "" {
		form.Status = models.FormStatusActive
	}
	require.NoError(t, db.Create(&form).Error)
	require.NoError(t, db.Create(&models.FormIndexEntry{
		FormID: form.FormID, TenantUID: form.TenantUID, Status: form.Status,
	}).Error)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
