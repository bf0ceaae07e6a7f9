package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoonly93/posikiCS/shared/config"
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

// newTestRouter wires the admin routes behind a stub auth layer that pins
// the tenant identity.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_uid", testTenant)
		c.Set("email", "owner@example.com")
		c.Next()
	})

	router.GET("/admin/apps", handleListApps(db))
	router.POST("/admin/apps", handleAddApp(db))
	router.PATCH("/admin/apps/:id", handleUpdateApp(db))
	router.POST("/admin/apps/:id/rename", handleRenameApp(db))
	router.DELETE("/admin/apps/:id", handleDeleteApp(db))

	router.GET("/admin/legal/:appId/:docType", handleListPublishedLanguages(db))
	router.GET("/admin/legal/:appId/:docType/:lang", handleGetLegalDoc(db))
	router.PUT("/admin/legal/:appId/:docType/:lang/draft", handleSaveDraft(db))
	router.POST("/admin/legal/:appId/:docType/:lang/publish", handlePublish(db))

	router.GET("/admin/forms", handleListForms(db))
	router.PUT("/admin/forms/:formId", handleUpsertForm(db))
	router.DELETE("/admin/forms/:formId", handleDeleteForm(db))

	router.GET("/admin/contacts", handleListContacts(db))
	router.POST("/admin/contacts/:id/read", handleMarkContactRead(db))

	router.GET("/admin/settings/api-key", handleGetAPIKey(db))
	router.PUT("/admin/settings/api-key", handleSetAPIKey(db))

	return router
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
