package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoonly93/posikiCS/shared/models"
)

func TestResolveFormUnknownID(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db, unreachableTranslator(), &fakePublisher{})

	w := doJSON(t, router, http.MethodGet, "/forms/no-such-form", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveFormIndexDriftIsNotFound(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db, unreachableTranslator(), &fakePublisher{})

	// Index row exists but the backing config was deleted
	require.NoError(t, db.Create(&models.FormIndexEntry{
		FormID: "stale", TenantUID: testTenant, Status: models.FormStatusActive,
	}).Error)

	w := doJSON(t, router, http.MethodGet, "/forms/stale", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveFormExpandsAppsAndTypes(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db, unreachableTranslator(), &fakePublisher{})

	require.NoError(t, db.Create(&models.App{TenantUID: testTenant, ID: "posiki", Name: "포시키", SortOrder: 1}).Error)
	require.NoError(t, db.Create(&models.App{TenantUID: testTenant, ID: "other", Name: "Other", SortOrder: 2}).Error)
	seedForm(t, db, models.ContactForm{
		FormID:    "form-1",
		Apps:      models.StringList{"posiki"},
		Types:     models.StringList{models.InquiryTypeBug},
		Languages: models.StringList{"ko", "en"},
	})

	w := doJSON(t, router, http.MethodGet, "/forms/form-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	apps := data["apps"].([]interface{})
	require.Len(t, apps, 1)
	assert.Equal(t, "포시키", apps[0].(map[string]interface{})["name"])

	types := data["types"].([]interface{})
	require.Len(t, types, 1)
	assert.Equal(t, models.InquiryTypeBug, types[0].(map[string]interface{})["code"])
	assert.Equal(t, "버그·에러 신고", types[0].(map[string]interface{})["label"])

	langs := data["languages"].([]interface{})
	assert.Equal(t, []interface{}{"ko", "en"}, langs)
}

func TestResolveFormUnrestrictedDefaults(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db, unreachableTranslator(), &fakePublisher{})

	require.NoError(t, db.Create(&models.App{TenantUID: testTenant, ID: "a", Name: "A"}).Error)
	require.NoError(t, db.Create(&models.App{TenantUID: testTenant, ID: "b", Name: "B"}).Error)
	seedForm(t, db, models.ContactForm{FormID: "open-form"})

	w := doJSON(t, router, http.MethodGet, "/forms/open-form", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["apps"].([]interface{}), 2)
	// Empty restriction exposes the full inquiry type vocabulary
	assert.Len(t, data["types"].([]interface{}), len(models.AllInquiryTypes))
}

func TestResolveFormNormalizesLegacyLanguage(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db, unreachableTranslator(), &fakePublisher{})

	seedForm(t, db, models.ContactForm{FormID: "legacy", Language: "ja"})

	w := doJSON(t, router, http.MethodGet, "/forms/legacy", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"ja"}, data["languages"])
}
