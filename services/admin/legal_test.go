package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoonly93/posikiCS/shared/models"
)

const legalBase = "/admin/legal/posiki/privacy"

func TestSaveDraftThenGet(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db)

	w := doJSON(t, router, http.MethodPut, legalBase+"/ko/draft", gin.H{"content": "# 초안"})
	require.Equal(t, http.StatusOK, w.Code)

	var doc models.LegalDocument
	require.NoError(t, db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
		testTenant, "posiki", models.DocTypePrivacy, "ko").First(&doc).Error)
	assert.True(t, doc.IsDraft)
	assert.Equal(t, "# 초안", doc.Content)
	assert.Nil(t, doc.PublishedAt)
	assert.NotNil(t, doc.UpdatedAt)
}

func TestDraftSaveKeepsPublishedAt(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db)

	w := doJSON(t, router, http.MethodPost, legalBase+"/ko/publish", gin.H{"content": "v1"})
	require.Equal(t, http.StatusOK, w.Code)

	var published models.LegalDocument
	require.NoError(t, db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
		testTenant, "posiki", models.DocTypePrivacy, "ko").First(&published).Error)
	require.NotNil(t, published.PublishedAt)
	publishedAt := *published.PublishedAt

	w = doJSON(t, router, http.MethodPut, legalBase+"/ko/draft", gin.H{"content": "v2 draft"})
	require.Equal(t, http.StatusOK, w.Code)

	var doc models.LegalDocument
	require.NoError(t, db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
		testTenant, "posiki", models.DocTypePrivacy, "ko").First(&doc).Error)
	assert.True(t, doc.IsDraft)
	assert.Equal(t, "v2 draft", doc.Content)
	require.NotNil(t, doc.PublishedAt)
	assert.WithinDuration(t, publishedAt, *doc.PublishedAt, time.Second)
}

func TestPublishWithoutPriorDraft(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db)

	w := doJSON(t, router, http.MethodPost, legalBase+"/ja/publish", gin.H{"content": "本文"})
	require.Equal(t, http.StatusOK, w.Code)

	var doc models.LegalDocument
	require.NoError(t, db.Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
		testTenant, "posiki", models.DocTypePrivacy, "ja").First(&doc).Error)
	assert.False(t, doc.IsDraft)
	assert.NotNil(t, doc.PublishedAt)
}

func TestPublishedInsertStoresDraftFlag(t *testing.T) {
	db := newTestDB(t)

	now := time.Now()
	require.NoError(t, db.Create(&models.LegalDocument{
		TenantUID:   testTenant,
		AppID:       "posiki",
		DocType:     models.DocTypeTerms,
		Lang:        "en",
		Content:     "published directly",
		IsDraft:     false,
		PublishedAt: &now,
		UpdatedAt:   &now,
	}).Error)

	var stored bool
	require.NoError(t, db.Model(&models.LegalDocument{}).
		Where("tenant_uid = ? AND app_id = ? AND doc_type = ? AND lang = ?",
			testTenant, "posiki", models.DocTypeTerms, "en").
		Pluck("is_draft", &stored).Error)
	assert.False(t, stored)
}

func TestListPublishedLanguagesTracksDraftState(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db)

	listLangs := func() []interface{} {
		w := doJSON(t, router, http.MethodGet, legalBase, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody(t, w)["data"].(map[string]interface{})["languages"].([]interface{})
	}

	assert.Empty(t, listLangs())

	doJSON(t, router, http.MethodPost, legalBase+"/ko/publish", gin.H{"content": "v1"})
	doJSON(t, router, http.MethodPut, legalBase+"/en/draft", gin.H{"content": "draft only"})

	langs := listLangs()
	require.Len(t, langs, 1)
	assert.Equal(t, "ko", langs[0])

	// A draft save on a published language removes it from the list
	doJSON(t, router, http.MethodPut, legalBase+"/ko/draft", gin.H{"content": "v2"})
	assert.Empty(t, listLangs())
}

func TestLegalDocRejectsUnknownTypeAndLang(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(db)

	w := doJSON(t, router, http.MethodGet, "/admin/legal/posiki/cookie/ko", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, legalBase+"/de", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, legalBase+"/ko", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
