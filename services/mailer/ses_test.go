package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/translate"
)

func testEvent() *models.ContactNotificationEvent {
	return &models.ContactNotificationEvent{
		EventID:   "e1",
		TenantUID: "tenant-test-1",
		AppName:   "포시키",
		Type:      models.InquiryTypeBug,
		TypeKo:    "버그·에러 신고",
		Email:     "visitor@example.com",
		Message:   "Hello",
		MessageKo: "안녕하세요",
		Language:  "en",
		Timestamp: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildBodyIncludesTranslation(t *testing.T) {
	m := &Mailer{from: "no-reply@example.com"}

	body := m.buildBody(testEvent())
	assert.Contains(t, body, "포시키")
	assert.Contains(t, body, "버그·에러 신고")
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "한국어 번역")
	assert.Contains(t, body, "안녕하세요")
}

func TestBuildBodyMarksFailedTranslation(t *testing.T) {
	m := &Mailer{from: "no-reply@example.com"}

	event := testEvent()
	event.MessageKo = translate.FailureSentinel
	body := m.buildBody(event)
	assert.Contains(t, body, "한국어 번역 (실패)")
	assert.Contains(t, body, translate.FailureSentinel)
}

func TestBuildBodySkipsIdenticalTranslation(t *testing.T) {
	m := &Mailer{from: "no-reply@example.com"}

	event := testEvent()
	event.Language = "ko"
	event.Message = "안녕하세요"
	event.MessageKo = "안녕하세요"
	body := m.buildBody(event)
	assert.NotContains(t, body, "한국어 번역")
}

func TestRecipientFallsBackToDefault(t *testing.T) {
	db := newTestDB(t)
	m := &Mailer{db: db, from: "no-reply@example.com", defaultTo: "fallback@example.com"}

	assert.Equal(t, "fallback@example.com", m.recipientFor("unknown-tenant"))

	require.NoError(t, db.Create(&models.Tenant{
		UID: "tenant-test-1", Email: "owner@example.com",
	}).Error)
	assert.Equal(t, "owner@example.com", m.recipientFor("tenant-test-1"))
}

func TestConsumerSkipsResolvedEvents(t *testing.T) {
	db := newTestDB(t)
	nc := &NotificationConsumer{db: db}

	assert.False(t, nc.alreadyHandled("e1"))
	assert.False(t, nc.alreadyHandled(""))

	failed := parkedNotification(t, db, 1)
	// Pending rows do not count as handled
	assert.False(t, nc.alreadyHandled(failed.EventID))

	rw := &RetryWorker{db: db, maxRetries: 5}
	require.NoError(t, rw.markResolved(failed))
	assert.True(t, nc.alreadyHandled(failed.EventID))
}
