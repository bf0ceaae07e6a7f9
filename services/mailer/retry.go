package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
)

// RetryWorker re-sends parked notifications with exponential backoff.
type RetryWorker struct {
	db            *gorm.DB
	mailer        *Mailer
	maxRetries    int
	batchSize     int
	checkInterval time.Duration
}

// NewRetryWorker builds a worker from MAILER_MAX_RETRIES,
// MAILER_RETRY_BATCH and MAILER_RETRY_INTERVAL_SECONDS.
func NewRetryWorker(db *gorm.DB, mailer *Mailer) *RetryWorker {
	maxRetries, _ := strconv.Atoi(config.GetEnv("MAILER_MAX_RETRIES", "5"))
	batchSize, _ := strconv.Atoi(config.GetEnv("MAILER_RETRY_BATCH", "20"))
	intervalSec, _ := strconv.Atoi(config.GetEnv("MAILER_RETRY_INTERVAL_SECONDS", "60"))

	return &RetryWorker{
		db:            db,
		mailer:        mailer,
		maxRetries:    maxRetries,
		batchSize:     batchSize,
		checkInterval: time.Duration(intervalSec) * time.Second,
	}
}

// ProcessFailedNotifications runs the retry loop until the process exits.
func (rw *RetryWorker) ProcessFailedNotifications() {
	log.Println("Starting failed notification retry worker...")

	for {
		var failed []models.FailedNotification
		err := rw.db.Where("status = ? AND next_retry_at <= ?", "pending", time.Now()).
			Order("created_at ASC").
			Limit(rw.batchSize).
			Find(&failed).Error

		if err != nil {
			log.Printf("Error fetching failed notifications: %v", err)
			time.Sleep(rw.checkInterval)
			continue
		}

		if len(failed) == 0 {
			time.Sleep(rw.checkInterval)
			continue
		}

		log.Printf("Processing %d failed notifications for retry", len(failed))

		for _, f := range failed {
			if err := rw.retryNotification(f); err != nil {
				log.Printf("Failed to retry notification %s: %v", f.ID, err)
			}
		}

		time.Sleep(rw.checkInterval)
	}
}

// retryNotification re-sends one parked notification.
func (rw *RetryWorker) retryNotification(failed models.FailedNotification) error {
	var event models.ContactNotificationEvent
	if err := json.Unmarshal([]byte(failed.Payload), &event); err != nil {
		return rw.markPermanentlyFailed(failed, fmt.Sprintf("Unreadable payload: %v", err))
	}

	if err := rw.mailer.SendContactNotification(&event); err != nil {
		return rw.updateRetryStatus(failed, err)
	}

	return rw.markResolved(failed)
}

// updateRetryStatus advances the retry count and schedules the next
// attempt with exponential backoff: 1m, 2m, 4m, 8m, 16m.
func (rw *RetryWorker) updateRetryStatus(failed models.FailedNotification, sendErr error) error {
	failed.RetryCount++
	failed.UpdatedAt = time.Now()

	if failed.RetryCount >= rw.maxRetries {
		failed.Status = "permanently_failed"
		now := time.Now()
		failed.ResolvedAt = &now
		failed.ErrorMessage = fmt.Sprintf("Max retries reached: %s", sendErr.Error())
	} else {
		baseDelay := 1 * time.Minute
		delay := baseDelay * time.Duration(1<<(failed.RetryCount-1))
		nextRetryAt := time.Now().Add(delay)
		failed.NextRetryAt = &nextRetryAt
		failed.ErrorMessage = sendErr.Error()
	}

	return rw.db.Save(&failed).Error
}

// markResolved closes a parked notification after a successful send.
func (rw *RetryWorker) markResolved(failed models.FailedNotification) error {
	now := time.Now()
	failed.Status = "resolved"
	failed.UpdatedAt = now
	failed.ResolvedAt = &now

	return rw.db.Save(&failed).Error
}

// markPermanentlyFailed closes a parked notification without delivery.
func (rw *RetryWorker) markPermanentlyFailed(failed models.FailedNotification, reason string) error {
	now := time.Now()
	failed.Status = "permanently_failed"
	failed.UpdatedAt = now
	failed.ResolvedAt = &now
	failed.ErrorMessage = reason

	return rw.db.Save(&failed).Error
}

// Stats reports queue counts for the stats endpoint.
func (rw *RetryWorker) Stats() map[string]interface{} {
	var stats struct {
		Pending           int64 `json:"pending"`
		Resolved          int64 `json:"resolved"`
		PermanentlyFailed int64 `json:"permanently_failed"`
	}

	rw.db.Model(&models.FailedNotification{}).Where("status = ?", "pending").Count(&stats.Pending)
	rw.db.Model(&models.FailedNotification{}).Where("status = ?", "resolved").Count(&stats.Resolved)
	rw.db.Model(&models.FailedNotification{}).Where("status = ?", "permanently_failed").Count(&stats.PermanentlyFailed)

	return map[string]interface{}{
		"retry_stats": stats,
		"config": map[string]interface{}{
			"max_retries":    rw.maxRetries,
			"batch_size":     rw.batchSize,
			"check_interval": rw.checkInterval.String(),
		},
	}
}
