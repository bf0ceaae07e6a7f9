package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
)

// NotificationConsumer reads contact notification events and hands them to
// the mailer. Delivery failures are parked in failed_notifications for the
// retry worker.
type NotificationConsumer struct {
	reader *kafka.Reader
	db     *gorm.DB
	mailer *Mailer
}

// NewNotificationConsumer creates a consumer in the mailer consumer group.
func NewNotificationConsumer(db *gorm.DB, mailer *Mailer) *NotificationConsumer {
	brokers := strings.Split(config.GetEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := config.GetEnv("KAFKA_CONTACT_TOPIC", "contact-notifications")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        "mailer-service",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &NotificationConsumer{
		reader: reader,
		db:     db,
		mailer: mailer,
	}
}

// Consume runs the read loop until the process exits.
func (nc *NotificationConsumer) Consume() {
	log.Println("Starting contact notifications consumer...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		msg, err := nc.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			// Timeouts are expected when no messages are available
			if err == context.DeadlineExceeded {
				continue
			}
			log.Printf("Error reading notification message: %v", err)
			time.Sleep(1 * time.Second)
			continue
		}

		var event models.ContactNotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("Error unmarshaling notification event: %v", err)
			continue
		}

		if nc.alreadyHandled(event.EventID) {
			log.Printf("Skipping already handled event %s", event.EventID)
			continue
		}

		if err := nc.mailer.SendContactNotification(&event); err != nil {
			log.Printf("Error sending notification for event %s: %v", event.EventID, err)
			if dlqErr := nc.storeFailedNotification(&event, err); dlqErr != nil {
				log.Printf("Failed to store failed notification: %v", dlqErr)
			}
		} else {
			log.Printf("Notification sent for tenant %s, event %s", event.TenantUID, event.EventID)
		}
	}
}

// alreadyHandled guards against redelivery after a rebalance. A resolved
// DLQ row means the email went out on a retry.
func (nc *NotificationConsumer) alreadyHandled(eventID string) bool {
	if eventID == "" {
		return false
	}
	var count int64
	nc.db.Model(&models.FailedNotification{}).
		Where("event_id = ? AND status = ?", eventID, "resolved").
		Count(&count)
	return count > 0
}

// storeFailedNotification parks the event for the retry worker.
func (nc *NotificationConsumer) storeFailedNotification(event *models.ContactNotificationEvent, sendErr error) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	nextRetryAt := time.Now().Add(1 * time.Minute)
	failed := models.FailedNotification{
		ID:           uuid.New(),
		EventID:      event.EventID,
		TenantUID:    event.TenantUID,
		Payload:      string(payload),
		ErrorMessage: sendErr.Error(),
		Status:       "pending",
		NextRetryAt:  &nextRetryAt,
	}

	return nc.db.Create(&failed).Error
}

// Close closes the underlying reader.
func (nc *NotificationConsumer) Close() error {
	if err := nc.reader.Close(); err != nil {
		return fmt.Errorf("failed to close notification reader: %w", err)
	}
	return nil
}
