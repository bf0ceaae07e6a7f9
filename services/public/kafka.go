package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
)

// NotificationPublisher dispatches contact notification events to the
// mailer. Publish is synchronous: when it returns nil the event has been
// accepted by the broker.
type NotificationPublisher interface {
	Publish(ctx context.Context, event *models.ContactNotificationEvent) error
	Close() error
}

// KafkaPublisher writes notification events to the contact notifications
// topic, keyed by tenant so one tenant's events stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher from KAFKA_BROKERS and
// KAFKA_CONTACT_TOPIC.
func NewKafkaPublisher() *KafkaPublisher {
	brokers := strings.Split(config.GetEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := config.GetEnv("KAFKA_CONTACT_TOPIC", "contact-notifications")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}

	logrus.Infof("Kafka publisher initialized for topic %s", topic)
	return &KafkaPublisher{writer: writer}
}

// Publish sends one event and waits for broker acknowledgement.
func (p *KafkaPublisher) Publish(ctx context.Context, event *models.ContactNotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TenantUID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"tenant":   event.TenantUID,
	}).Info("Contact notification event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
