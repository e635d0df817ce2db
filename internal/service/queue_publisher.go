package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/catalog-api/internal/config"
	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/queue"
)

const publishTimeout = 3 * time.Second

// QueuePublisher publishes catalog events to RabbitMQ.  Each publish dials a
// short-lived connection; failures are logged and returned so the caller can
// ignore them without interrupting the request.
type QueuePublisher struct {
	cfg config.QueueConfig
	log contracts.Logger
	now func() time.Time
}

// NewQueuePublisher returns a publisher for cfg.Queue on cfg.URL.
func NewQueuePublisher(cfg config.QueueConfig, log contracts.Logger) *QueuePublisher {
	return &QueuePublisher{cfg: cfg, log: log, now: time.Now}
}

var _ contracts.EventPublisher = (*QueuePublisher)(nil)

// PublishProductEvent sends a persistent JSON ProductEvent to the catalog
// queue through the default exchange.
func (q *QueuePublisher) PublishProductEvent(ctx context.Context, eventType string, p *model.Product) error {
	body, err := json.Marshal(queue.NewProductEvent(eventType, p, q.now()))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.Dial(q.cfg.URL)
	if err != nil {
		q.log.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		q.log.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.cfg.Queue, true, false, false, false, nil); err != nil {
		q.log.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    q.now().UTC(),
		Type:         eventType,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.cfg.Queue, false, false, pub); err != nil {
		q.log.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
