// Package queue also contains the background consumer that listens to the
// catalog queue and appends one line per event to <LogDir>/catalog.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/catalog-api/internal/config"
	"github.com/iliyamo/catalog-api/internal/contracts"
)

const (
	catalogLogFile = "catalog.log"
	maxBackoff     = 30 * time.Second
)

// Consumer drains the catalog queue into a log file.
type Consumer struct {
	cfg config.QueueConfig
	log contracts.Logger
}

// NewConsumer returns a consumer for cfg.Queue on cfg.URL.
func NewConsumer(cfg config.QueueConfig, log contracts.Logger) *Consumer {
	return &Consumer{cfg: cfg, log: log}
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff whenever the connection or channel drops.  It
// returns ctx.Err() once cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			c.log.Warnf("catalog-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warnf("catalog-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warnf("catalog-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Infof("catalog-consumer: consuming %q", c.cfg.Queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.log.Errorf("catalog-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // poison messages are dropped, not requeued
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ProductEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ProductID == "" {
		return errors.New("event without type or product id")
	}
	if err := os.MkdirAll(c.cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.cfg.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.cfg.LogDir, catalogLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatEvent(ev ProductEvent) string {
	line := fmt.Sprintf("[%s] %s | product_id=%s | slug=%s | title=%q | price=%s | stock=%d | images=[%s]",
		ev.OccurredAt, ev.Type, ev.ProductID, ev.Slug, ev.Title, ev.Price, ev.Stock, strings.Join(ev.Images, ","))
	if ev.UserID != "" {
		line += " | user_id=" + ev.UserID
	}
	return line + "\n"
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
