// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/catalog-api/internal/model"
)

// Event types published on the catalog queue.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a product write has been committed.  It
// carries enough of the product for downstream consumers to log or index
// the change without querying the primary database.
type ProductEvent struct {
	Type       string   `json:"type"`
	ProductID  string   `json:"product_id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Price      string   `json:"price"`
	Stock      int      `json:"stock"`
	Images     []string `json:"images"`
	UserID     string   `json:"user_id,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// NewProductEvent snapshots p for the given event type.
func NewProductEvent(eventType string, p *model.Product, at time.Time) ProductEvent {
	ev := ProductEvent{
		Type:       eventType,
		ProductID:  p.ID.String(),
		Slug:       p.Slug,
		Title:      p.Title,
		Price:      p.Price.StringFixed(2),
		Stock:      p.Stock,
		Images:     p.ImageURLs(),
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
	if p.UserID != nil {
		ev.UserID = p.UserID.String()
	}
	return ev
}
