package contracts

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/catalog-api/internal/model"
)

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

// ProductStore is the Entity Store the product workflows depend on.  Lookups
// always load the image relation, so callers never see a partially hydrated
// product.  Write methods touch only the table they name; composing them
// atomically is the caller's job through Transaction.
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context, page Page) ([]model.Product, error)

	// Create inserts the product row only.
	Create(ctx context.Context, p *model.Product) error
	// Save writes every scalar column of an existing product row.
	Save(ctx context.Context, p *model.Product) error
	// Delete removes the product row; images go with it through the
	// schema-level cascade.
	Delete(ctx context.Context, p *model.Product) error

	DeleteImages(ctx context.Context, productID uuid.UUID) error
	InsertImages(ctx context.Context, images []model.ProductImage) error

	// Transaction runs fn against a store bound to a single database
	// transaction.  It commits when fn returns nil and rolls back when fn
	// returns an error or panics; the connection is released on every path.
	Transaction(ctx context.Context, fn func(tx ProductStore) error) error
}

// UserStore is what the auth workflows need from persistence.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// EventPublisher delivers catalog events after a successful write.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, eventType string, p *model.Product) error
}
