package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product represents a row of the `products` table.  Images are owned by the
// product: the foreign key on product_images cascades on delete, so removing
// a product never leaves orphan image rows behind.
type Product struct {
	ID          uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string                      `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Price       decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Description *string                     `gorm:"type:text" json:"description"`
	Slug        string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Stock       int                         `gorm:"not null;default:0" json:"stock"`
	Sizes       datatypes.JSONSlice[string] `json:"sizes"`
	Gender      string                      `gorm:"size:16;not null" json:"gender"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	UserID      *uuid.UUID                  `gorm:"type:char(36);index" json:"user_id,omitempty"`
	Images      []ProductImage              `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// ProductImage models a row of `product_images`.  Rows are never edited in
// place: an update that carries an image list deletes and re-inserts them.
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	ProductID uuid.UUID `gorm:"type:char(36);not null;index" json:"-"`
}

// NormalizeSlug lower-cases s, turns spaces into underscores and drops
// apostrophes.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "'", "")
}

// ImageURLs flattens the image relation into its URLs, in stored order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// BeforeCreate assigns the UUID and derives the slug from the title when the
// caller left it empty.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = p.Title
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	if p.Sizes == nil {
		p.Sizes = datatypes.JSONSlice[string]{}
	}
	return nil
}

// BeforeSave keeps the slug normalized on every insert and update.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = NormalizeSlug(p.Slug)
	return nil
}
