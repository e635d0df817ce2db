// Package repository contains data access logic separated from HTTP handlers.
// This file implements the product Entity Store on top of gorm.  Every method
// takes a context so that cancellation reaches the driver, and every error
// leaves through Translate so callers only ever see the repository taxonomy.
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
)

// ProductRepo encapsulates all queries related to products and their
// images.  The same type serves plain calls and transactional calls: inside
// Transaction the db field is bound to the open *gorm.DB transaction.
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepo constructs a ProductRepo with the provided gorm handle.
func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

var _ contracts.ProductStore = (*ProductRepo)(nil)

func (r *ProductRepo) withImages(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_images.id")
	})
}

// FindByID loads a product and its images by primary key.  It returns
// ErrNotFound if no row matches.
func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.withImages(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, Translate("find product by id", err)
	}
	return &p, nil
}

// FindBySlug loads a product and its images by slug.
func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := r.withImages(ctx).Where("slug = ?", slug).Take(&p).Error; err != nil {
		return nil, Translate("find product by slug", err)
	}
	return &p, nil
}

// List returns one page of products ordered by creation time.
func (r *ProductRepo) List(ctx context.Context, page contracts.Page) ([]model.Product, error) {
	var out []model.Product
	err := r.withImages(ctx).
		Order("created_at").Order("id").
		Limit(page.Limit).Offset(page.Offset).
		Find(&out).Error
	if err != nil {
		return nil, Translate("list products", err)
	}
	return out, nil
}

// Create inserts the product row.  Associations are omitted here; images
// are written explicitly with InsertImages.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	return Translate("create product", err)
}

// productColumns are the columns Save rewrites, zero values included.
var productColumns = []string{
	"title", "price", "description", "slug", "stock",
	"sizes", "gender", "tags", "user_id", "updated_at",
}

// Save writes the scalar columns of an existing product.  It never inserts:
// a row deleted concurrently stays deleted and Save returns ErrNotFound.
func (r *ProductRepo) Save(ctx context.Context, p *model.Product) error {
	res := r.db.WithContext(ctx).Model(p).Select(productColumns).Updates(p)
	if res.Error != nil {
		return Translate("save product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product row.  The product_images foreign key is
// declared ON DELETE CASCADE, so the database drops the images.
func (r *ProductRepo) Delete(ctx context.Context, p *model.Product) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", p.ID)
	if res.Error != nil {
		return Translate("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteImages removes every image owned by the product.
func (r *ProductRepo) DeleteImages(ctx context.Context, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error
	return Translate("delete product images", err)
}

// InsertImages inserts the rows in a single statement.  An empty slice is a
// no-op.
func (r *ProductRepo) InsertImages(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&images).Error
	return Translate("insert product images", err)
}

// Transaction runs fn inside gorm's transaction scope: commit on nil,
// rollback on error or panic, connection released either way.  Errors
// returned by fn are passed through untouched; failures of the commit itself
// are translated.
func (r *ProductRepo) Transaction(ctx context.Context, fn func(tx contracts.ProductStore) error) error {
	var fnErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&ProductRepo{db: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return Translate("product transaction", err)
}
