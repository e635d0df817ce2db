package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/queue"
	"github.com/iliyamo/catalog-api/internal/repository"
)

var errInvalidProduct = errors.New("invalid product")

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	defaultGender    = "unisex"
)

// ProductInput is the payload of a create request.  Images holds URLs; one
// image row is created per entry, in order.
type ProductInput struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Description *string         `json:"description"`
	Slug        string          `json:"slug" validate:"max=255"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Sizes       []string        `json:"sizes" validate:"dive,required"`
	Gender      string          `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        []string        `json:"tags" validate:"dive,required"`
	Images      []string        `json:"images" validate:"dive,required"`
}

// ProductPatch is a partial update.  A nil field is absent and leaves the
// stored value untouched.  Images distinguishes absent (nil) from an empty
// list, which removes every image.
type ProductPatch struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Sizes       *[]string        `json:"sizes" validate:"omitempty,dive,required"`
	Gender      *string          `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string        `json:"tags" validate:"omitempty,dive,required"`
	Images      *[]string        `json:"images" validate:"omitempty,dive,required"`
}

// applyTo merges the present fields onto p.
func (patch ProductPatch) applyTo(p *model.Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Sizes != nil {
		p.Sizes = datatypes.JSONSlice[string](*patch.Sizes)
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Tags != nil {
		p.Tags = datatypes.JSONSlice[string](*patch.Tags)
	}
}

// ProductService implements the product workflows on top of a ProductStore.
// Lookups accept either the product UUID or its slug; writes that involve
// images run inside a single store transaction.
type ProductService struct {
	store  contracts.ProductStore
	events contracts.EventPublisher
	log    contracts.Logger
}

// NewProductService wires the service.  events may be nil, in which case no
// catalog events are emitted.
func NewProductService(store contracts.ProductStore, events contracts.EventPublisher, log contracts.Logger) *ProductService {
	if store == nil || log == nil {
		panic("nil dependency passed to NewProductService")
	}
	return &ProductService{store: store, events: events, log: log}
}

// Resolve finds a product by UUID or, failing the UUID format test, by slug.
// Images are loaded on both paths.
func (s *ProductService) Resolve(ctx context.Context, term string) (*model.Product, error) {
	term = strings.TrimSpace(term)

	var (
		p   *model.Product
		err error
	)
	if id, perr := uuid.Parse(term); perr == nil {
		p, err = s.store.FindByID(ctx, id)
	} else {
		p, err = s.store.FindBySlug(ctx, term)
	}
	if err != nil {
		return nil, s.fail(term, err)
	}
	return p, nil
}

// List returns a page of products.  A non-positive limit means the default,
// limits above MaxPageLimit are capped and negative offsets count as 0.
func (s *ProductService) List(ctx context.Context, page contracts.Page) ([]model.Product, error) {
	if page.Limit <= 0 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	items, err := s.store.List(ctx, page)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return items, nil
}

// Create inserts the product and its images atomically.  owner, when not
// nil, is recorded as the creator.
func (s *ProductService) Create(ctx context.Context, in ProductInput, owner *model.User) (*model.Product, error) {
	p := &model.Product{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Description: in.Description,
		Slug:        in.Slug,
		Stock:       in.Stock,
		Sizes:       datatypes.JSONSlice[string](in.Sizes),
		Gender:      in.Gender,
		Tags:        datatypes.JSONSlice[string](in.Tags),
	}
	if p.Gender == "" {
		p.Gender = defaultGender
	}
	if owner != nil {
		p.UserID = &owner.ID
	}
	if err := checkProduct(p); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx contracts.ProductStore) error {
		if err := tx.Create(ctx, p); err != nil {
			return err
		}
		p.Images = newImages(p.ID, in.Images)
		return tx.InsertImages(ctx, p.Images)
	})
	if err != nil {
		return nil, s.fail(p.Title, err)
	}

	s.publish(ctx, queue.EventProductCreated, p)
	return p, nil
}

// Update merges patch onto the stored product identified by id.
//
// The current row is read first; a missing product (or an id that is not a
// UUID) fails with ErrNotFound before any transaction is opened.  Without
// an image list only the product row is written.  With one, the old image
// rows are deleted, the product row saved and the new rows inserted inside
// one transaction, so a failure leaves both tables as they were.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*model.Product, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, s.fail(id, repository.ErrNotFound)
	}
	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		return nil, s.fail(id, err)
	}

	patch.applyTo(p)
	if err := checkProduct(p); err != nil {
		return nil, err
	}

	if patch.Images == nil {
		if err := s.store.Save(ctx, p); err != nil {
			return nil, s.fail(id, err)
		}
	} else {
		images := newImages(p.ID, *patch.Images)
		err := s.store.Transaction(ctx, func(tx contracts.ProductStore) error {
			if err := tx.DeleteImages(ctx, p.ID); err != nil {
				return err
			}
			if err := tx.Save(ctx, p); err != nil {
				return err
			}
			return tx.InsertImages(ctx, images)
		})
		if err != nil {
			return nil, s.fail(id, err)
		}
		p.Images = images
	}

	s.publish(ctx, queue.EventProductUpdated, p)
	return p, nil
}

// Remove resolves term and deletes the product; its images are removed by
// the database cascade.
func (s *ProductService) Remove(ctx context.Context, term string) error {
	p, err := s.Resolve(ctx, term)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p); err != nil {
		return s.fail(term, err)
	}
	s.publish(ctx, queue.EventProductDeleted, p)
	return nil
}

// checkProduct enforces the row invariants that do not depend on other
// rows.  Callers outside HTTP skip the request validator, so they are
// checked again before any write.
func checkProduct(p *model.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return &repository.ValidationError{Field: "title", Detail: "must not be empty", Err: errInvalidProduct}
	case p.Price.IsNegative():
		return &repository.ValidationError{Field: "price", Detail: "must not be negative", Err: errInvalidProduct}
	case p.Stock < 0:
		return &repository.ValidationError{Field: "stock", Detail: "must not be negative", Err: errInvalidProduct}
	}
	return nil
}

func newImages(productID uuid.UUID, urls []string) []model.ProductImage {
	images := make([]model.ProductImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, model.ProductImage{URL: strings.TrimSpace(u), ProductID: productID})
	}
	return images
}

// fail classifies err and logs store failures.  NotFound is annotated with
// the identifier the caller asked for.
func (s *ProductService) fail(ref string, err error) error {
	err = repository.Translate("product", err)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("product %q: %w", ref, repository.ErrNotFound)
	}
	var pe *repository.PersistenceError
	if errors.As(err, &pe) {
		s.log.Errorf("product %q: %v", ref, err)
	}
	return err
}

func (s *ProductService) publish(ctx context.Context, eventType string, p *model.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(ctx, eventType, p); err != nil {
		s.log.Warnf("publish %s for product %s: %v", eventType, p.ID, err)
	}
}
