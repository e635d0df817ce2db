package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/middleware"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/service"
)

// ProductHandler exposes the product workflows over HTTP.
type ProductHandler struct {
	Products *service.ProductService
}

func NewProductHandler(p *service.ProductService) *ProductHandler {
	if p == nil {
		panic("nil service passed to NewProductHandler")
	}
	return &ProductHandler{Products: p}
}

// productResp is the public shape of a product: images are flattened to
// their URLs.
type productResp struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
	Slug        string          `json:"slug"`
	Stock       int             `json:"stock"`
	Sizes       []string        `json:"sizes"`
	Gender      string          `json:"gender"`
	Tags        []string        `json:"tags"`
	Images      []string        `json:"images"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toProductResp(p *model.Product) productResp {
	sizes, tags := []string(p.Sizes), []string(p.Tags)
	if sizes == nil {
		sizes = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return productResp{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       sizes,
		Gender:      p.Gender,
		Tags:        tags,
		Images:      p.ImageURLs(),
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var in service.ProductInput
	if err := decode(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.Products.Create(c.Request().Context(), in, middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toProductResp(p))
}

// List handles GET /v1/products?limit=&offset=.  Unparsable values fall back
// to the defaults.
func (h *ProductHandler) List(c echo.Context) error {
	page := contracts.Page{
		Limit:  queryInt(c, "limit", service.DefaultPageLimit),
		Offset: queryInt(c, "offset", 0),
	}
	items, err := h.Products.List(c.Request().Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]productResp, 0, len(items))
	for i := range items {
		out = append(out, toProductResp(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Find handles GET /v1/products/:term where term is a UUID or a slug.
func (h *ProductHandler) Find(c echo.Context) error {
	p, err := h.Products.Resolve(c.Request().Context(), c.Param("term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Update handles PATCH /v1/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	var patch service.ProductPatch
	if err := decode(c, &patch); err != nil {
		return writeError(c, err)
	}
	p, err := h.Products.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Remove handles DELETE /v1/products/:term.
func (h *ProductHandler) Remove(c echo.Context) error {
	if err := h.Products.Remove(c.Request().Context(), c.Param("term")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
