package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/catalog-api/internal/config"
	"github.com/iliyamo/catalog-api/internal/model"
)

type discardLogger struct{}

func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}

func TestNewProductEvent(t *testing.T) {
	owner := uuid.New()
	p := &model.Product{
		ID:     uuid.New(),
		Title:  "Shirt",
		Slug:   "shirt",
		Price:  decimal.RequireFromString("12.5"),
		Stock:  3,
		UserID: &owner,
		Images: []model.ProductImage{{URL: "a.jpg"}, {URL: "b.jpg"}},
	}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	ev := NewProductEvent(EventProductCreated, p, at)

	assert.Equal(t, "product.created", ev.Type)
	assert.Equal(t, p.ID.String(), ev.ProductID)
	assert.Equal(t, "12.50", ev.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, ev.Images)
	assert.Equal(t, owner.String(), ev.UserID)
	assert.Equal(t, "2024-05-01T10:00:00Z", ev.OccurredAt)
}

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := NewConsumer(config.QueueConfig{LogDir: dir}, discardLogger{})

	ev := ProductEvent{
		Type:       EventProductDeleted,
		ProductID:  "c0ffee00-0000-4000-8000-000000000001",
		Slug:       "shirt",
		Title:      "Shirt",
		Price:      "0.00",
		Images:     []string{"a.jpg"},
		OccurredAt: "2024-05-01T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, c.handleMessage(body))
	require.NoError(t, c.handleMessage(body))

	raw, err := os.ReadFile(filepath.Join(dir, "catalog.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`[2024-05-01T10:00:00Z] product.deleted | product_id=c0ffee00-0000-4000-8000-000000000001 | slug=shirt | title="Shirt" | price=0.00 | stock=0 | images=[a.jpg]`,
		lines[0])
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	c := NewConsumer(config.QueueConfig{LogDir: t.TempDir()}, discardLogger{})

	assert.Error(t, c.handleMessage([]byte("{not json")))
	assert.Error(t, c.handleMessage([]byte(`{"type":"product.created"}`)))
}
