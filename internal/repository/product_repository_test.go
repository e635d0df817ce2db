package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/testutil"
)

func seedProduct(t *testing.T, repo *repository.ProductRepo, title string, urls ...string) *model.Product {
	t.Helper()
	ctx := context.Background()

	p := &model.Product{Title: title, Price: decimal.RequireFromString("10.50"), Gender: "unisex"}
	require.NoError(t, repo.Create(ctx, p))
	images := make([]model.ProductImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, model.ProductImage{URL: u, ProductID: p.ID})
	}
	require.NoError(t, repo.InsertImages(ctx, images))
	return p
}

func countImages(t *testing.T, db *gorm.DB, productID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.ProductImage{}).Where("product_id = ?", productID).Count(&n).Error)
	return n
}

func TestProductRepo_CreateAssignsIDAndSlug(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))

	p := seedProduct(t, repo, "Men's Chill Crew Neck")

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "mens_chill_crew_neck", p.Slug)
}

func TestProductRepo_FindLoadsImagesOnBothPaths(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Shirt", "a.png", "b.png")

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	bySlug, err := repo.FindBySlug(ctx, "shirt")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.png", "b.png"}, byID.ImageURLs())
	assert.Equal(t, byID.ImageURLs(), bySlug.ImageURLs())
	assert.Equal(t, byID.ID, bySlug.ID)
	assert.True(t, byID.Price.Equal(decimal.RequireFromString("10.5")))
}

func TestProductRepo_FindMissing(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindBySlug(ctx, "nothing-here")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepo_DuplicateSlugIsValidationError(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	seedProduct(t, repo, "Shirt")

	err := repo.Create(context.Background(), &model.Product{Title: "Another shirt", Slug: "shirt", Gender: "men"})

	var ve *repository.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)
}

func TestProductRepo_DeleteCascadesImages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewProductRepo(db)
	p := seedProduct(t, repo, "Shirt", "a.png", "b.png")
	require.EqualValues(t, 2, countImages(t, db, p.ID))

	require.NoError(t, repo.Delete(context.Background(), p))

	assert.EqualValues(t, 0, countImages(t, db, p.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), p), repository.ErrNotFound)
}

func TestProductRepo_TransactionRollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()
	p := seedProduct(t, repo, "Shirt", "a.png")
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx contracts.ProductStore) error {
		require.NoError(t, tx.DeleteImages(ctx, p.ID))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, countImages(t, db, p.ID))
}

func TestProductRepo_TransactionRollsBackOnPanic(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()
	p := seedProduct(t, repo, "Shirt", "a.png")

	assert.Panics(t, func() {
		_ = repo.Transaction(ctx, func(tx contracts.ProductStore) error {
			_ = tx.DeleteImages(ctx, p.ID)
			panic("mid-transaction fault")
		})
	})

	assert.EqualValues(t, 1, countImages(t, db, p.ID))
}

func TestProductRepo_ListPages(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	ctx := context.Background()
	for _, title := range []string{"One", "Two", "Three"} {
		seedProduct(t, repo, title, title+".png")
	}

	first, err := repo.List(ctx, contracts.Page{Limit: 2})
	require.NoError(t, err)
	rest, err := repo.List(ctx, contracts.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, rest, 1)
	for _, p := range append(first, rest...) {
		assert.Len(t, p.Images, 1)
	}
}

func TestProductRepo_SaveMissingIsNotFound(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Shirt")
	require.NoError(t, repo.Delete(ctx, p))

	p.Title = "Shirt V2"
	assert.ErrorIs(t, repo.Save(ctx, p), repository.ErrNotFound)
	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepo_SaveUnchangedRowSucceeds(t *testing.T) {
	repo := repository.NewProductRepo(testutil.NewDB(t))
	ctx := context.Background()
	p := seedProduct(t, repo, "Shirt")

	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.Save(ctx, p))
}
