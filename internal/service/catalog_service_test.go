package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"goeat-backend/internal/repo"
)

// 目录服务测试不挂 redis，cache=nil 走直连库的分支
func newCatalogFixture(t *testing.T) (*gorm.DB, *CatalogService) {
	t.Helper()
	db := newTestDB(t)
	return db, NewCatalogService(repo.NewCatalogRepo(db), nil, testMedia, zap.NewNop())
}

func TestCategoryCreateAndList(t *testing.T) {
	_, svc := newCatalogFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: " Cakes ", Image: "categories/cakes.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Cakes", created.Name)
	assert.Equal(t, "https://media.test/categories/cakes.jpg", created.Image)

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "   "})
	requireCode(t, err, http.StatusBadRequest)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, created.ID, cats[0].ID)
}

func TestProductListFilters(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()
	cakes := seedCategory(t, db, "Cakes")
	drinks := seedCategory(t, db, "Drinks")
	seedProduct(t, db, cakes, "Chocolate Cake", "120.50", true)
	seedProduct(t, db, cakes, "Retired Cake", "99.00", false)
	seedProduct(t, db, drinks, "Cold Coffee", "30.00", true)

	// 公开列表只含上架商品
	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		assert.True(t, p.Active)
	}

	// 分类名精确匹配
	onlyCakes, err := svc.ListProducts(ctx, "Cakes")
	require.NoError(t, err)
	require.Len(t, onlyCakes, 1)
	assert.Equal(t, "Chocolate Cake", onlyCakes[0].Name)
	assert.Equal(t, "Cakes", onlyCakes[0].CategoryName)

	none, err := svc.ListProducts(ctx, "cakes")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProductCreate(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()
	cakes := seedCategory(t, db, "Cakes")

	p, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Red Velvet",
		Price:      decimal.RequireFromString("150.00"),
		Brand:      "Goeat",
		Image:      "products/red-velvet.jpg",
		CategoryID: cakes.ID,
	})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Equal(t, "Cakes", p.CategoryName)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Orphan",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: "missing",
	})
	requireCode(t, err, http.StatusNotFound)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Free Cake",
		Price:      decimal.Zero,
		CategoryID: cakes.ID,
	})
	requireCode(t, err, http.StatusBadRequest)
}

func TestProductPartialUpdate(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()
	cakes := seedCategory(t, db, "Cakes")
	p := seedProduct(t, db, cakes, "Chocolate Cake", "120.50", true)

	newPrice := decimal.RequireFromString("130.00")
	off := false
	v, err := svc.UpdateProduct(ctx, p.ID, UpdateProductInput{Price: &newPrice, Active: &off})
	require.NoError(t, err)
	assert.True(t, v.Price.Equal(newPrice))
	assert.False(t, v.Active)
	assert.Equal(t, "Chocolate Cake", v.Name) // 未提字段不动

	_, err = svc.UpdateProduct(ctx, "missing", UpdateProductInput{Price: &newPrice})
	requireCode(t, err, http.StatusNotFound)

	missingCat := "missing"
	_, err = svc.UpdateProduct(ctx, p.ID, UpdateProductInput{CategoryID: &missingCat})
	requireCode(t, err, http.StatusNotFound)

	bad := decimal.Zero
	_, err = svc.UpdateProduct(ctx, p.ID, UpdateProductInput{Price: &bad})
	requireCode(t, err, http.StatusBadRequest)
}

func TestProductGetAndDelete(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()
	cakes := seedCategory(t, db, "Cakes")
	p := seedProduct(t, db, cakes, "Chocolate Cake", "120.50", true)

	v, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, v.ID)
	assert.Equal(t, "https://media.test/products/Chocolate Cake.jpg", v.Image)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProduct(ctx, p.ID)
	requireCode(t, err, http.StatusNotFound)

	requireCode(t, svc.DeleteProduct(ctx, p.ID), http.StatusNotFound)
}
