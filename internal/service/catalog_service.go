package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/core/cache"
	"goeat-backend/internal/domain"
	"goeat-backend/pkg/utils"
)

const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyProductPfx = "catalog:product:"
	catalogCacheTTL    = 5 * time.Minute
)

type CatalogService struct {
	repo  domain.CatalogRepository
	cache *cache.Cache // 可为 nil（测试 / 未配置 redis 时直连库）
	media Media
	log   *zap.Logger
}

func NewCatalogService(repo domain.CatalogRepository, c *cache.Cache, media Media, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: c, media: media, log: log}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	load := func(ctx context.Context) (*[]CategoryView, error) {
		cats, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]CategoryView, 0, len(cats))
		for i := range cats {
			views = append(views, newCategoryView(&cats[i], s.media))
		}
		return &views, nil
	}

	if s.cache == nil {
		v, err := load(ctx)
		if err != nil {
			return nil, apperr.Internal("list categories failed", err)
		}
		return *v, nil
	}
	v, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKeyCategories, catalogCacheTTL, load)
	if err != nil {
		return nil, apperr.Internal("list categories failed", err)
	}
	return *v, nil
}

type CreateCategoryInput struct {
	Name  string `json:"name" binding:"required,max=100"`
	Image string `json:"image"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*CategoryView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("category name required")
	}
	c := &domain.Category{ID: utils.NewID(), Name: name, Image: in.Image}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, apperr.Internal("create category failed", err)
	}
	s.invalidate(ctx, cacheKeyCategories)
	v := newCategoryView(c, s.media)
	return &v, nil
}

// ListProducts 公开列表只给 active=true 的商品；分类过滤按名字精确匹配
func (s *CatalogService) ListProducts(ctx context.Context, categoryName string) ([]ProductView, error) {
	ps, err := s.repo.ListProducts(ctx, categoryName, true)
	if err != nil {
		return nil, apperr.Internal("list products failed", err)
	}
	views := make([]ProductView, 0, len(ps))
	for i := range ps {
		views = append(views, newProductView(&ps[i], s.media))
	}
	return views, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	load := func(ctx context.Context) (*ProductView, error) {
		p, err := s.repo.FindProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, nil
		}
		v := newProductView(p, s.media)
		return &v, nil
	}

	var v *ProductView
	var err error
	if s.cache == nil {
		v, err = load(ctx)
	} else {
		v, err = cache.GetOrLoadJSON(s.cache, ctx, cacheKeyProductPfx+id, catalogCacheTTL, load)
	}
	if err != nil {
		return nil, apperr.Internal("get product failed", err)
	}
	if v == nil {
		return nil, apperr.NotFound("product not found")
	}
	return v, nil
}

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Image       string          `json:"image"`
	CategoryID  string          `json:"category" binding:"required"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*ProductView, error) {
	if !in.Price.IsPositive() {
		return nil, apperr.Validation("price must be positive")
	}
	cat, err := s.repo.FindCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, apperr.Internal("lookup category failed", err)
	}
	if cat == nil {
		return nil, apperr.NotFound("category not found")
	}
	p := &domain.Product{
		ID:          utils.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		Brand:       in.Brand,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		Category:    *cat,
		Active:      true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, apperr.Internal("create product failed", err)
	}
	v := newProductView(p, s.media)
	return &v, nil
}

// UpdateProductInput 部分更新：nil 字段不动
type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	Image       *string          `json:"image"`
	CategoryID  *string          `json:"category"`
	Active      *bool            `json:"active"`
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*ProductView, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, apperr.Validation("price must be positive")
		}
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.CategoryID != nil {
		cat, err := s.repo.FindCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, apperr.Internal("lookup category failed", err)
		}
		if cat == nil {
			return nil, apperr.NotFound("category not found")
		}
		fields["category_id"] = *in.CategoryID
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}

	rows, err := s.repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, apperr.Internal("update product failed", err)
	}
	if rows == 0 {
		return nil, apperr.NotFound("product not found")
	}
	s.invalidate(ctx, cacheKeyProductPfx+id)

	p, err := s.repo.FindProduct(ctx, id)
	if err != nil || p == nil {
		return nil, apperr.Internal("reload product failed", err)
	}
	v := newProductView(p, s.media)
	return &v, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	rows, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return apperr.Internal("delete product failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("product not found")
	}
	s.invalidate(ctx, cacheKeyProductPfx+id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, keys...)
	}
}
