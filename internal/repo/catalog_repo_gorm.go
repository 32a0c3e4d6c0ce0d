package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"goeat-backend/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&cats).Error
	return cats, err
}

func (r *CatalogRepo) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogRepo) ListProducts(ctx context.Context, categoryName string, activeOnly bool) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Preload("Category")
	if activeOnly {
		q = q.Where("products.active = ?", true)
	}
	if categoryName != "" {
		// 按分类名精确匹配（区分大小写），与历史接口保持一致
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.name = ?", categoryName)
	}
	var ps []domain.Product
	err := q.Order("products.created_at DESC").Find(&ps).Error
	return ps, err
}

func (r *CatalogRepo) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *CatalogRepo) UpdateProduct(ctx context.Context, id string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		// 空补丁也要报告目标是否存在
		var n int64
		err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&n).Error
		return n, err
	}
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *CatalogRepo) DeleteProduct(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	return res.RowsAffected, res.Error
}

func (r *CatalogRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}
