package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"goeat-backend/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func NewWishlistRepo(db *gorm.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *WishlistRepo) Find(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *WishlistRepo) Create(ctx context.Context, w *domain.WishlistItem) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// DeleteByProduct 对不存在的条目删除是 no-op，不报错
func (r *WishlistRepo) DeleteByProduct(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistItem{}).Error
}
