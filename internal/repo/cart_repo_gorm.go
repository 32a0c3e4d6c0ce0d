package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goeat-backend/internal/domain"
	"goeat-backend/pkg/utils"
)

type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// AddQuantity 加购：同一 (user, product) 冲突时在库内累加数量，
// 读改写分离会丢并发增量，这里必须是单条语句
func (r *CartRepo) AddQuantity(ctx context.Context, userID, productID string, qty int) (*domain.CartItem, error) {
	item := domain.CartItem{
		ID:        utils.NewID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}
	// 冲突路径下 item 里不是库内那一行，按唯一键重读
	var out domain.CartItem
	err = r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&out).Error
	return &out, err
}

func (r *CartRepo) FindOwned(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *CartRepo) SetQuantity(ctx context.Context, userID, itemID string, qty int) error {
	return r.db.WithContext(ctx).Model(&domain.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty).Error
}

func (r *CartRepo) Delete(ctx context.Context, userID, itemID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.CartItem{})
	return res.RowsAffected, res.Error
}
