package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"goeat-backend/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create 订单头 + 全部明细一个事务落库；任一行失败整体回滚，
// 不允许出现只有部分明细的订单
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("User").
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepo) Update(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Items", "User").Save(o).Error
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// Delete 显式先删明细再删订单头，不指望每个库都开了级联
func (r *OrderRepo) Delete(ctx context.Context, id string) (int64, error) {
	var rows int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Order{})
		rows = res.RowsAffected
		return res.Error
	})
	return rows, err
}

func (r *OrderRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error
	return n, err
}

func (r *OrderRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", domain.OrderCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *OrderRepo) RevenueByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("user_id = ? AND status = ?", userID, domain.OrderCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
