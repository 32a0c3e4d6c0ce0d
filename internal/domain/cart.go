package domain

import (
	"context"
	"time"
)

// CartItem 每个 (user, product) 至多一行，重复加购走原子累加
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:uniq_cart_user_product" json:"user"`
	ProductID string    `gorm:"size:32;not null;uniqueIndex:uniq_cart_user_product" json:"product"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_items" }

type WishlistItem struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:uniq_wishlist_user_product" json:"user"`
	ProductID string    `gorm:"size:32;not null;uniqueIndex:uniq_wishlist_user_product" json:"product"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]CartItem, error)
	// AddQuantity 单条 INSERT ... ON CONFLICT quantity=quantity+?，并发加购不丢增量
	AddQuantity(ctx context.Context, userID, productID string, qty int) (*CartItem, error)
	// FindOwned 归属校验放在查询谓词里：不是本人的条目等同于不存在
	FindOwned(ctx context.Context, userID, itemID string) (*CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID string, qty int) error
	Delete(ctx context.Context, userID, itemID string) (int64, error)
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]WishlistItem, error)
	Find(ctx context.Context, userID, productID string) (*WishlistItem, error)
	Create(ctx context.Context, w *WishlistItem) error
	DeleteByProduct(ctx context.Context, userID, productID string) error
}
