package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending" // 建单初始态，等支付回执
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderCompleted  OrderStatus = "completed" // 签名校验通过后的唯一入账状态
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderPending: {}, OrderProcessing: {}, OrderShipped: {},
	OrderDelivered: {}, OrderCancelled: {}, OrderCompleted: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatuses[s]
	return ok
}

type Order struct {
	ID                string          `gorm:"primaryKey;size:32" json:"id"`
	UserID            string          `gorm:"size:32;not null;index" json:"-"`
	User              User            `gorm:"foreignKey:UserID" json:"-"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            OrderStatus     `gorm:"size:20;not null;default:pending" json:"status"`
	RazorpayOrderID   string          `gorm:"size:100" json:"razorpay_order_id"`
	RazorpayPaymentID string          `gorm:"size:100" json:"razorpay_payment_id"`
	Items             []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时抓拍商品单价，之后改价不影响历史订单
type OrderItem struct {
	ID        string          `gorm:"primaryKey;size:32" json:"id"`
	OrderID   string          `gorm:"size:32;not null;index" json:"order"`
	ProductID string          `gorm:"size:32;not null" json:"product"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderRepository interface {
	// Create 订单 + 明细在同一事务内落库，任一失败整体回滚
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	// Revenue 只统计 status=completed 的订单总额
	Revenue(ctx context.Context) (decimal.Decimal, error)
	RevenueByUser(ctx context.Context, userID string) (decimal.Decimal, error)
}
