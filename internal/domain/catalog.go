package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Image     string    `gorm:"size:255" json:"image"` // 存相对路径，读出时拼媒体域名
	Products  []Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          string          `gorm:"primaryKey;size:32" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Brand       string          `gorm:"size:100" json:"brand"`
	Image       string          `gorm:"size:255" json:"image"`
	CategoryID  string          `gorm:"size:32;not null;index" json:"category"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"-"`
	Active      bool            `gorm:"not null;default:true" json:"active"` // false 只是下架，公开列表不可见
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]Category, error)
	FindCategory(ctx context.Context, id string) (*Category, error)

	CreateProduct(ctx context.Context, p *Product) error
	// ListProducts 按分类名精确匹配过滤（空串不过滤）；activeOnly 为公开列表语义
	ListProducts(ctx context.Context, categoryName string, activeOnly bool) ([]Product, error)
	FindProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, fields map[string]any) (int64, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
}
