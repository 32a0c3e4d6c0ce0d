package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"goeat-backend/internal/domain"
)

// Media 把库里的相对图片路径解析成客户端可用的绝对 URL
type Media struct {
	BaseURL string
}

func (m Media) URL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(m.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type AdminUser struct {
	PublicUser
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

type CategoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type ProductView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Image        string          `json:"image"`
	CategoryID   string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Active       bool            `json:"active"`
}

type CartView struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user"`
	ProductID      string      `json:"product"`
	Quantity       int         `json:"quantity"`
	ProductDetails ProductView `json:"product_details"`
}

type WishlistView struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user"`
	ProductID      string      `json:"product"`
	ProductDetails ProductView `json:"product_details"`
}

type OrderItemView struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order"`
	ProductID      string          `json:"product"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	ProductDetails ProductView     `json:"product_details"`
}

type OrderView struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItemView `json:"items"`
}

func newPublicUser(u *domain.User) PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive}
}

func newCategoryView(c *domain.Category, m Media) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Image: m.URL(c.Image)}
}

func newProductView(p *domain.Product, m Media) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Description:  p.Description,
		Brand:        p.Brand,
		Image:        m.URL(p.Image),
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		Active:       p.Active,
	}
}

func newCartView(i *domain.CartItem, m Media) CartView {
	return CartView{
		ID:             i.ID,
		UserID:         i.UserID,
		ProductID:      i.ProductID,
		Quantity:       i.Quantity,
		ProductDetails: newProductView(&i.Product, m),
	}
}

func newWishlistView(i *domain.WishlistItem, m Media) WishlistView {
	return WishlistView{
		ID:             i.ID,
		UserID:         i.UserID,
		ProductID:      i.ProductID,
		ProductDetails: newProductView(&i.Product, m),
	}
}

func newOrderView(o *domain.Order, m Media) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for idx := range o.Items {
		it := &o.Items[idx]
		items = append(items, OrderItemView{
			ID:             it.ID,
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			Price:          it.Price,
			ProductDetails: newProductView(&it.Product, m),
		})
	}
	return OrderView{
		ID:        o.ID,
		Email:     o.User.Email,
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}
