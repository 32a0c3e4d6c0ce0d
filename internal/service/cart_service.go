package service

import (
	"context"

	"go.uber.org/zap"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/domain"
)

type CartService struct {
	carts    domain.CartRepository
	products domain.CatalogRepository
	media    Media
	log      *zap.Logger
}

func NewCartService(carts domain.CartRepository, products domain.CatalogRepository, media Media, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, media: media, log: log}
}

func (s *CartService) List(ctx context.Context, userID string) ([]CartView, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list cart failed", err)
	}
	views := make([]CartView, 0, len(items))
	for i := range items {
		views = append(views, newCartView(&items[i], s.media))
	}
	return views, nil
}

// Add 加购是 upsert：已有 (user, product) 行就累加数量
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if productID == "" {
		return nil, apperr.Validation("product id required")
	}
	if qty < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}
	p, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, apperr.Internal("lookup product failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}
	item, err := s.carts.AddQuantity(ctx, userID, productID, qty)
	if err != nil {
		return nil, apperr.Internal("add to cart failed", err)
	}
	v := newCartView(item, s.media)
	return &v, nil
}

// SetQuantity 数量 <= 0 视为移除该条目，removed=true
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID string, qty int) (*CartView, bool, error) {
	item, err := s.carts.FindOwned(ctx, userID, itemID)
	if err != nil {
		return nil, false, apperr.Internal("lookup cart item failed", err)
	}
	if item == nil {
		return nil, false, apperr.NotFound("cart item not found")
	}
	if qty <= 0 {
		if _, err := s.carts.Delete(ctx, userID, itemID); err != nil {
			return nil, false, apperr.Internal("remove cart item failed", err)
		}
		return nil, true, nil
	}
	if err := s.carts.SetQuantity(ctx, userID, itemID, qty); err != nil {
		return nil, false, apperr.Internal("update cart item failed", err)
	}
	item.Quantity = qty
	v := newCartView(item, s.media)
	return &v, false, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	rows, err := s.carts.Delete(ctx, userID, itemID)
	if err != nil {
		return apperr.Internal("remove cart item failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("cart item not found")
	}
	return nil
}
