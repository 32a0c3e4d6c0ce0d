package service

import (
	"context"

	"go.uber.org/zap"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/domain"
	"goeat-backend/pkg/utils"
)

type WishlistService struct {
	wishlist domain.WishlistRepository
	products domain.CatalogRepository
	media    Media
	log      *zap.Logger
}

func NewWishlistService(wishlist domain.WishlistRepository, products domain.CatalogRepository, media Media, log *zap.Logger) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products, media: media, log: log}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]WishlistView, error) {
	items, err := s.wishlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list wishlist failed", err)
	}
	views := make([]WishlistView, 0, len(items))
	for i := range items {
		views = append(views, newWishlistView(&items[i], s.media))
	}
	return views, nil
}

// Toggle 同一个 POST 端点：已收藏就取消，未收藏就加上。
// 返回 added=true 表示本次是加入。
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if productID == "" {
		return false, apperr.Validation("product id required")
	}
	p, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return false, apperr.Internal("lookup product failed", err)
	}
	if p == nil {
		return false, apperr.NotFound("product not found")
	}
	existing, err := s.wishlist.Find(ctx, userID, productID)
	if err != nil {
		return false, apperr.Internal("lookup wishlist failed", err)
	}
	if existing != nil {
		if err := s.wishlist.DeleteByProduct(ctx, userID, productID); err != nil {
			return false, apperr.Internal("remove wishlist item failed", err)
		}
		return false, nil
	}
	w := &domain.WishlistItem{ID: utils.NewID(), UserID: userID, ProductID: productID}
	if err := s.wishlist.Create(ctx, w); err != nil {
		return false, apperr.Internal("add wishlist item failed", err)
	}
	return true, nil
}

// Remove 显式删除，条目不存在也算成功
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return apperr.Validation("product id required")
	}
	if err := s.wishlist.DeleteByProduct(ctx, userID, productID); err != nil {
		return apperr.Internal("remove wishlist item failed", err)
	}
	return nil
}
