package service

import (
	"context"

	"github.com/shopspring/decimal"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/domain"
)

type AdminService struct {
	users   domain.UserRepository
	catalog domain.CatalogRepository
	orders  domain.OrderRepository
}

func NewAdminService(users domain.UserRepository, catalog domain.CatalogRepository, orders domain.OrderRepository) *AdminService {
	return &AdminService{users: users, catalog: catalog, orders: orders}
}

type Stats struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// Stats 营收只算 status=completed，processing/shipped/delivered 不入账
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, apperr.Internal("count users failed", err)
	}
	products, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("count products failed", err)
	}
	orders, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, apperr.Internal("count orders failed", err)
	}
	revenue, err := s.orders.Revenue(ctx)
	if err != nil {
		return nil, apperr.Internal("aggregate revenue failed", err)
	}
	return &Stats{
		TotalUsers:    users,
		TotalProducts: products,
		TotalOrders:   orders,
		TotalRevenue:  revenue,
	}, nil
}
