package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/gateway"
	"goeat-backend/pkg/utils"
)

const orderCurrency = "INR"

var hundred = decimal.NewFromInt(100)

type OrderService struct {
	orders   domain.OrderRepository
	products domain.CatalogRepository
	gateway  gateway.Client
	media    Media
	log      *zap.Logger
}

func NewOrderService(orders domain.OrderRepository, products domain.CatalogRepository, gw gateway.Client, media Media, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, gateway: gw, media: media, log: log}
}

type OrderItemInput struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" binding:"required"`
	Total decimal.Decimal  `json:"total" binding:"required"`
}

type CreateOrderResult struct {
	OrderID         string `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// Create 下单流程：先把全部商品校验完，再建网关订单，最后订单头 +
// 明细一个事务落库。任何一步失败都不能留下半个订单。
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*CreateOrderResult, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("items required")
	}
	if !in.Total.IsPositive() {
		return nil, apperr.Validation("total required")
	}

	// 1) 全量解析商品，任何一个不存在立即失败，此时还没写过库
	items := make([]domain.OrderItem, 0, len(in.Items))
	computed := decimal.Zero
	orderID := utils.NewID()
	for _, it := range in.Items {
		if it.Quantity < 0 {
			return nil, apperr.Validation("quantity must not be negative")
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		p, err := s.products.FindProduct(ctx, it.ProductID)
		if err != nil {
			return nil, apperr.Internal("lookup product failed", err)
		}
		if p == nil {
			return nil, apperr.NotFound(fmt.Sprintf("product %s not found", it.ProductID))
		}
		// 抓拍下单时的单价
		items = append(items, domain.OrderItem{
			ID:        utils.NewID(),
			OrderID:   orderID,
			ProductID: p.ID,
			Quantity:  qty,
			Price:     p.Price,
		})
		computed = computed.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	// 客户端报的 total 照收，但和服务端算出来的不一致要留痕
	if !computed.Equal(in.Total) {
		s.log.Warn("order total mismatch",
			zap.String("order_id", orderID),
			zap.String("user_id", userID),
			zap.String("client_total", in.Total.String()),
			zap.String("computed_total", computed.String()),
		)
	}

	// 2) 建网关订单（按最小货币单位），超时 + 一次重试都失败按网关不可用处理
	amount := in.Total.Mul(hundred).IntPart()
	po, err := s.gateway.CreateOrder(ctx, amount, orderCurrency, orderID)
	if err != nil {
		return nil, apperr.GatewayUnavailable("payment gateway unavailable", err)
	}

	// 3) 本地落库（单事务）。失败时网关侧只留下一个无人支付的订单，无害
	order := &domain.Order{
		ID:              orderID,
		UserID:          userID,
		Total:           in.Total,
		Status:          domain.OrderPending,
		RazorpayOrderID: po.ID,
		Items:           items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperr.Internal("create order failed", err)
	}

	return &CreateOrderResult{
		OrderID:         order.ID,
		RazorpayOrderID: po.ID,
		Amount:          po.Amount,
		Currency:        po.Currency,
	}, nil
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"order_id" binding:"required"`
}

// VerifyPayment 是订单转 completed 的唯一入口。请求体不可信，
// 只有签名校验通过才动状态。
func (s *OrderService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) error {
	if in.RazorpayOrderID == "" || in.RazorpayPaymentID == "" || in.RazorpaySignature == "" || in.OrderID == "" {
		return apperr.Validation("razorpay_order_id, razorpay_payment_id, razorpay_signature and order_id are required")
	}
	if !s.gateway.VerifySignature(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		return apperr.InvalidSignature("invalid signature")
	}
	o, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return apperr.Internal("lookup order failed", err)
	}
	if o == nil {
		return apperr.NotFound("order not found")
	}
	o.Status = domain.OrderCompleted
	o.RazorpayPaymentID = in.RazorpayPaymentID
	if err := s.orders.Update(ctx, o); err != nil {
		return apperr.Internal("update order failed", err)
	}
	return nil
}

// List 管理员看全部，普通用户只看自己的；都按创建时间倒序
func (s *OrderService) List(ctx context.Context, userID string, isAdmin bool) ([]OrderView, error) {
	var (
		orders []domain.Order
		err    error
	)
	if isAdmin {
		orders, err = s.orders.ListAll(ctx)
	} else {
		orders, err = s.orders.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, apperr.Internal("list orders failed", err)
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i], s.media))
	}
	return views, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*OrderView, error) {
	st := domain.OrderStatus(status)
	if !st.Valid() {
		return nil, apperr.Validation("invalid status")
	}
	rows, err := s.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, apperr.Internal("update order status failed", err)
	}
	if rows == 0 {
		return nil, apperr.NotFound("order not found")
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil || o == nil {
		return nil, apperr.Internal("reload order failed", err)
	}
	v := newOrderView(o, s.media)
	return &v, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	rows, err := s.orders.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete order failed", err)
	}
	if rows == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
